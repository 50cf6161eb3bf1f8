package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
)

// ErrNotFound reports a lookup for a row that does not exist.
var ErrNotFound = errors.New("not found")

// Store persists rank snapshots, run records and the review queue in one
// SQLite file.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// connPragmas run on every new connection. WAL lets the CLI read
// snapshots while an ingest holds the write lock.
var connPragmas = [...]string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
}

// Open connects to cfg.Paths.StorePath, creating the data directories first.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.Paths.StorePath)
}

// OpenPath opens dbPath and creates the schema when the file is new.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", dbPath, err)
	}
	s := &Store{db: db, path: dbPath, now: time.Now}
	if err := s.prepare(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) prepare(ctx context.Context) error {
	for _, pragma := range connPragmas {
		if _, err := s.db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("store %s: %s: %w", s.path, pragma, err)
		}
	}
	return s.initSchema(ctx)
}

// Close releases the database handle. A nil Store is a no-op.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path reports the database file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// stampLayouts covers rows written by this package and rows defaulted by
// SQLite's CURRENT_TIMESTAMP.
var stampLayouts = [...]string{time.RFC3339Nano, "2006-01-02 15:04:05"}

func parseStamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	var err error
	for _, layout := range stampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// placeholders returns "?,?,?" for n bound parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(2*n - 1)
	b.WriteByte('?')
	for i := 1; i < n; i++ {
		b.WriteString(",?")
	}
	return b.String()
}
