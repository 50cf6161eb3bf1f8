package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RunStatus tracks an ingest run through its lifecycle.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run records one attempt to ingest a source's raw CSV.
type Run struct {
	ID         string
	Source     string
	File       string
	Checksum   string
	Snapshot   string
	Rows       int
	Dropped    int
	Stale      int
	Status     RunStatus
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration reports how long the run took, or zero while it is running.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

const runColumns = "id, source, file, checksum, snapshot_date, rows, dropped, stale, status, error_message, started_at, finished_at"

// BeginRun inserts a running ingest run for source.
func (s *Store) BeginRun(ctx context.Context, source, file, checksum string) (*Run, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("begin run: source is required")
	}
	run := &Run{
		ID:       uuid.NewString(),
		Source:   source,
		File:     file,
		Checksum: checksum,
		Status:   RunRunning,
	}
	started := s.timestamp()
	run.StartedAt, _ = parseStamp(started)
	if _, err := s.execWithRetry(ctx,
		`INSERT INTO ingest_runs (id, source, file, checksum, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, nullIfEmpty(file), nullIfEmpty(checksum), run.Status, started,
	); err != nil {
		return nil, fmt.Errorf("insert ingest run: %w", err)
	}
	return run, nil
}

// FailRun marks run as failed with cause.
func (s *Store) FailRun(ctx context.Context, run *Run, cause error) error {
	if run == nil {
		return errors.New("fail run: run is nil")
	}
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	finished := s.timestamp()
	res, err := s.execWithRetry(ctx,
		`UPDATE ingest_runs SET status = ?, error_message = ?, finished_at = ? WHERE id = ?`,
		RunFailed, msg, finished, run.ID,
	)
	if err != nil {
		return fmt.Errorf("fail ingest run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("fail ingest run %s: %w", run.ID, ErrNotFound)
	}
	run.Status = RunFailed
	run.Error = msg
	run.FinishedAt, _ = parseStamp(finished)
	return nil
}

// GetRun fetches an ingest run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+runColumns+` FROM ingest_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ingest run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get ingest run: %w", err)
	}
	return run, nil
}

// LatestRuns returns the most recent run of every source, ordered by source.
func (s *Store) LatestRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+runColumns+` FROM ingest_runs r
         WHERE started_at = (SELECT MAX(started_at) FROM ingest_runs WHERE source = r.source)
         ORDER BY source`,
	)
	if err != nil {
		return nil, fmt.Errorf("list ingest runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingest run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		file        sql.NullString
		checksum    sql.NullString
		snapshot    sql.NullString
		status      string
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Source,
		&file,
		&checksum,
		&snapshot,
		&run.Rows,
		&run.Dropped,
		&run.Stale,
		&status,
		&errorMsg,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	run.File = file.String
	run.Checksum = checksum.String
	run.Snapshot = snapshot.String
	run.Status = RunStatus(status)
	run.Error = errorMsg.String
	if started, err := parseStamp(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finished, err := parseStamp(finishedRaw.String); err == nil {
		run.FinishedAt = finished
	}
	return &run, nil
}
