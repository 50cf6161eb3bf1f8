package alias

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/fileutil"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

const lockRetryDelay = 100 * time.Millisecond

// ErrLocked is returned when another writer holds the alias table lock until
// the context expires.
var ErrLocked = errors.New("alias table is locked by another writer")

// AppendResult summarizes an Append call.
type AppendResult struct {
	Added      []Entry
	Existing   []Entry
	Collisions []CollisionError
}

// Encode renders the table in its persisted form.
func (t *Table) Encode() *tabular.Table {
	header := append([]string{"standard_name"}, t.sources...)
	cells := make(map[string]map[string][]string, len(t.canonicals))
	for _, source := range t.sources {
		for _, entry := range t.entries[source] {
			bySource := cells[entry.Canonical]
			if bySource == nil {
				bySource = make(map[string][]string)
				cells[entry.Canonical] = bySource
			}
			bySource[source] = append(bySource[source], entry.Variant)
		}
	}
	out := &tabular.Table{Header: header}
	for _, canonical := range t.canonicals {
		row := make([]string, len(header))
		row[0] = canonical
		for i, source := range t.sources {
			row[i+1] = strings.Join(cells[canonical][source], VariantSeparator)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Save writes the table atomically. Callers that may race with other
// writers should use Append instead.
func Save(path string, t *Table) error {
	if err := tabular.WriteFile(path, t.Encode()); err != nil {
		return fmt.Errorf("save alias table: %w", err)
	}
	return nil
}

// Append adds entries to the alias table on disk under an exclusive lock.
// The file is re-read after locking so concurrent writers never lose rows.
// Variants that already exist are reported, never overwritten; nothing is
// ever removed. The previous file is kept as "<path>.bak".
func Append(ctx context.Context, path string, entries []Entry) (AppendResult, error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return AppendResult{}, fmt.Errorf("lock alias table: %w", err)
	}
	if !locked {
		return AppendResult{}, ErrLocked
	}
	defer func() {
		_ = lock.Unlock()
	}()

	table, err := Load(path)
	if err != nil {
		return AppendResult{}, err
	}

	var result AppendResult
	for _, entry := range entries {
		canonical := strings.TrimSpace(entry.Canonical)
		if stored, ok := table.Canonical(canonical); ok {
			canonical = stored
		}
		if existing, ok := table.Lookup(entry.Source, entry.Variant); ok {
			if existing == canonical {
				result.Existing = append(result.Existing, entry)
			} else {
				result.Collisions = append(result.Collisions, CollisionError{
					Source:   normalizeSource(entry.Source),
					Variant:  entry.Variant,
					Existing: existing,
					Proposed: canonical,
				})
			}
			continue
		}
		if err := table.Add(entry); err != nil {
			return result, err
		}
		result.Added = append(result.Added, entry)
	}
	if len(result.Added) == 0 {
		return result, nil
	}

	if _, err := os.Stat(path); err == nil {
		if err := fileutil.CopyFile(path, path+".bak"); err != nil {
			return result, fmt.Errorf("backup alias table: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return result, fmt.Errorf("stat alias table: %w", err)
	}
	if err := Save(path, table); err != nil {
		return result, err
	}
	return result, nil
}
