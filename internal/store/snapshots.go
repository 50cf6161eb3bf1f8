package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/ranks"
)

// SnapshotInfo summarizes the stored snapshot of one source.
type SnapshotInfo struct {
	Source   string
	Snapshot string
	Rows     int
	IngestID string
}

// ReplaceSnapshot swaps the stored rows of table.Source for table.Rows and
// completes run. Either all rows land or none do.
func (s *Store) ReplaceSnapshot(ctx context.Context, run *Run, table *ranks.Table) error {
	if run == nil || table == nil {
		return errors.New("replace snapshot: run and table are required")
	}
	if run.Source != table.Source {
		return fmt.Errorf("replace snapshot: run source %q does not match table source %q", run.Source, table.Source)
	}
	finished := s.timestamp()
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM rank_snapshots WHERE source = ?`, table.Source); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO rank_snapshots (source, position, team, rank, snapshot_date, ingest_id) VALUES (?, ?, ?, ?, ?, ?)`,
		)
		if err != nil {
			return fmt.Errorf("prepare snapshot insert: %w", err)
		}
		defer stmt.Close()
		for i, row := range table.Rows {
			if _, err := stmt.ExecContext(ctx, table.Source, i, row.Team, row.Rank, nullIfEmpty(table.Snapshot), run.ID); err != nil {
				return fmt.Errorf("insert snapshot row %d: %w", i, err)
			}
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE ingest_runs SET status = ?, snapshot_date = ?, rows = ?, dropped = ?, stale = ?, finished_at = ? WHERE id = ?`,
			RunSucceeded, nullIfEmpty(table.Snapshot), len(table.Rows), table.Dropped, table.Stale, finished, run.ID,
		)
		if err != nil {
			return fmt.Errorf("complete ingest run: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("complete ingest run %s: %w", run.ID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	run.Status = RunSucceeded
	run.Snapshot = table.Snapshot
	run.Rows = len(table.Rows)
	run.Dropped = table.Dropped
	run.Stale = table.Stale
	run.FinishedAt, _ = parseStamp(finished)
	return nil
}

// LoadSnapshot returns the stored rows of source in ingest order. It
// returns ErrNotFound when the source was never ingested.
func (s *Store) LoadSnapshot(ctx context.Context, source string) (*ranks.Table, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT team, rank, snapshot_date FROM rank_snapshots WHERE source = ? ORDER BY position`,
		source,
	)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	defer rows.Close()

	out := &ranks.Table{Source: source}
	for rows.Next() {
		var (
			row      ranks.Row
			snapshot sql.NullString
		)
		if err := rows.Scan(&row.Team, &row.Rank, &snapshot); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		out.Snapshot = snapshot.String
		out.Rows = append(out.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if len(out.Rows) > 0 {
		return out, nil
	}

	// An ingest that kept zero rows still counts as a stored snapshot.
	var succeeded int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM ingest_runs WHERE source = ? AND status = ?`, source, RunSucceeded,
	).Scan(&succeeded); err != nil {
		return nil, fmt.Errorf("check ingest runs: %w", err)
	}
	if succeeded == 0 {
		return nil, fmt.Errorf("snapshot %s: %w", source, ErrNotFound)
	}
	return out, nil
}

// Snapshots summarizes every stored snapshot, ordered by source.
func (s *Store) Snapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT source, COALESCE(MAX(snapshot_date), ''), COUNT(1), MAX(ingest_id)
         FROM rank_snapshots GROUP BY source ORDER BY source`,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.Source, &info.Snapshot, &info.Rows, &info.IngestID); err != nil {
			return nil, fmt.Errorf("scan snapshot info: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
