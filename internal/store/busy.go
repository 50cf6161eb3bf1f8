package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// busyPolicy bounds how long a writer waits on another process holding
// the SQLite lock, e.g. a review accept racing a scheduled ingest.
type busyPolicy struct {
	attempts int
	first    time.Duration
	ceiling  time.Duration
}

var defaultBusy = busyPolicy{attempts: 5, first: 10 * time.Millisecond, ceiling: 200 * time.Millisecond}

const sqliteBusy = 5

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) && coded.Code()&0xff == sqliteBusy {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func (p busyPolicy) do(ctx context.Context, op func() error) error {
	wait := p.first
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !isBusy(err) || attempt >= p.attempts {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait = min(wait*2, p.ceiling)
	}
}

func retryOnBusy(ctx context.Context, op func() error) error {
	return defaultBusy.do(ctx, op)
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var res sql.Result
	err := retryOnBusy(ctx, func() error {
		var execErr error
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// inTx runs fn in a transaction and retries the whole unit while the
// database is locked.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	})
}
