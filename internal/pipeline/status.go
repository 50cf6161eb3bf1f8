package pipeline

import (
	"context"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/store"
)

// StoreStatus summarizes what the snapshot store holds.
type StoreStatus struct {
	Snapshots   []store.SnapshotInfo
	LatestRuns  []store.Run
	Suggestions map[store.Status]int
}

// Status reports stored snapshots, the latest ingest run per source, and
// review queue counts.
func (r *Runner) Status(ctx context.Context) (*StoreStatus, error) {
	if r.store == nil {
		return nil, ErrNoStore
	}
	snaps, err := r.store.Snapshots(ctx)
	if err != nil {
		return nil, err
	}
	runs, err := r.store.LatestRuns(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := r.store.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	return &StoreStatus{Snapshots: snaps, LatestRuns: runs, Suggestions: counts}, nil
}
