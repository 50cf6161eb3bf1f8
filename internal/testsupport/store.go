package testsupport

import (
	"context"
	"testing"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/ranks"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustIngest stores table as the snapshot for its source.
func MustIngest(t testing.TB, st *store.Store, table *ranks.Table) *store.Run {
	t.Helper()

	ctx := context.Background()
	run, err := st.BeginRun(ctx, table.Source, "", "")
	if err != nil {
		t.Fatalf("store.BeginRun: %v", err)
	}
	if err := st.ReplaceSnapshot(ctx, run, table); err != nil {
		t.Fatalf("store.ReplaceSnapshot: %v", err)
	}
	return run
}
