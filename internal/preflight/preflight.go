package preflight

import (
	"context"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	// Optional marks checks whose failure degrades a run instead of
	// stopping it.
	Optional bool
	Detail   string
}

// Failed reports whether any required check did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results,
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckAliasTable(cfg.Paths.AliasFile),
		CheckGames(cfg.Games),
	)
	for _, src := range cfg.Sources {
		if ctx.Err() != nil {
			break
		}
		results = append(results, CheckRankSource(src))
	}
	return results
}
