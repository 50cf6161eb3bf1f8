package pipeline

import (
	"context"
	"fmt"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/logging"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/merge"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/ranks"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/resolver"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

// MergeOutcome is the result of a merge invocation.
type MergeOutcome struct {
	RunID      string
	OutputFile string
	Table      *tabular.Table
	Report     merge.Report
	// Origins maps source tags to where their table was read from.
	Origins map[string]string
}

// Merge joins every configured source onto the game feed and writes the
// merged table to merge.output_file.
func (r *Runner) Merge(ctx context.Context) (*MergeOutcome, error) {
	ctx, rn := r.begin(ctx, ModeMerge)
	defer r.finish(rn)

	res, err := r.loadResolver(rn)
	if err != nil {
		return nil, err
	}
	games, err := r.loadGames()
	if err != nil {
		return nil, err
	}

	loaded := r.loadSources(ctx, rn)
	sources := make([]merge.Source, 0, len(loaded))
	origins := make(map[string]string, len(loaded))
	for _, ls := range loaded {
		policy, err := ranks.ParsePolicy(ls.cfg.Dedupe)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", ls.cfg.Tag, err)
		}
		sources = append(sources, merge.Source{
			Tag:    ls.cfg.Tag,
			Label:  ls.cfg.Label,
			Policy: policy,
			Table:  ls.table,
			Err:    ls.err,
		})
		if ls.err == nil {
			origins[ls.cfg.Tag] = ls.origin
		}
	}

	engine := merge.New(res, merge.Options{Games: r.gameSpec(), Unrated: r.cfg.Merge.Unrated})
	result, err := engine.Merge(games, sources)
	if err != nil {
		return nil, err
	}
	if err := tabular.WriteFile(r.cfg.Merge.OutputFile, result.Table); err != nil {
		return nil, fmt.Errorf("write merged games: %w", err)
	}

	r.recordMerge(rn, result.Report)
	rn.logger.Info("merge complete",
		logging.Int("games", result.Report.Games),
		logging.Int("sources", len(result.Report.Sources)),
		logging.Int("failed_sources", len(result.Report.Failed())),
		logging.String("output", r.cfg.Merge.OutputFile),
	)
	return &MergeOutcome{
		RunID:      rn.id,
		OutputFile: r.cfg.Merge.OutputFile,
		Table:      result.Table,
		Report:     result.Report,
		Origins:    origins,
	}, nil
}

func (r *Runner) recordMerge(rn *run, report merge.Report) {
	gameUnresolved := unresolvedUnion(report.TeamStats, report.OpponentStats)
	r.metrics.Unresolved(r.cfg.Games.Source, len(gameUnresolved))
	if len(gameUnresolved) > 0 {
		rn.logger.Info("game names unresolved",
			logging.Source(r.cfg.Games.Source),
			logging.Int("count", len(gameUnresolved)),
		)
	}
	for _, sr := range report.Sources {
		if sr.Err != nil {
			continue
		}
		r.metrics.SourceRows(sr.Tag, sr.Rows, sr.Dropped)
		r.metrics.Unresolved(sr.Tag, len(sr.Unresolved))
		r.metrics.Duplicates(sr.Tag, sr.Duplicates)
		rn.logger.Info("source merged",
			logging.Source(sr.Tag),
			logging.Int("rows", sr.Rows),
			logging.Int("duplicates", sr.Duplicates),
			logging.Int("unresolved", len(sr.Unresolved)),
			logging.Int("team_matches", sr.TeamMatches),
			logging.Int("opponent_matches", sr.OpponentMatches),
		)
	}
}

func unresolvedUnion(stats ...*resolver.Stats) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range stats {
		if s == nil {
			continue
		}
		for _, name := range s.UnresolvedNames() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
