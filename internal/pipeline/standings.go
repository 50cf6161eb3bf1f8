package pipeline

import (
	"context"
	"fmt"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/logging"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/ranks"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/standings"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

// StandingsOutcome is the result of a standings invocation.
type StandingsOutcome struct {
	RunID      string
	OutputFile string
	Standings  *standings.Standings
	Table      *tabular.Table
	// Failed lists sources left out because their table could not be loaded.
	Failed []string
}

// Standings builds the team-indexed composite table and writes it to
// standings.output_file.
func (r *Runner) Standings(ctx context.Context) (*StandingsOutcome, error) {
	ctx, rn := r.begin(ctx, ModeStandings)
	defer r.finish(rn)

	res, err := r.loadResolver(rn)
	if err != nil {
		return nil, err
	}

	var (
		sources []standings.Source
		failed  []string
	)
	for _, ls := range r.loadSources(ctx, rn) {
		src := standings.Source{Tag: ls.cfg.Tag, Label: ls.cfg.Label, Composite: ls.cfg.Composite}
		if ls.err != nil {
			failed = append(failed, ls.cfg.Tag)
		} else {
			policy, err := ranks.ParsePolicy(ls.cfg.Dedupe)
			if err != nil {
				return nil, fmt.Errorf("source %s: %w", ls.cfg.Tag, err)
			}
			src.Ranks = ranks.Resolve(ls.table, res, policy)
		}
		sources = append(sources, src)
	}

	built := standings.Build(sources)
	table := built.Table(r.cfg.Merge.Unrated)
	if err := tabular.WriteFile(r.cfg.Standings.OutputFile, table); err != nil {
		return nil, fmt.Errorf("write standings: %w", err)
	}
	rn.logger.Info("standings complete",
		logging.Int("teams", len(built.Rows)),
		logging.Int("failed_sources", len(failed)),
		logging.String("output", r.cfg.Standings.OutputFile),
	)
	return &StandingsOutcome{
		RunID:      rn.id,
		OutputFile: r.cfg.Standings.OutputFile,
		Standings:  built,
		Table:      table,
		Failed:     failed,
	}, nil
}
