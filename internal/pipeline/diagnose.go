package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/diagnose"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/logging"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/resolver"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/similarity"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/store"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

// DiagnoseOutcome is the result of a diagnose invocation.
type DiagnoseOutcome struct {
	RunID           string
	Report          *diagnose.Report
	SuggestionsFile string
	CollisionsFile  string
	// Queued is set when suggestions were written to the review queue.
	Queued *store.UpsertResult
}

// Diagnose scans the game feed and every rank source for unresolved names,
// proposes aliases, detects collisions, and writes both artifacts. With a
// store attached the suggestions are also upserted into the review queue.
func (r *Runner) Diagnose(ctx context.Context) (*DiagnoseOutcome, error) {
	ctx, rn := r.begin(ctx, ModeDiagnose)
	defer r.finish(rn)

	res, err := r.loadResolver(rn)
	if err != nil {
		return nil, err
	}
	scorer, err := similarity.LookupScorer(r.cfg.Diagnose.Scorer)
	if err != nil {
		return nil, err
	}
	games, err := r.loadGames()
	if err != nil {
		return nil, err
	}
	names, err := gameNames(games, r.gameSpec())
	if err != nil {
		return nil, err
	}

	inputs := []diagnose.Input{{Source: r.cfg.Games.Source, Names: names}}
	for _, ls := range r.loadSources(ctx, rn) {
		if ls.err != nil {
			continue
		}
		inputs = append(inputs, diagnose.Input{Source: ls.cfg.Tag, Names: teamNames(ls.table)})
	}

	candidates := Candidates(res, r.cfg.Games.Source, names)
	report := diagnose.Run(res, candidates, inputs, diagnose.Options{
		Threshold:  r.cfg.Diagnose.Threshold,
		AutoAccept: r.cfg.Diagnose.AutoAccept,
		Scorer:     scorer,
	})

	if err := tabular.WriteFile(r.cfg.Diagnose.SuggestionsFile, report.SuggestionsTable()); err != nil {
		return nil, fmt.Errorf("write suggestions: %w", err)
	}
	if err := tabular.WriteFile(r.cfg.Diagnose.CollisionsFile, report.CollisionsTable()); err != nil {
		return nil, fmt.Errorf("write collisions: %w", err)
	}

	outcome := &DiagnoseOutcome{
		RunID:           rn.id,
		Report:          report,
		SuggestionsFile: r.cfg.Diagnose.SuggestionsFile,
		CollisionsFile:  r.cfg.Diagnose.CollisionsFile,
	}
	if r.store != nil {
		queued, err := r.store.UpsertSuggestions(ctx, toStoreSuggestions(report.Suggestions))
		if err != nil {
			return nil, fmt.Errorf("queue suggestions: %w", err)
		}
		outcome.Queued = &queued
	}

	r.recordDiagnose(rn, report)
	return outcome, nil
}

// Candidates returns the names suggestions are scored against: the
// canonical teams of the alias table, or the cleaned game-feed names when
// the table is empty.
func Candidates(res *resolver.Resolver, gameSource string, gameNames []string) []string {
	if canonicals := res.Table().Canonicals(); len(canonicals) > 0 {
		return canonicals
	}
	seen := make(map[string]struct{}, len(gameNames))
	out := make([]string, 0, len(gameNames))
	for _, name := range gameNames {
		cleaned := res.Clean(name, gameSource)
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		out = append(out, cleaned)
	}
	sort.Strings(out)
	return out
}

func toStoreSuggestions(in []diagnose.Suggestion) []store.Suggestion {
	out := make([]store.Suggestion, 0, len(in))
	for _, s := range in {
		out = append(out, store.Suggestion{
			Source:    s.Source,
			Raw:       s.Raw,
			Cleaned:   s.Cleaned,
			Candidate: s.Candidate,
			Score:     s.Score,
			Status:    store.Status(s.Status),
			Reason:    s.Reason,
		})
	}
	return out
}

func (r *Runner) recordDiagnose(rn *run, report *diagnose.Report) {
	byStatus := make(map[diagnose.Status]int)
	for _, s := range report.Suggestions {
		byStatus[s.Status]++
	}
	for status, n := range byStatus {
		r.metrics.Suggestions(string(status), n)
	}
	collisions := make(map[string]int)
	for _, c := range report.Collisions {
		collisions[c.Source]++
	}
	for source, n := range collisions {
		r.metrics.Collisions(source, n)
	}
	unmatched := 0
	for source, stats := range report.Stats {
		r.metrics.Unresolved(source, len(stats.Unresolved))
		unmatched += len(report.Unmatched[source])
	}
	if len(report.Collisions) > 0 {
		logging.WarnWithContext(rn.logger, "normalized name collisions found", "name_collision",
			logging.Int("count", len(report.Collisions)),
			logging.String("file", r.cfg.Diagnose.CollisionsFile),
			logging.Hint("add explicit aliases for the colliding names"),
			logging.Impact("suggestions for colliding names need review"),
		)
	}
	rn.logger.Info("diagnose complete",
		logging.Int("suggestions", len(report.Suggestions)),
		logging.Int("auto", byStatus[diagnose.StatusAuto]),
		logging.Int("review", byStatus[diagnose.StatusReview]),
		logging.Int("unmatched", unmatched),
		logging.Int("collisions", len(report.Collisions)),
	)
}
