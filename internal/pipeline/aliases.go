package pipeline

import (
	"context"
	"fmt"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/alias"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/collision"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/logging"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/store"
)

// ApplyOutcome is the result of applying queued suggestions.
type ApplyOutcome struct {
	RunID  string
	Result alias.AppendResult
	// Applied lists the suggestion IDs marked applied.
	Applied []int64
}

// ApplyAliases appends every auto and accepted suggestion to the alias
// table. Suggestions whose variant is already mapped to the same team are
// marked applied; ones that would remap a variant are left queued.
func (r *Runner) ApplyAliases(ctx context.Context) (*ApplyOutcome, error) {
	if r.store == nil {
		return nil, ErrNoStore
	}
	ctx, rn := r.begin(ctx, ModeApply)
	defer r.finish(rn)

	pending, err := r.store.Applicable(ctx)
	if err != nil {
		return nil, err
	}
	outcome := &ApplyOutcome{RunID: rn.id}
	if len(pending) == 0 {
		rn.logger.Info("no suggestions to apply")
		return outcome, nil
	}

	entries := make([]alias.Entry, 0, len(pending))
	for _, sg := range pending {
		entries = append(entries, alias.Entry{Canonical: sg.Candidate, Source: sg.Source, Variant: sg.Cleaned})
	}
	result, err := alias.Append(ctx, r.cfg.Paths.AliasFile, entries)
	if err != nil {
		return nil, fmt.Errorf("append aliases: %w", err)
	}
	outcome.Result = result

	collided := make(map[string]struct{}, len(result.Collisions))
	for _, c := range result.Collisions {
		collided[entryKey(c.Source, c.Variant)] = struct{}{}
	}
	for _, sg := range pending {
		if _, ok := collided[entryKey(sg.Source, sg.Cleaned)]; ok {
			continue
		}
		outcome.Applied = append(outcome.Applied, sg.ID)
	}
	if err := r.store.MarkApplied(ctx, outcome.Applied); err != nil {
		return nil, err
	}

	for _, c := range result.Collisions {
		logging.WarnWithContext(rn.logger, "suggestion conflicts with existing alias", "alias_collision",
			logging.Source(c.Source),
			logging.String("variant", c.Variant),
			logging.String("existing", c.Existing),
			logging.String("proposed", c.Proposed),
			logging.Hint("reject the suggestion or edit the alias table by hand"),
			logging.Impact("the existing alias is kept"),
		)
	}
	rn.logger.Info("aliases applied",
		logging.Int("added", len(result.Added)),
		logging.Int("existing", len(result.Existing)),
		logging.Int("collisions", len(result.Collisions)),
		logging.String("alias_file", r.cfg.Paths.AliasFile),
	)
	return outcome, nil
}

// AliasCheck reports problems in the alias table.
type AliasCheck struct {
	Canonicals int
	// Conflicts are rows skipped at load because their variant was taken.
	Conflicts []alias.CollisionError
	// Collisions are variants of different teams sharing a normalized key.
	Collisions []collision.Collision
}

// OK reports whether the table has no conflicts or collisions.
func (c *AliasCheck) OK() bool {
	return len(c.Conflicts) == 0 && len(c.Collisions) == 0
}

// CheckAliases loads the alias table and reports conflicts and collisions.
func (r *Runner) CheckAliases(_ context.Context) (*AliasCheck, error) {
	table, err := alias.Load(r.cfg.Paths.AliasFile)
	if err != nil {
		return nil, err
	}
	return &AliasCheck{
		Canonicals: table.Len(),
		Conflicts:  table.Conflicts(),
		Collisions: collision.FromAliases(table),
	}, nil
}

// Review lists queued suggestions filtered by status and source.
func (r *Runner) Review(ctx context.Context, filter store.Filter) ([]store.Suggestion, error) {
	if r.store == nil {
		return nil, ErrNoStore
	}
	return r.store.ListSuggestions(ctx, filter)
}

// Decide records an operator decision for the given suggestions.
func (r *Runner) Decide(ctx context.Context, status store.Status, ids ...int64) ([]store.Suggestion, error) {
	if r.store == nil {
		return nil, ErrNoStore
	}
	out := make([]store.Suggestion, 0, len(ids))
	for _, id := range ids {
		sg, err := r.store.SetStatus(ctx, id, status)
		if err != nil {
			return out, err
		}
		r.logger.Info("suggestion decided",
			logging.Any("id", id),
			logging.Source(sg.Source),
			logging.String("raw_name", sg.Raw),
			logging.String("candidate", sg.Candidate),
			logging.String("status", string(sg.Status)),
		)
		out = append(out, *sg)
	}
	return out, nil
}

func entryKey(source, variant string) string {
	return source + "\x00" + variant
}
