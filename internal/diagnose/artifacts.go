package diagnose

import (
	"strconv"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

// SuggestionsTable renders suggestions for review.
func (r *Report) SuggestionsTable() *tabular.Table {
	out := &tabular.Table{
		Name:   "suggestions",
		Header: []string{"source", "raw_name", "suggested_canonical", "score", "status", "reason"},
	}
	for _, s := range r.Suggestions {
		out.Rows = append(out.Rows, []string{
			s.Source, s.Raw, s.Candidate, strconv.FormatFloat(s.Score, 'f', 3, 64), string(s.Status), s.Reason,
		})
	}
	return out
}

// CollisionsTable renders detected collisions.
func (r *Report) CollisionsTable() *tabular.Table {
	out := &tabular.Table{
		Name:   "collisions",
		Header: []string{"source", "normalized_key", "raw_name_a", "raw_name_b"},
	}
	for _, c := range r.Collisions {
		out.Rows = append(out.Rows, []string{c.Source, c.Key, c.RawA, c.RawB})
	}
	return out
}
