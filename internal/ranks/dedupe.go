package ranks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/resolver"
)

// Policy picks the surviving row when a source lists a team more than once.
type Policy string

const (
	// PolicyFirst keeps the first row in file order.
	PolicyFirst Policy = "first"
	// PolicyBest keeps the lowest rank value.
	PolicyBest Policy = "best"
)

// ParsePolicy validates a configured policy. Empty selects first.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicyFirst:
		return PolicyFirst, nil
	case PolicyBest:
		return PolicyBest, nil
	default:
		return "", fmt.Errorf("unknown dedupe policy %q (want first or best)", value)
	}
}

// Resolved is a source's ranks keyed by canonical team.
type Resolved struct {
	Source     string
	Ranks      map[string]int
	Duplicates int
	Stats      *resolver.Stats
}

// Resolve maps each row's team onto its canonical team and collapses
// duplicates with policy.
func Resolve(t *Table, r *resolver.Resolver, policy Policy) *Resolved {
	out := &Resolved{
		Source: t.Source,
		Ranks:  make(map[string]int, len(t.Rows)),
		Stats:  resolver.NewStats(t.Source),
	}
	for _, row := range t.Rows {
		res := r.ResolveDetail(row.Team, t.Source)
		out.Stats.Record(res)
		team := res.Canonical
		if team == "" {
			continue
		}
		existing, seen := out.Ranks[team]
		if !seen {
			out.Ranks[team] = row.Rank
			continue
		}
		out.Duplicates++
		if policy == PolicyBest && row.Rank < existing {
			out.Ranks[team] = row.Rank
		}
	}
	return out
}

// Teams lists the ranked canonical teams in sorted order.
func (r *Resolved) Teams() []string {
	teams := make([]string, 0, len(r.Ranks))
	for team := range r.Ranks {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}
