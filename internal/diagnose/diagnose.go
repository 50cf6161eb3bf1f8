package diagnose

import (
	"sort"
	"strings"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/alias"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/collision"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/resolver"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/similarity"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/teamname"
)

// Status is a suggestion's review state.
type Status string

const (
	StatusAuto   Status = "auto"
	StatusReview Status = "review"
)

// Review reasons.
const (
	ReasonCollision = "collision"
	ReasonTied      = "tied"
	ReasonLowScore  = "below auto-accept threshold"
)

// Suggestion proposes a canonical team for an unresolved raw name.
type Suggestion struct {
	Source    string
	Raw       string
	Cleaned   string
	Candidate string
	Score     float64
	Status    Status
	Reason    string
}

// Entry returns the alias entry the suggestion would add. The cleaned form
// is stored so annotations that change between snapshots still match.
func (s Suggestion) Entry() alias.Entry {
	return alias.Entry{Canonical: s.Candidate, Source: s.Source, Variant: s.Cleaned}
}

// Input is the set of raw names seen in one source.
type Input struct {
	Source string
	Names  []string
}

// Options tunes a run.
type Options struct {
	Threshold  float64
	AutoAccept float64
	Scorer     similarity.Scorer
}

// Report is the outcome of a diagnose run.
type Report struct {
	Suggestions []Suggestion
	Collisions  []collision.Collision
	// Unmatched lists unresolved names with no candidate above threshold.
	Unmatched map[string][]string
	Stats     map[string]*resolver.Stats
}

// Auto returns the suggestions eligible for automatic alias creation.
func (r *Report) Auto() []Suggestion {
	var out []Suggestion
	for _, s := range r.Suggestions {
		if s.Status == StatusAuto {
			out = append(out, s)
		}
	}
	return out
}

// Run diagnoses every input against candidates.
func Run(r *resolver.Resolver, candidates []string, inputs []Input, opts Options) *Report {
	if opts.Threshold <= 0 {
		opts.Threshold = similarity.DefaultThreshold
	}
	if opts.AutoAccept <= 0 {
		opts.AutoAccept = similarity.AutoAcceptThreshold
	}
	report := &Report{
		Collisions: collision.FromAliases(r.Table()),
		Unmatched:  make(map[string][]string),
		Stats:      make(map[string]*resolver.Stats),
	}

	for _, input := range inputs {
		source := strings.ToLower(strings.TrimSpace(input.Source))
		found := collision.Detect(source, input.Names, r.RuleSet(source))
		report.Collisions = append(report.Collisions, found...)
		collided := collision.Keys(found)

		stats := resolver.NewStats(source)
		report.Stats[source] = stats
		for _, raw := range distinct(input.Names) {
			res := r.ResolveDetail(raw, source)
			stats.Record(res)
			if res.Resolved() {
				continue
			}
			matches := similarity.Suggest(res.Cleaned, candidates, opts.Threshold, opts.Scorer)
			if len(matches) == 0 {
				report.Unmatched[source] = append(report.Unmatched[source], raw)
				continue
			}
			best := matches[0]
			s := Suggestion{
				Source:    source,
				Raw:       raw,
				Cleaned:   res.Cleaned,
				Candidate: best.Candidate,
				Score:     best.Score,
				Status:    StatusAuto,
			}
			switch {
			case collided.Has(teamname.Key(res.Cleaned)):
				s.Status, s.Reason = StatusReview, ReasonCollision
			case len(matches) > 1 && matches[1].Score == best.Score:
				s.Status, s.Reason = StatusReview, ReasonTied
			case best.Score < opts.AutoAccept:
				s.Status, s.Reason = StatusReview, ReasonLowScore
			}
			report.Suggestions = append(report.Suggestions, s)
		}
	}

	sort.SliceStable(report.Suggestions, func(i, j int) bool {
		a, b := report.Suggestions[i], report.Suggestions[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		return a.Raw < b.Raw
	})
	return report
}

func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
