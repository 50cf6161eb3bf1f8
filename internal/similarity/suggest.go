package similarity

import (
	"math"
	"sort"
	"strings"
)

// AutoAcceptThreshold is the score at or above which a suggestion may be
// written to the alias table without manual review.
const AutoAcceptThreshold = 0.85

// DefaultThreshold is the minimum score reported by diagnostics.
const DefaultThreshold = 0.6

// Match is one scored candidate.
type Match struct {
	Candidate string
	Score     float64
}

// Score applies scorer to the case-folded names and adds the token-subset
// lift.
func Score(scorer Scorer, a, b string) float64 {
	if scorer == nil {
		scorer = Ratio
	}
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	score := clamp(scorer(a, b))
	if tokenSubset(a, b) {
		score = math.Max(score, (1+score)/2)
	}
	return score
}

// Suggest scores raw against every distinct candidate and returns those at
// or above threshold, best first. Equal scores order by candidate name.
func Suggest(raw string, candidates []string, threshold float64, scorer Scorer) []Match {
	seen := make(map[string]struct{}, len(candidates))
	matches := make([]Match, 0)
	for _, candidate := range candidates {
		if _, dup := seen[candidate]; dup || candidate == "" {
			continue
		}
		seen[candidate] = struct{}{}
		score := Score(scorer, raw, candidate)
		if score >= threshold {
			matches = append(matches, Match{Candidate: candidate, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Candidate < matches[j].Candidate
	})
	return matches
}

// Best returns the top match, if any.
func Best(raw string, candidates []string, threshold float64, scorer Scorer) (Match, bool) {
	matches := Suggest(raw, candidates, threshold, scorer)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

// tokenSubset reports whether every token of the shorter token list appears
// in the other. Identical token sets do not count; the base score already
// covers them.
func tokenSubset(a, b string) bool {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 || len(ta) == len(tb) {
		return false
	}
	if len(ta) > len(tb) {
		ta, tb = tb, ta
	}
	have := make(map[string]struct{}, len(tb))
	for _, token := range tb {
		have[token] = struct{}{}
	}
	for _, token := range ta {
		if _, ok := have[token]; !ok {
			return false
		}
	}
	return true
}

func clamp(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
