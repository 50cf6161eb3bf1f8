package similarity

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
	lev "github.com/texttheater/golang-levenshtein/levenshtein"
)

// Scorer returns a similarity in [0, 1] for two case-folded names.
type Scorer func(a, b string) float64

// Scorer names accepted in configuration.
const (
	ScorerRatio       = "ratio"
	ScorerLevenshtein = "levenshtein"
	ScorerCosine      = "cosine"
)

// ErrUnknownScorer is returned for an unrecognized scorer name.
var ErrUnknownScorer = errors.New("unknown scorer")

// LookupScorer returns the named scorer. An empty name selects ratio.
func LookupScorer(name string) (Scorer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ScorerRatio:
		return Ratio, nil
	case ScorerLevenshtein:
		return Levenshtein, nil
	case ScorerCosine:
		return Cosine, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownScorer, name)
	}
}

// Ratio is the matching-subsequence ratio 2*M/T over runes.
func Ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio()
}

// Levenshtein scores 1 - d/(|a|+|b|), where d charges 1 per insertion or
// deletion and 2 per substitution.
func Levenshtein(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	d := lev.DistanceForStrings([]rune(a), []rune(b), lev.DefaultOptions)
	return 1 - float64(d)/float64(total)
}

// Cosine compares term-frequency fingerprints.
func Cosine(a, b string) float64 {
	if a == b {
		return 1
	}
	return CosineSimilarity(NewFingerprint(a), NewFingerprint(b))
}
