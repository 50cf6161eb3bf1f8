package similarity

import (
	"math"
	"strings"
)

// minTermLen drops initials and short connectives ("st", "of") from the
// cosine vector; they match too many schools to carry signal.
const minTermLen = 3

// Fingerprint is a term-frequency vector over a name's tokens.
type Fingerprint struct {
	tf   map[string]float64
	norm float64
}

// NewFingerprint returns nil when text has no token of minTermLen or more.
func NewFingerprint(text string) *Fingerprint {
	tf := map[string]float64{}
	for _, tok := range Tokenize(text) {
		if len(tok) >= minTermLen {
			tf[tok]++
		}
	}
	if len(tf) == 0 {
		return nil
	}
	var sq float64
	for _, n := range tf {
		sq += n * n
	}
	return &Fingerprint{tf: tf, norm: math.Sqrt(sq)}
}

func isTokenByte(r rune) bool {
	return ('a' <= r && r <= 'z') || ('0' <= r && r <= '9')
}

// Tokenize lowercases text and splits it on anything outside [a-z0-9].
// Apostrophes are removed first so "John's" stays one token.
func Tokenize(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), "'", "")
	return strings.FieldsFunc(text, func(r rune) bool { return !isTokenByte(r) })
}

// CosineSimilarity is 0 when either side is nil.
func CosineSimilarity(a, b *Fingerprint) float64 {
	if a == nil || b == nil {
		return 0
	}
	small, large := a, b
	if len(small.tf) > len(large.tf) {
		small, large = large, small
	}
	var dot float64
	for tok, n := range small.tf {
		dot += n * large.tf[tok]
	}
	if dot == 0 {
		return 0
	}
	return min(1, dot/(a.norm*b.norm))
}
