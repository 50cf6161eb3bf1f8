package teamname

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var punctuationFolder = strings.NewReplacer(
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
	"′", "'", "`", "'", "´", "'",
	"“", `"`, "”", `"`, "„", `"`, "″", `"`,
	"‐", "-", "‑", "-", "‒", "-", "–", "-",
	"—", "-", "−", "-",
	"​", "", "\uFEFF", "",
)

// Fold applies the shared cleanup steps without any source rules.
func Fold(raw string) string {
	folded := stripDiacritics(raw)
	folded = punctuationFolder.Replace(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// Clean normalizes a raw name with the given rule set. Rules run until no
// rule fires, which makes Clean idempotent.
func Clean(raw string, set RuleSet) string {
	name := Fold(raw)
	for changed := true; changed; {
		changed = false
		for _, rule := range set.Rules {
			if !rule.Applies(name) {
				continue
			}
			next := strings.Join(strings.Fields(rule.Transform(name)), " ")
			if len(next) >= len(name) {
				continue
			}
			name = next
			changed = true
		}
	}
	return name
}

// Key returns the punctuation- and case-insensitive comparison key for a
// name, so "St. John's" and "st johns" share the key "saintjohns".
func Key(name string) string {
	folded := strings.ToLower(Fold(name))
	folded = strings.ReplaceAll(folded, "'", "")
	tokens := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(tokens) > 1 {
		if tokens[0] == "st" {
			tokens[0] = "saint"
		}
		if last := len(tokens) - 1; tokens[last] == "st" {
			tokens[last] = "state"
		}
	}
	return strings.Join(tokens, "")
}

func stripDiacritics(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return out
}
