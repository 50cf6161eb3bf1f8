package teamname

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// minRemainder is the shortest name a stripping rule may leave behind.
const minRemainder = 3

// ErrUnknownRuleSet is returned when a source names a rule set that does not exist.
var ErrUnknownRuleSet = errors.New("unknown rule set")

// Rule is a named cleanup step. Transform is only called when Applies
// reports true and must return a strictly shorter string.
type Rule struct {
	Name      string
	Applies   func(string) bool
	Transform func(string) string
}

// RuleSet is the ordered list of rules selected for one source.
type RuleSet struct {
	Name  string
	Rules []Rule
}

// Rule set names accepted in configuration.
const (
	RuleSetGeneric    = "generic"
	RuleSetDuplicated = "duplicated"
	RuleSetConference = "conference"
	RuleSetRegion     = "region"
	RuleSetSeeded     = "seeded"
)

var (
	conferenceSuffixPattern = regexp.MustCompile(`^(?P<keep>.+) [A-Z][A-Z0-9]{1,6}$`)
	regionPrefixPattern     = regexp.MustCompile(`^[A-Z]{2,6} (?P<keep>.+)$`)
	parenSeedPattern        = regexp.MustCompile(`^(?P<keep>.+?) ?\(\d{1,3}\)$`)
	recordPattern           = regexp.MustCompile(`^(?P<keep>.+?) ?\(\d{1,3}-\d{1,3}\)$`)
	seedPrefixPattern       = regexp.MustCompile(`^#?\d{1,3}\.? (?P<keep>.+)$`)
	seedSuffixPattern       = regexp.MustCompile(`^(?P<keep>.+) #?\d{1,3}$`)
)

// CollapseDuplicate folds names a provider concatenated with themselves,
// such as "DukeDuke".
var CollapseDuplicate = Rule{
	Name: "collapse-duplicate",
	Applies: func(s string) bool {
		_, ok := duplicatedHalf(s)
		return ok
	},
	Transform: func(s string) string {
		half, _ := duplicatedHalf(s)
		return half
	},
}

// StripConferenceSuffix removes a trailing conference code like "ACC" or "B12".
var StripConferenceSuffix = patternRule("strip-conference-suffix", conferenceSuffixPattern)

// StripRegionPrefix removes a leading upper-case region or seed code.
var StripRegionPrefix = patternRule("strip-region-prefix", regionPrefixPattern)

// StripParenSeed removes a trailing "(12)" seed annotation.
var StripParenSeed = patternRule("strip-paren-seed", parenSeedPattern)

// StripRecord removes a trailing "(15-3)" win-loss record.
var StripRecord = patternRule("strip-record", recordPattern)

// StripSeedPrefix removes a leading "5 " or "#5 " ranking number.
var StripSeedPrefix = patternRule("strip-seed-prefix", seedPrefixPattern)

// StripSeedSuffix removes a trailing " 5" seed number.
var StripSeedSuffix = patternRule("strip-seed-suffix", seedSuffixPattern)

var ruleSets = map[string]RuleSet{
	RuleSetGeneric:    {Name: RuleSetGeneric},
	RuleSetDuplicated: {Name: RuleSetDuplicated, Rules: []Rule{CollapseDuplicate}},
	RuleSetConference: {Name: RuleSetConference, Rules: []Rule{StripConferenceSuffix}},
	RuleSetRegion:     {Name: RuleSetRegion, Rules: []Rule{StripRegionPrefix}},
	RuleSetSeeded: {Name: RuleSetSeeded, Rules: []Rule{
		StripParenSeed,
		StripRecord,
		StripSeedPrefix,
		StripSeedSuffix,
	}},
}

// Generic returns the rule set with no source-specific rules.
func Generic() RuleSet {
	return ruleSets[RuleSetGeneric]
}

// LookupRuleSet returns the named rule set. An empty name selects generic.
func LookupRuleSet(name string) (RuleSet, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Generic(), nil
	}
	set, ok := ruleSets[name]
	if !ok {
		return RuleSet{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownRuleSet, name, strings.Join(RuleSetNames(), ", "))
	}
	return set, nil
}

// RuleSetNames lists the registered rule sets in sorted order.
func RuleSetNames() []string {
	names := make([]string, 0, len(ruleSets))
	for name := range ruleSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func patternRule(name string, pattern *regexp.Regexp) Rule {
	keepIndex := pattern.SubexpIndex("keep")
	keep := func(s string) (string, bool) {
		match := pattern.FindStringSubmatch(s)
		if match == nil {
			return "", false
		}
		rest := strings.TrimSpace(match[keepIndex])
		if utf8.RuneCountInString(rest) < minRemainder {
			return "", false
		}
		return rest, true
	}
	return Rule{
		Name: name,
		Applies: func(s string) bool {
			_, ok := keep(s)
			return ok
		},
		Transform: func(s string) string {
			rest, _ := keep(s)
			return rest
		},
	}
}

// duplicatedHalf reports whether the space-stripped name is an even-length
// (>= 6 runes) repetition of itself and returns the original prefix that
// covers the first half.
func duplicatedHalf(s string) (string, bool) {
	compact := []rune(strings.ReplaceAll(s, " ", ""))
	n := len(compact)
	if n < 6 || n%2 != 0 {
		return "", false
	}
	half := n / 2
	if !strings.EqualFold(string(compact[:half]), string(compact[half:])) {
		return "", false
	}
	seen := 0
	for i, r := range s {
		if r == ' ' {
			continue
		}
		seen++
		if seen == half {
			return strings.TrimSpace(s[:i+utf8.RuneLen(r)]), true
		}
	}
	return "", false
}
