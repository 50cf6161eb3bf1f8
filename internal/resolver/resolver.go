package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/alias"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/teamname"
)

// Method records which step produced a resolution.
type Method string

const (
	MethodAlias        Method = "alias"
	MethodCanonical    Method = "canonical"
	MethodAliasKey     Method = "alias_key"
	MethodCanonicalKey Method = "canonical_key"
	MethodUnresolved   Method = "unresolved"
)

// Resolution is the detailed outcome for one raw name.
type Resolution struct {
	Raw       string
	Source    string
	Cleaned   string
	Canonical string
	Method    Method
}

// Resolved reports whether the name matched a known team.
func (r Resolution) Resolved() bool {
	return r.Method != MethodUnresolved
}

// Resolver resolves names against one alias table.
type Resolver struct {
	table    *alias.Table
	ruleSets map[string]teamname.RuleSet
}

// New builds a resolver. ruleSets maps source tags to the rule set names
// configured for them; sources not listed use the generic rule set.
func New(table *alias.Table, ruleSets map[string]string) (*Resolver, error) {
	if table == nil {
		table = alias.New()
	}
	r := &Resolver{table: table, ruleSets: make(map[string]teamname.RuleSet, len(ruleSets))}
	for source, name := range ruleSets {
		set, err := teamname.LookupRuleSet(name)
		if err != nil {
			return nil, fmt.Errorf("source %s: %w", source, err)
		}
		r.ruleSets[normalizeSource(source)] = set
	}
	return r, nil
}

// Table returns the alias table the resolver reads.
func (r *Resolver) Table() *alias.Table {
	return r.table
}

// RuleSet returns the rule set used for source.
func (r *Resolver) RuleSet(source string) teamname.RuleSet {
	if set, ok := r.ruleSets[normalizeSource(source)]; ok {
		return set
	}
	return teamname.Generic()
}

// Clean normalizes raw with the source's rule set.
func (r *Resolver) Clean(raw, source string) string {
	return teamname.Clean(raw, r.RuleSet(source))
}

// Resolve returns the canonical team for raw, or its cleaned form when no
// alias matches.
func (r *Resolver) Resolve(raw, source string) string {
	return r.ResolveDetail(raw, source).Canonical
}

// ResolveDetail resolves raw and reports how the match was made.
func (r *Resolver) ResolveDetail(raw, source string) Resolution {
	cleaned := r.Clean(raw, source)
	res := Resolution{Raw: raw, Source: normalizeSource(source), Cleaned: cleaned}
	if cleaned == "" {
		res.Method = MethodUnresolved
		return res
	}
	folded := teamname.Fold(raw)

	for _, candidate := range []string{cleaned, folded} {
		if canonical, ok := r.table.Lookup(source, candidate); ok {
			return res.with(canonical, MethodAlias)
		}
	}
	for _, candidate := range []string{cleaned, folded} {
		if canonical, ok := r.table.Canonical(candidate); ok {
			return res.with(canonical, MethodCanonical)
		}
	}
	key := teamname.Key(cleaned)
	if canonical, ok := r.table.LookupKey(source, key); ok {
		return res.with(canonical, MethodAliasKey)
	}
	if canonical, ok := r.table.CanonicalKey(key); ok {
		return res.with(canonical, MethodCanonicalKey)
	}
	res.Canonical = cleaned
	res.Method = MethodUnresolved
	return res
}

func (r Resolution) with(canonical string, method Method) Resolution {
	r.Canonical = canonical
	r.Method = method
	return r
}

// Stats tallies resolutions for one source.
type Stats struct {
	Source     string
	Total      int
	ByMethod   map[Method]int
	Unresolved map[string]int // raw name -> occurrences
}

// NewStats returns an empty tally.
func NewStats(source string) *Stats {
	return &Stats{Source: source, ByMethod: make(map[Method]int), Unresolved: make(map[string]int)}
}

// Record adds a resolution to the tally.
func (s *Stats) Record(res Resolution) {
	s.Total++
	s.ByMethod[res.Method]++
	if !res.Resolved() && strings.TrimSpace(res.Raw) != "" {
		s.Unresolved[res.Raw]++
	}
}

// UnresolvedNames lists distinct unresolved raw names in sorted order.
func (s *Stats) UnresolvedNames() []string {
	names := make([]string, 0, len(s.Unresolved))
	for name := range s.Unresolved {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeSource(source string) string {
	return strings.ToLower(strings.TrimSpace(source))
}
