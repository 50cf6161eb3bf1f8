package collision

import (
	"sort"
	"strings"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/alias"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/teamname"
)

// Collision pairs two raw spellings that share a normalized key.
type Collision struct {
	Source string
	Key    string
	RawA   string
	RawB   string
}

// Set is a lookup of collided keys.
type Set map[string]struct{}

// Has reports whether key collided.
func (s Set) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Detect groups rawNames by teamname.Key(teamname.Clean(raw, set)). Every
// group holding more than one distinct spelling yields one Collision per
// unordered pair, ordered by key then spelling.
func Detect(source string, rawNames []string, set teamname.RuleSet) []Collision {
	groups := make(map[string]map[string]struct{})
	for _, raw := range rawNames {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		key := teamname.Key(teamname.Clean(raw, set))
		if key == "" {
			continue
		}
		spellings := groups[key]
		if spellings == nil {
			spellings = make(map[string]struct{})
			groups[key] = spellings
		}
		spellings[raw] = struct{}{}
	}

	keys := make([]string, 0, len(groups))
	for key, spellings := range groups {
		if len(spellings) > 1 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var out []Collision
	for _, key := range keys {
		names := make([]string, 0, len(groups[key]))
		for name := range groups[key] {
			names = append(names, name)
		}
		sort.Strings(names)
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				out = append(out, Collision{Source: source, Key: key, RawA: names[i], RawB: names[j]})
			}
		}
	}
	return out
}

// FromAliases reports alias-table rows that were skipped because their
// variant already maps to another team in the same source.
func FromAliases(table *alias.Table) []Collision {
	var out []Collision
	for _, conflict := range table.Conflicts() {
		out = append(out, Collision{
			Source: conflict.Source,
			Key:    teamname.Key(conflict.Variant),
			RawA:   conflict.Existing,
			RawB:   conflict.Proposed,
		})
	}
	return out
}

// Keys indexes the keys present in collisions.
func Keys(collisions []Collision) Set {
	set := make(Set, len(collisions))
	for _, c := range collisions {
		set[c.Key] = struct{}{}
	}
	return set
}
