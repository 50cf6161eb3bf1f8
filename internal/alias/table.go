package alias

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/teamname"
)

// ErrCollision marks a variant that already maps to a different canonical
// team within the same source.
var ErrCollision = errors.New("alias collision")

// Entry maps one source-specific spelling to a canonical team.
type Entry struct {
	Canonical string
	Source    string
	Variant   string
}

// CollisionError describes a refused or skipped alias entry.
type CollisionError struct {
	Source   string
	Variant  string
	Existing string
	Proposed string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s variant %q already maps to %q, refusing %q", e.Source, e.Variant, e.Existing, e.Proposed)
}

func (e *CollisionError) Unwrap() error { return ErrCollision }

// Table is the in-memory alias table.
type Table struct {
	canonicals []string
	canonical  map[string]string // lower(name) -> canonical
	canonKeys  map[string]map[string]struct{}

	sources  []string
	entries  map[string][]Entry            // source -> entries in insertion order
	variants map[string]map[string]string  // source -> lower(variant) -> canonical
	keys     map[string]map[string]map[string]struct{}

	conflicts []CollisionError
}

// New returns an empty table.
func New() *Table {
	return &Table{
		canonical: make(map[string]string),
		canonKeys: make(map[string]map[string]struct{}),
		entries:   make(map[string][]Entry),
		variants:  make(map[string]map[string]string),
		keys:      make(map[string]map[string]map[string]struct{}),
	}
}

// AddCanonical registers a canonical team and returns its stored spelling.
// Names are unique case-insensitively; the first spelling wins.
func (t *Table) AddCanonical(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	lower := strings.ToLower(name)
	if existing, ok := t.canonical[lower]; ok {
		return existing
	}
	t.canonical[lower] = name
	t.canonicals = append(t.canonicals, name)
	addKey(t.canonKeys, teamname.Key(name), name)
	return name
}

// Add records an entry. Re-adding an identical mapping is a no-op; a
// variant already mapped to another team returns a *CollisionError.
func (t *Table) Add(entry Entry) error {
	source := normalizeSource(entry.Source)
	variant := strings.TrimSpace(entry.Variant)
	if source == "" {
		return errors.New("alias entry source is required")
	}
	canonical := t.AddCanonical(entry.Canonical)
	if canonical == "" {
		return errors.New("alias entry standard_name is required")
	}
	if variant == "" {
		return nil
	}
	t.ensureSource(source)
	lower := strings.ToLower(variant)
	if existing, ok := t.variants[source][lower]; ok {
		if existing == canonical {
			return nil
		}
		return &CollisionError{Source: source, Variant: variant, Existing: existing, Proposed: canonical}
	}
	t.variants[source][lower] = canonical
	t.entries[source] = append(t.entries[source], Entry{Canonical: canonical, Source: source, Variant: variant})
	sourceKeys := t.keys[source]
	if sourceKeys == nil {
		sourceKeys = make(map[string]map[string]struct{})
		t.keys[source] = sourceKeys
	}
	addKey(sourceKeys, teamname.Key(variant), canonical)
	return nil
}

// Lookup returns the canonical team for a variant, matched case-insensitively.
func (t *Table) Lookup(source, variant string) (string, bool) {
	byVariant := t.variants[normalizeSource(source)]
	canonical, ok := byVariant[strings.ToLower(strings.TrimSpace(variant))]
	return canonical, ok
}

// LookupKey returns the canonical team whose source variants share the
// comparison key, provided exactly one team does.
func (t *Table) LookupKey(source, key string) (string, bool) {
	return unique(t.keys[normalizeSource(source)][key])
}

// Canonical returns the stored spelling of a canonical name, matched
// case-insensitively.
func (t *Table) Canonical(name string) (string, bool) {
	canonical, ok := t.canonical[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// CanonicalKey returns the canonical team with the given comparison key,
// provided exactly one team has it.
func (t *Table) CanonicalKey(key string) (string, bool) {
	return unique(t.canonKeys[key])
}

// Canonicals lists canonical names in insertion order.
func (t *Table) Canonicals() []string {
	return append([]string(nil), t.canonicals...)
}

// Sources lists source tags in column order.
func (t *Table) Sources() []string {
	return append([]string(nil), t.sources...)
}

// Entries lists one source's entries in insertion order.
func (t *Table) Entries(source string) []Entry {
	return append([]Entry(nil), t.entries[normalizeSource(source)]...)
}

// Conflicts returns rows that were skipped at load time because their
// variant was already claimed by another team.
func (t *Table) Conflicts() []CollisionError {
	return append([]CollisionError(nil), t.conflicts...)
}

// Len returns the number of canonical teams.
func (t *Table) Len() int {
	return len(t.canonicals)
}

func (t *Table) ensureSource(source string) {
	if _, ok := t.variants[source]; ok {
		return
	}
	t.variants[source] = make(map[string]string)
	t.sources = append(t.sources, source)
}

func normalizeSource(source string) string {
	return strings.ToLower(strings.TrimSpace(source))
}

func addKey(index map[string]map[string]struct{}, key, canonical string) {
	if key == "" {
		return
	}
	set := index[key]
	if set == nil {
		set = make(map[string]struct{})
		index[key] = set
	}
	set[canonical] = struct{}{}
}

func unique(set map[string]struct{}) (string, bool) {
	if len(set) != 1 {
		return "", false
	}
	for canonical := range set {
		return canonical, true
	}
	return "", false
}

// AddSource registers a source column even when it has no variants yet.
func (t *Table) AddSource(source string) {
	if source = normalizeSource(source); source != "" {
		t.ensureSource(source)
	}
}
