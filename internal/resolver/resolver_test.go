package resolver

import (
	"testing"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/alias"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/teamname"
)

func newTable(t *testing.T, entries ...alias.Entry) *alias.Table {
	t.Helper()
	table := alias.New()
	for _, entry := range entries {
		if err := table.Add(entry); err != nil {
			t.Fatalf("Add(%+v): %v", entry, err)
		}
	}
	return table
}

func TestResolvePrecedence(t *testing.T) {
	table := newTable(t,
		alias.Entry{Canonical: "North Carolina", Source: "espn", Variant: "UNC"},
		alias.Entry{Canonical: "Duke", Source: "bpi", Variant: "Duke"},
		alias.Entry{Canonical: "St. John's", Source: "net", Variant: "St. John's (NY)"},
		alias.Entry{Canonical: "Michigan State", Source: "kenpom", Variant: "Michigan St."},
	)
	r, err := New(table, map[string]string{"bpi": teamname.RuleSetDuplicated, "ap": teamname.RuleSetSeeded})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		raw    string
		source string
		want   string
		method Method
	}{
		{"alias exact", "UNC", "espn", "North Carolina", MethodAlias},
		{"alias case-insensitive", "unc", "ESPN", "North Carolina", MethodAlias},
		{"alias scoped to source", "UNC", "net", "UNC", MethodUnresolved},
		{"cleaned before lookup", "DukeDuke", "bpi", "Duke", MethodAlias},
		{"canonical self match", "north carolina", "net", "North Carolina", MethodCanonical},
		{"seed stripped then canonical", "#3 Duke (20-4)", "ap", "Duke", MethodCanonical},
		{"alias key", "St Johns (NY)", "net", "St. John's", MethodAliasKey},
		{"canonical key", "Michigan St", "espn", "Michigan State", MethodCanonicalKey},
		{"unknown falls back", "Unknown Team", "net", "Unknown Team", MethodUnresolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.ResolveDetail(tt.raw, tt.source)
			if res.Canonical != tt.want || res.Method != tt.method {
				t.Fatalf("ResolveDetail(%q, %q) = %q via %s, want %q via %s",
					tt.raw, tt.source, res.Canonical, res.Method, tt.want, tt.method)
			}
		})
	}
}

func TestResolveFallbackMatchesClean(t *testing.T) {
	r, err := New(alias.New(), map[string]string{"bpi": teamname.RuleSetDuplicated})
	if err != nil {
		t.Fatal(err)
	}
	for _, source := range []string{"bpi", "net"} {
		raw := "Unknown Team"
		if got, want := r.Resolve(raw, source), r.Clean(raw, source); got != want {
			t.Fatalf("Resolve(%q, %s) = %q, want %q", raw, source, got, want)
		}
	}
}

func TestNewRejectsUnknownRuleSet(t *testing.T) {
	if _, err := New(nil, map[string]string{"net": "nope"}); err == nil {
		t.Fatal("expected error for unknown rule set")
	}
}

func TestStats(t *testing.T) {
	r, _ := New(newTable(t, alias.Entry{Canonical: "Duke", Source: "net", Variant: "Duke"}), nil)
	stats := NewStats("net")
	for _, raw := range []string{"Duke", "Mystery", "Mystery", "Zeta", ""} {
		stats.Record(r.ResolveDetail(raw, "net"))
	}
	if stats.Total != 5 || stats.ByMethod[MethodAlias] != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	names := stats.UnresolvedNames()
	if len(names) != 2 || names[0] != "Mystery" || stats.Unresolved["Mystery"] != 2 {
		t.Fatalf("unresolved = %v", stats.Unresolved)
	}
}
