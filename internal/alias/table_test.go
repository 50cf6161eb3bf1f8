package alias

import (
	"errors"
	"testing"
)

func TestAddRejectsConflictingVariant(t *testing.T) {
	table := New()
	if err := table.Add(Entry{Canonical: "Saint Mary's", Source: "kenpom", Variant: "St. Mary's"}); err != nil {
		t.Fatal(err)
	}
	if err := table.Add(Entry{Canonical: "Saint Mary's", Source: "kenpom", Variant: "st. mary's"}); err != nil {
		t.Fatalf("identical mapping should be a no-op, got %v", err)
	}
	err := table.Add(Entry{Canonical: "Mount St. Mary's", Source: "kenpom", Variant: "St. Mary's"})
	if !errors.Is(err, ErrCollision) {
		t.Fatalf("expected ErrCollision, got %v", err)
	}
	var collision *CollisionError
	if !errors.As(err, &collision) || collision.Existing != "Saint Mary's" {
		t.Fatalf("unexpected collision detail: %+v", collision)
	}
	if got, _ := table.Lookup("kenpom", "ST. MARY'S"); got != "Saint Mary's" {
		t.Fatalf("existing mapping was overwritten: %q", got)
	}
}

func TestSameVariantAllowedAcrossSources(t *testing.T) {
	table := New()
	if err := table.Add(Entry{Canonical: "Miami (FL)", Source: "net", Variant: "Miami"}); err != nil {
		t.Fatal(err)
	}
	if err := table.Add(Entry{Canonical: "Miami (OH)", Source: "ap", Variant: "Miami"}); err != nil {
		t.Fatalf("variants are scoped per source: %v", err)
	}
}

func TestCanonicalNamesAreCaseInsensitive(t *testing.T) {
	table := New()
	first := table.AddCanonical("Duke")
	second := table.AddCanonical("DUKE")
	if first != "Duke" || second != "Duke" || table.Len() != 1 {
		t.Fatalf("expected one canonical Duke, got %q %q len=%d", first, second, table.Len())
	}
	if got, ok := table.Canonical("duke"); !ok || got != "Duke" {
		t.Fatalf("Canonical(duke) = %q, %v", got, ok)
	}
}

func TestLookupKeyRequiresSingleCanonical(t *testing.T) {
	table := New()
	_ = table.Add(Entry{Canonical: "St. John's", Source: "net", Variant: "St. John's (NY)"})
	_ = table.Add(Entry{Canonical: "Saint Joseph's", Source: "net", Variant: "St Josephs"})
	if got, ok := table.LookupKey("net", "saintjosephs"); !ok || got != "Saint Joseph's" {
		t.Fatalf("LookupKey = %q, %v", got, ok)
	}

	_ = table.Add(Entry{Canonical: "Other Joseph's", Source: "net", Variant: "St. Joseph's"})
	if _, ok := table.LookupKey("net", "saintjosephs"); ok {
		t.Fatal("ambiguous key should not resolve")
	}
}

func TestEntriesAndSourcesKeepOrder(t *testing.T) {
	table := New()
	table.AddSource("net")
	_ = table.Add(Entry{Canonical: "Duke", Source: "espn", Variant: "Duke Blue Devils"})
	_ = table.Add(Entry{Canonical: "North Carolina", Source: "espn", Variant: "UNC"})
	sources := table.Sources()
	if len(sources) != 2 || sources[0] != "net" || sources[1] != "espn" {
		t.Fatalf("sources = %v", sources)
	}
	entries := table.Entries("ESPN")
	if len(entries) != 2 || entries[1].Variant != "UNC" {
		t.Fatalf("entries = %+v", entries)
	}
}
