package alias

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/tabular"
)

const fixture = `standard_name,espn_name,kenpom,bpi_name
Duke,Duke Blue Devils,Duke,DukeDuke
North Carolina,North Carolina Tar Heels|UNC,North Carolina,
Saint Mary's,,St. Mary's,
Mount St. Mary's,,St. Mary's,
`

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(fixture), "fixture")
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 4 {
		t.Fatalf("canonicals = %d, want 4", table.Len())
	}
	if got := strings.Join(table.Sources(), ","); got != "espn,kenpom,bpi" {
		t.Fatalf("sources = %s", got)
	}
	if got, ok := table.Lookup("espn", "unc"); !ok || got != "North Carolina" {
		t.Fatalf("Lookup(espn, unc) = %q, %v", got, ok)
	}
	conflicts := table.Conflicts()
	if len(conflicts) != 1 || conflicts[0].Proposed != "Mount St. Mary's" {
		t.Fatalf("conflicts = %+v", conflicts)
	}
	if got, _ := table.Lookup("kenpom", "St. Mary's"); got != "Saint Mary's" {
		t.Fatalf("first row should win, got %q", got)
	}
}

func TestParseRequiresStandardName(t *testing.T) {
	_, err := Parse(strings.NewReader("name,espn\nDuke,Duke\n"), "bad")
	if !errors.Is(err, tabular.ErrSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 0 {
		t.Fatalf("expected empty table, got %d", table.Len())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	table, err := Parse(strings.NewReader(fixture), "fixture")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "team_alias.csv")
	if err := Save(path, table); err != nil {
		t.Fatal(err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := reloaded.Lookup("espn", "North Carolina Tar Heels"); got != "North Carolina" {
		t.Fatalf("multi-variant cell lost: %q", got)
	}
	if reloaded.Len() != table.Len() {
		t.Fatalf("canonicals = %d, want %d", reloaded.Len(), table.Len())
	}
}

func TestAppendNeverOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team_alias.csv")
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := Append(context.Background(), path, []Entry{
		{Canonical: "Duke", Source: "net", Variant: "Duke"},
		{Canonical: "duke", Source: "espn", Variant: "Duke Blue Devils"},
		{Canonical: "North Carolina", Source: "bpi", Variant: "DukeDuke"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Added) != 1 || len(result.Existing) != 1 || len(result.Collisions) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	table, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := table.Lookup("net", "duke"); got != "Duke" {
		t.Fatalf("appended entry missing: %q", got)
	}
	if got, _ := table.Lookup("bpi", "DukeDuke"); got != "Duke" {
		t.Fatalf("collision overwrote existing entry: %q", got)
	}
	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Fatalf("expected backup: %v", err)
	}
}

func TestAppendCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team_alias.csv")
	result, err := Append(context.Background(), path, []Entry{{Canonical: "Gonzaga", Source: "ap", Variant: "Gonzaga (12)"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Added) != 1 {
		t.Fatalf("added = %d", len(result.Added))
	}
	if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
		t.Fatalf("no backup expected for a new file, stat err = %v", err)
	}
}
