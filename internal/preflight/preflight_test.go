package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadableFile(t *testing.T) {
	dir := t.TempDir()
	if res := CheckReadableFile("dir", dir); res.Passed {
		t.Fatal("expected failure for directory")
	}
	f := filepath.Join(dir, "games.csv")
	testsupport.WriteFile(t, f, "team,opponent\n")
	if res := CheckReadableFile("file", f); !res.Passed {
		t.Fatalf("expected pass, got %s", res.Detail)
	}
}

func TestCheckAliasTable(t *testing.T) {
	dir := t.TempDir()
	missing := CheckAliasTable(filepath.Join(dir, "team_alias.csv"))
	if missing.Passed || !missing.Optional {
		t.Fatalf("missing alias table should be an optional failure: %+v", missing)
	}

	path := filepath.Join(dir, "aliases.csv")
	testsupport.WriteFile(t, path, "standard_name,kenpom_name\nDuke,Duke Blue Devils\nUConn,Connecticut\n")
	ok := CheckAliasTable(path)
	if !ok.Passed || !strings.Contains(ok.Detail, "2 canonical teams") {
		t.Fatalf("unexpected alias result: %+v", ok)
	}
}

func TestCheckGamesMissingOpponentColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.csv")
	testsupport.WriteFile(t, path, "date,team\n2025-01-01,Duke\n")

	res := CheckGames(config.Games{Source: "espn", File: path})
	if res.Passed {
		t.Fatal("expected failure when opponent column is absent")
	}
	if !strings.Contains(res.Detail, "opponent") {
		t.Fatalf("detail should name the missing role: %s", res.Detail)
	}
}

func TestCheckRankSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.csv")
	testsupport.WriteFile(t, path, "team,net_rank\nDuke,1\nHouston,x\n")

	res := CheckRankSource(config.Source{Tag: "net", File: path, RankColumns: []string{"net_rank"}})
	if !res.Passed || !strings.Contains(res.Detail, "1 rows, 1 dropped") {
		t.Fatalf("unexpected source result: %+v", res)
	}
}

func TestRunAllReportsMissingInputsAsOptional(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteFile(t, cfg.Games.File, "team,opponent\nDuke,UNC\n")

	results := RunAll(context.Background(), cfg)
	if len(results) != 5+len(cfg.Sources) {
		t.Fatalf("unexpected result count %d", len(results))
	}
	if Failed(results) {
		for _, r := range results {
			t.Logf("%s passed=%v optional=%v: %s", r.Name, r.Passed, r.Optional, r.Detail)
		}
		t.Fatal("expected only optional failures")
	}
}
