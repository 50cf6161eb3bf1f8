package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/testsupport"
)

const cliSources = `
[[sources]]
tag = "net"
label = "NET"
file = "net.csv"
rank_columns = ["net_rank"]
composite = true

[[sources]]
tag = "ap"
label = "AP"
file = "ap.csv"
rules = "seeded"
dedupe = "best"
rank_columns = ["rk"]
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	homeDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	homeDir := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("CBBRANK_DATA_DIR", "")
	t.Setenv("CBBRANK_LOG_LEVEL", "")

	cfg := testsupport.NewConfig(t, testsupport.WithTOML(cliSources))
	testsupport.WriteCSV(t, cfg.Paths.AliasFile,
		[]string{"standard_name", "espn_name", "net_name", "ap_name"},
		[]string{"Gonzaga", "Gonzaga Bulldogs", "", ""},
		[]string{"Saint Mary's", "Saint Mary's Gaels", "", ""},
	)
	testsupport.WriteCSV(t, cfg.Games.File,
		[]string{"date", "team", "opponent"},
		[]string{"2025-02-08", "Gonzaga Bulldogs", "Saint Mary's Gaels"},
		[]string{"2025-02-08", "Saint Mary's Gaels", "Gonzaga Bulldogs"},
		[]string{"2025-02-11", "Gonzaga Bulldogs", "Gonzagas"},
	)
	testsupport.WriteCSV(t, filepath.Join(cfg.Paths.RawDir, "net.csv"),
		[]string{"team", "net_rank"},
		[]string{"Gonzaga", "8"},
		[]string{"St. Mary's", "19"},
	)
	testsupport.WriteCSV(t, filepath.Join(cfg.Paths.RawDir, "ap.csv"),
		[]string{"rk", "team"},
		[]string{"14", "Gonzaga (3)"},
		[]string{"RV", "Saint Mary's"},
	)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: filepath.Join(testsupport.BaseDir(cfg), "cbbrank.toml"),
		homeDir:    homeDir,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
