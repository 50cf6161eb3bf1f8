package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CBBRANK_DATA_DIR", "")
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevWD) })

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "cbbrank")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.AliasFile != filepath.Join(wantData, "team_alias.csv") {
		t.Fatalf("unexpected alias file: %q", cfg.Paths.AliasFile)
	}
	if cfg.Games.File != filepath.Join(wantData, "raw", "games.csv") {
		t.Fatalf("unexpected games file: %q", cfg.Games.File)
	}
	if cfg.Merge.OutputFile != filepath.Join(wantData, "output", "games_with_ranks.csv") {
		t.Fatalf("unexpected merge output: %q", cfg.Merge.OutputFile)
	}
	if len(cfg.Sources) != 5 || cfg.Sources[0].Tag != "net" {
		t.Fatalf("expected stock sources, got %+v", cfg.Sources)
	}
	if cfg.Sources[2].Rules != "duplicated" || cfg.Sources[2].Dedupe != "best" {
		t.Fatalf("unexpected bpi source: %+v", cfg.Sources[2])
	}
	if cfg.Merge.Unrated != "NR" {
		t.Fatalf("unexpected unrated marker: %q", cfg.Merge.Unrated)
	}
	if cfg.Diagnose.Threshold != 0.6 || cfg.Diagnose.AutoAccept != 0.85 {
		t.Fatalf("unexpected diagnose thresholds: %+v", cfg.Diagnose)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
	if cfg.Metrics.Textfile != "" {
		t.Fatalf("metrics should be off by default, got %q", cfg.Metrics.Textfile)
	}
}

func TestLoadCustomConfigReplacesSources(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CBBRANK_DATA_DIR", "")

	dataDir := filepath.Join(tempHome, "data")
	configPath := filepath.Join(tempHome, "config.toml")
	payload := map[string]any{
		"paths": map[string]any{"data_dir": dataDir, "raw_dir": "/srv/raw"},
		"sources": []map[string]any{
			{"tag": "NET", "file": "net.csv", "rank_columns": []string{"NET"}},
			{"tag": "torvik", "label": "Torvik", "rules": "conference", "dedupe": "best"},
		},
		"logging": map[string]any{"format": "JSON", "level": "debug"},
		"metrics": map[string]any{"textfile": "run.prom"},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if got := strings.Join(cfg.SourceTags(), ","); got != "net,torvik" {
		t.Fatalf("source tags = %s", got)
	}
	net, ok := cfg.Source("NET")
	if !ok || net.File != "/srv/raw/net.csv" || net.Label != "NET" || net.Dedupe != "first" {
		t.Fatalf("net source = %+v", net)
	}
	torvik, _ := cfg.Source("torvik")
	if torvik.File != "/srv/raw/torvik_rankings.csv" {
		t.Fatalf("torvik default file = %q", torvik.File)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if cfg.Metrics.Textfile != filepath.Join(dataDir, "output", "run.prom") {
		t.Fatalf("metrics textfile = %q", cfg.Metrics.Textfile)
	}
	rules := cfg.RuleSets()
	if rules["espn"] != "generic" || rules["torvik"] != "conference" {
		t.Fatalf("rule sets = %v", rules)
	}
}

func TestEnvOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	override := filepath.Join(tempHome, "elsewhere")
	t.Setenv("CBBRANK_DATA_DIR", override)
	t.Setenv("CBBRANK_LOG_LEVEL", "WARN")

	cfg, _, _, err := config.Load(filepath.Join(tempHome, "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != override {
		t.Fatalf("data dir = %q", cfg.Paths.DataDir)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("log level = %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"unknown rules", func(c *config.Config) { c.Sources[0].Rules = "fancy" }, "rules"},
		{"unknown dedupe", func(c *config.Config) { c.Sources[0].Dedupe = "median" }, "dedupe"},
		{"duplicate tag", func(c *config.Config) { c.Sources[1].Tag = c.Sources[0].Tag }, "duplicated"},
		{"tag collides with games", func(c *config.Config) { c.Sources[0].Tag = "espn" }, "games.source"},
		{"threshold out of range", func(c *config.Config) { c.Diagnose.Threshold = 1.5 }, "threshold"},
		{"auto accept below threshold", func(c *config.Config) { c.Diagnose.AutoAccept = 0.5 }, "auto_accept"},
		{"unknown scorer", func(c *config.Config) { c.Diagnose.Scorer = "jaro" }, "scorer"},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Sources = config.DefaultSources()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want error mentioning %q", err, tt.want)
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CBBRANK_DATA_DIR", "")
	path := filepath.Join(tempHome, ".config", "cbbrank", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists || len(cfg.Sources) != 5 {
		t.Fatalf("unexpected sample load: exists=%v sources=%d", exists, len(cfg.Sources))
	}
}
