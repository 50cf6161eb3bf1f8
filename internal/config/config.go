package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and data file locations.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	RawDir    string `toml:"raw_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	AliasFile string `toml:"alias_file"`
	StorePath string `toml:"store_path"`
}

// Games describes the game feed whose team and opponent columns are resolved.
type Games struct {
	File            string   `toml:"file"`
	Source          string   `toml:"source"`
	Rules           string   `toml:"rules"`
	TeamColumns     []string `toml:"team_columns"`
	OpponentColumns []string `toml:"opponent_columns"`
}

// Source describes one rank provider.
type Source struct {
	Tag         string   `toml:"tag"`
	Label       string   `toml:"label"`
	File        string   `toml:"file"`
	Rules       string   `toml:"rules"`
	Dedupe      string   `toml:"dedupe"`
	TeamColumns []string `toml:"team_columns"`
	RankColumns []string `toml:"rank_columns"`
	// Composite marks sources averaged into the standings table.
	Composite bool `toml:"composite"`
}

// Merge contains configuration for the merged games output.
type Merge struct {
	OutputFile string `toml:"output_file"`
	Unrated    string `toml:"unrated"`
	// FromFiles reads rank tables straight from raw CSVs instead of the
	// ingested snapshots.
	FromFiles bool `toml:"from_files"`
}

// Diagnose contains configuration for unresolved-name diagnostics.
type Diagnose struct {
	Threshold       float64 `toml:"threshold"`
	AutoAccept      float64 `toml:"auto_accept"`
	Scorer          string  `toml:"scorer"`
	SuggestionsFile string  `toml:"suggestions_file"`
	CollisionsFile  string  `toml:"collisions_file"`
}

// Standings contains configuration for the team-indexed output.
type Standings struct {
	OutputFile string `toml:"output_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Metrics contains configuration for per-run counters.
type Metrics struct {
	// Textfile, when set, receives Prometheus text-format counters after
	// each run.
	Textfile string `toml:"textfile"`
}

// Config encapsulates all configuration values for cbbrank.
//
// Configuration sections by subsystem:
//   - Paths: data, raw input, output, and log directories
//   - Games: the game feed and its team columns
//   - Sources: rank providers, their rule sets and dedupe policy
//   - Merge: merged games output and unrated marker
//   - Diagnose: suggestion thresholds and artifacts
//   - Standings: composite standings output
//   - Logging: log format and level
//   - Metrics: Prometheus textfile output
type Config struct {
	Paths     Paths     `toml:"paths"`
	Games     Games     `toml:"games"`
	Sources   []Source  `toml:"sources"`
	Merge     Merge     `toml:"merge"`
	Diagnose  Diagnose  `toml:"diagnose"`
	Standings Standings `toml:"standings"`
	Logging   Logging   `toml:"logging"`
	Metrics   Metrics   `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cbbrank/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cbbrank.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data, output, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.OutputDir, c.Paths.LogDir, filepath.Dir(c.Paths.StorePath)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Source returns the configured source with the given tag.
func (c *Config) Source(tag string) (Source, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, src := range c.Sources {
		if src.Tag == tag {
			return src, true
		}
	}
	return Source{}, false
}

// SourceTags lists configured source tags in order.
func (c *Config) SourceTags() []string {
	tags := make([]string, 0, len(c.Sources))
	for _, src := range c.Sources {
		tags = append(tags, src.Tag)
	}
	return tags
}

// RuleSets maps every source tag, including the game feed's, to its rule set name.
func (c *Config) RuleSets() map[string]string {
	out := make(map[string]string, len(c.Sources)+1)
	out[c.Games.Source] = c.Games.Rules
	for _, src := range c.Sources {
		out[src.Tag] = src.Rules
	}
	return out
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// resolveIn expands name, joining it onto base when it is relative.
func resolveIn(base, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	if !strings.HasPrefix(name, "~") && !filepath.IsAbs(name) && base != "" {
		name = filepath.Join(base, name)
	}
	return expandPath(name)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
