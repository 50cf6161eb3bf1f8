package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeGames(); err != nil {
		return err
	}
	if err := c.normalizeSources(); err != nil {
		return err
	}
	if err := c.normalizeOutputs(); err != nil {
		return err
	}
	c.normalizeDiagnose()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("CBBRANK_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	data := c.Paths.DataDir
	if c.Paths.RawDir, err = resolveIn(data, orDefault(c.Paths.RawDir, defaultRawDirName)); err != nil {
		return fmt.Errorf("paths.raw_dir: %w", err)
	}
	if c.Paths.OutputDir, err = resolveIn(data, orDefault(c.Paths.OutputDir, defaultOutputDirName)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = resolveIn(data, orDefault(c.Paths.LogDir, defaultLogDirName)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.AliasFile, err = resolveIn(data, orDefault(c.Paths.AliasFile, defaultAliasFile)); err != nil {
		return fmt.Errorf("paths.alias_file: %w", err)
	}
	if c.Paths.StorePath, err = resolveIn(data, orDefault(c.Paths.StorePath, defaultStoreFile)); err != nil {
		return fmt.Errorf("paths.store_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeGames() error {
	var err error
	c.Games.Source = strings.ToLower(strings.TrimSpace(orDefault(c.Games.Source, defaultGamesSource)))
	c.Games.Rules = strings.ToLower(strings.TrimSpace(orDefault(c.Games.Rules, defaultGamesRules)))
	c.Games.TeamColumns = trimAll(c.Games.TeamColumns)
	c.Games.OpponentColumns = trimAll(c.Games.OpponentColumns)
	if c.Games.File, err = resolveIn(c.Paths.RawDir, orDefault(c.Games.File, defaultGamesFile)); err != nil {
		return fmt.Errorf("games.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeSources() error {
	if len(c.Sources) == 0 {
		c.Sources = DefaultSources()
	}
	for i := range c.Sources {
		src := &c.Sources[i]
		src.Tag = strings.ToLower(strings.TrimSpace(src.Tag))
		src.Label = strings.TrimSpace(src.Label)
		if src.Label == "" {
			src.Label = strings.ToUpper(src.Tag)
		}
		src.Rules = strings.ToLower(strings.TrimSpace(orDefault(src.Rules, "generic")))
		src.Dedupe = strings.ToLower(strings.TrimSpace(orDefault(src.Dedupe, "first")))
		src.TeamColumns = trimAll(src.TeamColumns)
		src.RankColumns = trimAll(src.RankColumns)
		file := src.File
		if strings.TrimSpace(file) == "" && src.Tag != "" {
			file = src.Tag + "_rankings.csv"
		}
		var err error
		if src.File, err = resolveIn(c.Paths.RawDir, file); err != nil {
			return fmt.Errorf("sources[%d].file: %w", i, err)
		}
	}
	return nil
}

func (c *Config) normalizeOutputs() error {
	var err error
	out := c.Paths.OutputDir
	if c.Merge.OutputFile, err = resolveIn(out, orDefault(c.Merge.OutputFile, defaultMergeOutput)); err != nil {
		return fmt.Errorf("merge.output_file: %w", err)
	}
	c.Merge.Unrated = strings.TrimSpace(c.Merge.Unrated)
	if c.Merge.Unrated == "" {
		c.Merge.Unrated = defaultUnrated
	}
	if c.Diagnose.SuggestionsFile, err = resolveIn(out, orDefault(c.Diagnose.SuggestionsFile, defaultSuggestionsFile)); err != nil {
		return fmt.Errorf("diagnose.suggestions_file: %w", err)
	}
	if c.Diagnose.CollisionsFile, err = resolveIn(out, orDefault(c.Diagnose.CollisionsFile, defaultCollisionsFile)); err != nil {
		return fmt.Errorf("diagnose.collisions_file: %w", err)
	}
	if c.Standings.OutputFile, err = resolveIn(out, orDefault(c.Standings.OutputFile, defaultStandingsOutput)); err != nil {
		return fmt.Errorf("standings.output_file: %w", err)
	}
	if c.Metrics.Textfile, err = resolveIn(out, c.Metrics.Textfile); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}

func (c *Config) normalizeDiagnose() {
	c.Diagnose.Scorer = strings.ToLower(strings.TrimSpace(orDefault(c.Diagnose.Scorer, defaultScorer)))
	if c.Diagnose.Threshold == 0 {
		c.Diagnose.Threshold = defaultThreshold
	}
	if c.Diagnose.AutoAccept == 0 {
		c.Diagnose.AutoAccept = defaultAutoAccept
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	if value, ok := os.LookupEnv("CBBRANK_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// OutputPath joins name onto the output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Paths.OutputDir, name)
}
