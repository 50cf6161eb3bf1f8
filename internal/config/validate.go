package config

import (
	"errors"
	"fmt"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/ranks"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/similarity"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/teamname"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGames(); err != nil {
		return err
	}
	if err := c.validateSources(); err != nil {
		return err
	}
	if err := c.validateDiagnose(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGames() error {
	if c.Games.Source == "" {
		return errors.New("games.source must be set")
	}
	if _, err := teamname.LookupRuleSet(c.Games.Rules); err != nil {
		return fmt.Errorf("games.rules: %w", err)
	}
	return nil
}

func (c *Config) validateSources() error {
	if len(c.Sources) == 0 {
		return errors.New("at least one [[sources]] entry is required")
	}
	seen := make(map[string]bool, len(c.Sources))
	labels := make(map[string]bool, len(c.Sources))
	for i, src := range c.Sources {
		if src.Tag == "" {
			return fmt.Errorf("sources[%d].tag must be set", i)
		}
		if seen[src.Tag] {
			return fmt.Errorf("sources[%d].tag %q is duplicated", i, src.Tag)
		}
		seen[src.Tag] = true
		if labels[src.Label] {
			return fmt.Errorf("sources[%d].label %q is duplicated", i, src.Label)
		}
		labels[src.Label] = true
		if src.Tag == c.Games.Source {
			return fmt.Errorf("sources[%d].tag %q collides with games.source", i, src.Tag)
		}
		if _, err := teamname.LookupRuleSet(src.Rules); err != nil {
			return fmt.Errorf("sources[%d].rules: %w", i, err)
		}
		if _, err := ranks.ParsePolicy(src.Dedupe); err != nil {
			return fmt.Errorf("sources[%d].dedupe: %w", i, err)
		}
	}
	return nil
}

func (c *Config) validateDiagnose() error {
	if c.Diagnose.Threshold <= 0 || c.Diagnose.Threshold > 1 {
		return errors.New("diagnose.threshold must be in (0, 1]")
	}
	if c.Diagnose.AutoAccept < c.Diagnose.Threshold || c.Diagnose.AutoAccept > 1 {
		return errors.New("diagnose.auto_accept must be between diagnose.threshold and 1")
	}
	if _, err := similarity.LookupScorer(c.Diagnose.Scorer); err != nil {
		return fmt.Errorf("diagnose.scorer: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
