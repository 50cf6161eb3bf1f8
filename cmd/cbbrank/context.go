package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/logging"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/metrics"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/pipeline"
	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/store"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.verbose != nil && *c.verbose {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// storeMode controls whether a command can run without the snapshot store.
type storeMode int

const (
	storeOptional storeMode = iota
	storeRequired
)

// withRunner builds a pipeline runner with metrics and, when it opens, the
// snapshot store. Optional-store commands fall back to raw files.
func (c *commandContext) withRunner(mode storeMode, fn func(*pipeline.Runner) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	opts := []pipeline.Option{pipeline.WithMetrics(metrics.New())}
	st, err := store.Open(cfg)
	switch {
	case err == nil:
		defer st.Close()
		opts = append(opts, pipeline.WithStore(st))
	case mode == storeRequired:
		return fmt.Errorf("open store: %w", err)
	default:
		logging.WarnWithContext(logger, "snapshot store unavailable", "store_unavailable",
			logging.String("store_path", cfg.Paths.StorePath),
			logging.Error(err),
			logging.Hint("run cbbrank check, or remove the store file to rebuild it"),
			logging.Impact("rank tables are read from raw files"),
		)
	}
	return fn(pipeline.New(cfg, logger, opts...))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

var errRunFailed = errors.New("run completed with failures")
