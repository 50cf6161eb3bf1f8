package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kylevogel/cbb-ratings-pipeline-sub000/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	extra   []string
	after   []func(*config.Config)
}

// NewConfig produces a loaded config rooted in a unique temp directory per
// test. The config is written to disk and read back through config.Load so
// tests see the same normalization as the CLI.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	builder := &configBuilder{t: t, baseDir: t.TempDir()}
	for _, opt := range opts {
		opt(builder)
	}

	var doc strings.Builder
	fmt.Fprintf(&doc, "[paths]\ndata_dir = %q\n\n", builder.baseDir)
	for _, section := range builder.extra {
		doc.WriteString(section)
		doc.WriteString("\n\n")
	}

	path := filepath.Join(builder.baseDir, "cbbrank.toml")
	if err := os.WriteFile(path, []byte(doc.String()), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load: %v\n%s", err, doc.String())
	}
	for _, fn := range builder.after {
		fn(cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	if err := os.MkdirAll(cfg.Paths.RawDir, 0o755); err != nil {
		t.Fatalf("mkdir raw dir: %v", err)
	}
	return cfg
}

// WithTOML appends raw TOML to the generated config file.
func WithTOML(section string) ConfigOption {
	return func(b *configBuilder) {
		b.extra = append(b.extra, strings.TrimSpace(section))
	}
}

// WithMutation adjusts the config after it has been loaded.
func WithMutation(fn func(*config.Config)) ConfigOption {
	return func(b *configBuilder) {
		b.after = append(b.after, fn)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.DataDir
}
