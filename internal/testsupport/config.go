package testsupport

import (
	"path/filepath"
	"testing"

	"musort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.TargetDir = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMode sets the sort mode on the test config.
func WithMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sort.Mode = mode
	}
}

// WithTargetDir sets the sort target root on the test config.
func WithTargetDir(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.TargetDir = path
	}
}

// WithReplaceDuplicates enables duplicate replacement on the test config.
func WithReplaceDuplicates() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Sort.ReplaceDuplicates = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
