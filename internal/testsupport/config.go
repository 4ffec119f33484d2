package testsupport

import (
	"path/filepath"
	"testing"

	"bankrip/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Bank root, output root, description, and state directory all live under one
// temp base; apply options to adjust.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.BankRoot = filepath.Join(base, "banks")
	cfgVal.Paths.OutputRoot = filepath.Join(base, "out")
	cfgVal.Paths.DescriptionPath = filepath.Join(base, "loader.cs")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Manifest.Path = filepath.Join(base, "state", "manifest.db")

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

// WithoutManifest disables run history recording.
func WithoutManifest() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Manifest.Enabled = false
	}
}

// WithBankName changes the bank name used for declarations and bank files.
func WithBankName(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extraction.BankName = name
	}
}

// WithExtensions overrides the validated and raw output extensions.
func WithExtensions(validated, raw string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extraction.ValidatedExtension = validated
		b.cfg.Extraction.RawExtension = raw
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.BankRoot)
}
