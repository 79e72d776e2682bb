package testsupport

import (
	"path/filepath"
	"testing"

	"bdindex/internal/config"
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
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CatalogPath = filepath.Join(base, "catalog.db")

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

// WithChapterless accepts playlists with an empty mark table.
func WithChapterless() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.AllowChapterless = true
	}
}

// WithChapterFormat sets the chapter export format and precision.
func WithChapterFormat(format string, precision int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Chapters.Format = format
		b.cfg.Chapters.Precision = precision
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CatalogPath)
}
