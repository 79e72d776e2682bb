package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"bdindex/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("BDINDEX_CATALOG_PATH", "")
	t.Chdir(t.TempDir())

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

	wantLogs := filepath.Join(tempHome, ".local", "share", "bdindex", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	wantCatalog := filepath.Join(tempHome, ".local", "share", "bdindex", "catalog.db")
	if cfg.Paths.CatalogPath != wantCatalog {
		t.Fatalf("unexpected catalog path: got %q want %q", cfg.Paths.CatalogPath, wantCatalog)
	}
	if cfg.Scan.DefaultPlaylist != 1 {
		t.Fatalf("expected default playlist 1, got %d", cfg.Scan.DefaultPlaylist)
	}
	if cfg.Scan.AllowChapterless {
		t.Fatal("expected chapterless playlists rejected by default")
	}
	if cfg.Chapters.Format != "ogm" || cfg.Chapters.Precision != 3 {
		t.Fatalf("unexpected chapter defaults: %+v", cfg.Chapters)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("BDINDEX_CATALOG_PATH", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `[paths]
log_dir = "~/logs"
catalog_path = "~/db/catalog.db"

[scan]
default_playlist = 800
max_depth = 4
allow_chapterless = true

[chapters]
format = "Matroska"
language = "ja"
precision = 0

[logging]
format = "JSON"
level = "DEBUG"

[logging.component_overrides]
BDMV = "warn"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, resolved=%q exists=%v", resolved, exists)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Paths.CatalogPath != filepath.Join(tempHome, "db", "catalog.db") {
		t.Fatalf("unexpected catalog path: %q", cfg.Paths.CatalogPath)
	}
	if cfg.Scan.DefaultPlaylist != 800 || cfg.Scan.MaxDepth != 4 || !cfg.Scan.AllowChapterless {
		t.Fatalf("unexpected scan settings: %+v", cfg.Scan)
	}
	if cfg.Chapters.Format != "matroska" || cfg.Chapters.Language != "ja" || cfg.Chapters.Precision != 0 {
		t.Fatalf("unexpected chapter settings: %+v", cfg.Chapters)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging settings: %+v", cfg.Logging)
	}
	if cfg.Logging.ComponentOverrides["bdmv"] != "warn" {
		t.Fatalf("expected normalized component override, got %v", cfg.Logging.ComponentOverrides)
	}
}

func TestCatalogPathEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	want := filepath.Join(t.TempDir(), "env.db")
	t.Setenv("BDINDEX_CATALOG_PATH", want)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.CatalogPath != want {
		t.Fatalf("expected env catalog path %q, got %q", want, cfg.Paths.CatalogPath)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"precision", func(c *config.Config) { c.Chapters.Precision = 2 }, "chapters.precision"},
		{"format", func(c *config.Config) { c.Chapters.Format = "cue" }, "chapters.format"},
		{"language", func(c *config.Config) { c.Chapters.Language = "not a tag!" }, "chapters.language"},
		{"template", func(c *config.Config) { c.Chapters.NameTemplate = "Chapter" }, "chapters.name_template"},
		{"playlist", func(c *config.Config) { c.Scan.DefaultPlaylist = -1 }, "scan.default_playlist"},
		{"depth", func(c *config.Config) { c.Scan.MaxDepth = 0 }, "scan.max_depth"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"override", func(c *config.Config) { c.Logging.ComponentOverrides = map[string]string{"bdmv": "loud"} }, "component_overrides"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleParsesWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	def := config.Default()
	if decoded.Scan != def.Scan || decoded.Chapters != def.Chapters {
		t.Fatalf("sample drifted from defaults: scan=%+v chapters=%+v", decoded.Scan, decoded.Chapters)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := config.Default()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(data), "default_playlist = 1") {
		t.Fatalf("expected encoded scan section, got:\n%s", data)
	}
}
