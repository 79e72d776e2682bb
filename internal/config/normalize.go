package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeChapters()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("BDINDEX_CATALOG_PATH"); ok && strings.TrimSpace(value) != "" {
		c.Paths.CatalogPath = strings.TrimSpace(value)
	}
	var err error
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogPath) == "" {
		c.Paths.CatalogPath = defaultCatalogPath
	}
	if c.Paths.CatalogPath, err = expandPath(strings.TrimSpace(c.Paths.CatalogPath)); err != nil {
		return fmt.Errorf("paths.catalog_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	if c.Scan.MaxDepth == 0 {
		c.Scan.MaxDepth = defaultMaxDepth
	}
}

func (c *Config) normalizeChapters() {
	c.Chapters.Format = strings.ToLower(strings.TrimSpace(c.Chapters.Format))
	if c.Chapters.Format == "" {
		c.Chapters.Format = defaultChapterFormat
	}
	c.Chapters.Language = strings.TrimSpace(c.Chapters.Language)
	if c.Chapters.Language == "" {
		c.Chapters.Language = defaultChapterLanguage
	}
	if strings.TrimSpace(c.Chapters.NameTemplate) == "" {
		c.Chapters.NameTemplate = defaultNameTemplate
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if len(c.Logging.ComponentOverrides) > 0 {
		normalized := make(map[string]string, len(c.Logging.ComponentOverrides))
		for component, level := range c.Logging.ComponentOverrides {
			key := strings.ToLower(strings.TrimSpace(component))
			if key == "" {
				continue
			}
			normalized[key] = strings.ToLower(strings.TrimSpace(level))
		}
		c.Logging.ComponentOverrides = normalized
	}
}
