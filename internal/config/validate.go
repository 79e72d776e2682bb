package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"bdindex/internal/timecode"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateChapters(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.DefaultPlaylist < 0 || c.Scan.DefaultPlaylist > 99999 {
		return fmt.Errorf("scan.default_playlist must be between 0 and 99999, got %d", c.Scan.DefaultPlaylist)
	}
	if c.Scan.MaxDepth < 1 {
		return errors.New("scan.max_depth must be positive")
	}
	return nil
}

func (c *Config) validateChapters() error {
	switch c.Chapters.Format {
	case "ogm", "matroska":
	default:
		return fmt.Errorf("chapters.format: unsupported value %q (expected ogm or matroska)", c.Chapters.Format)
	}
	if _, err := language.Parse(c.Chapters.Language); err != nil {
		return fmt.Errorf("chapters.language: %w", err)
	}
	if err := timecode.ValidatePrecision(c.Chapters.Precision); err != nil {
		return fmt.Errorf("chapters.precision: %w", err)
	}
	if !strings.Contains(c.Chapters.NameTemplate, "%") {
		return errors.New("chapters.name_template must contain a verb for the chapter number (e.g. \"Chapter %02d\")")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if !validLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be zero or positive")
	}
	for component, level := range c.Logging.ComponentOverrides {
		if !validLevel(level) {
			return fmt.Errorf("logging.component_overrides.%s: unsupported level %q", component, level)
		}
	}
	return nil
}

func validLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
