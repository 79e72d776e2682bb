package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"bdindex/internal/bdmv"
	"bdindex/internal/config"
	"bdindex/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	logPath    string
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.configPath = resolved
		c.configExists = exists
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the run logger and prunes old log files once per
// invocation.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, logPath, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
		c.logPath = logPath
		if logPath != "" {
			logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
				Dir:     cfg.Paths.LogDir,
				Pattern: logging.LogFilePattern,
				Exclude: []string{logPath},
			})
		}
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	logger, err := c.ensureLogger()
	if err != nil || logger == nil {
		return logging.NewNop()
	}
	return logger
}

func (c *commandContext) componentLogger(component string) *slog.Logger {
	var overrides map[string]string
	if cfg, err := c.ensureConfig(); err == nil {
		overrides = cfg.Logging.ComponentOverrides
	}
	return logging.ComponentLogger(c.loggerValue(), component, overrides)
}

// bdmvOptions maps the scan section of the config onto parser options.
func (c *commandContext) bdmvOptions() []bdmv.Option {
	opts := []bdmv.Option{bdmv.WithLogger(c.componentLogger("bdmv"))}
	if cfg, err := c.ensureConfig(); err == nil {
		opts = append(opts,
			bdmv.WithMaxDepth(cfg.Scan.MaxDepth),
			bdmv.WithChapterless(cfg.Scan.AllowChapterless),
		)
	}
	return opts
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
