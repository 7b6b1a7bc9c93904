package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"florafinder/internal/config"
	"florafinder/internal/logging"
)

type commandContext struct {
	configFlag *string
	verbose    *bool
	jsonOutput *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, verbose, jsonOutput *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
		jsonOutput: jsonOutput,
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) resolvedLogLevel(cfg *config.Config) string {
	if c.verbose != nil && *c.verbose {
		return "debug"
	}
	if cfg != nil && cfg.Logging.Level != "" {
		return cfg.Logging.Level
	}
	return "info"
}

// commandLogger writes to stderr so stdout stays clean for tables and JSON.
func (c *commandContext) commandLogger(cfg *config.Config) (*slog.Logger, error) {
	format := "console"
	if cfg != nil && cfg.Logging.Format != "" {
		format = cfg.Logging.Format
	}
	return logging.New(logging.Options{
		Level:       c.resolvedLogLevel(cfg),
		Format:      format,
		OutputPaths: []string{"stderr"},
		Development: c.verbose != nil && *c.verbose,
	})
}

func (c *commandContext) wantJSON(cmd *cobra.Command) bool {
	if c.jsonOutput != nil && *c.jsonOutput {
		return true
	}
	return !isTerminal(cmd.OutOrStdout())
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
