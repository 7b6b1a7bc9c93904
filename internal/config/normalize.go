package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePlantNet()
	c.normalizeRegistries()
	c.normalizeServer()
	if err := c.normalizeTracing(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeTracing() error {
	output := strings.TrimSpace(c.Tracing.Output)
	switch output {
	case "stdout", "stderr":
	case "":
		output = filepath.Join(c.Paths.LogDir, defaultTraceFile)
	default:
		expanded, err := expandPath(output)
		if err != nil {
			return fmt.Errorf("tracing.output: %w", err)
		}
		output = expanded
	}
	c.Tracing.Output = output
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = defaultTempDir()
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePlantNet() {
	defaults := Default().PlantNet
	c.PlantNet.APIKey = envFallback(c.PlantNet.APIKey, "PLANTNET_API_KEY")
	c.PlantNet.BaseURL = orDefault(c.PlantNet.BaseURL, defaults.BaseURL)
	c.PlantNet.Project = orDefault(c.PlantNet.Project, defaults.Project)
	c.PlantNet.Language = canonicalLanguage(orDefault(c.PlantNet.Language, defaults.Language))
	if c.PlantNet.MaxResults <= 0 {
		c.PlantNet.MaxResults = defaults.MaxResults
	}
	c.PlantNet.Timeouts = c.PlantNet.Timeouts.withDefaults(defaults.Timeouts)
}

func (c *Config) normalizeRegistries() {
	defaults := Default()

	c.IUCN.APIKey = envFallback(c.IUCN.APIKey, "IUCN_API_KEY")
	c.IUCN.BaseURL = orDefault(c.IUCN.BaseURL, defaults.IUCN.BaseURL)
	c.IUCN.Timeouts = c.IUCN.Timeouts.withDefaults(defaults.IUCN.Timeouts)

	c.GBIF.BaseURL = orDefault(c.GBIF.BaseURL, defaults.GBIF.BaseURL)
	c.GBIF.Timeouts = c.GBIF.Timeouts.withDefaults(defaults.GBIF.Timeouts)

	c.Trefle.APIKey = envFallback(c.Trefle.APIKey, "TREFLE_API_KEY")
	c.Trefle.BaseURL = orDefault(c.Trefle.BaseURL, defaults.Trefle.BaseURL)
	c.Trefle.Timeouts = c.Trefle.Timeouts.withDefaults(defaults.Trefle.Timeouts)
}

func (c *Config) normalizeServer() {
	c.Server.Bind = orDefault(c.Server.Bind, defaultServerBind)
	c.Server.Token = envFallback(c.Server.Token, "FLORAFINDER_API_TOKEN")
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = defaultReadTimeout
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = defaultWriteTimeout
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (t Timeouts) withDefaults(defaults Timeouts) Timeouts {
	if t.ConnectTimeout <= 0 {
		t.ConnectTimeout = defaults.ConnectTimeout
	}
	if t.RequestTimeout <= 0 {
		t.RequestTimeout = defaults.RequestTimeout
	}
	return t
}

func envFallback(value, key string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	if env, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(env)
	}
	return ""
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}

// canonicalLanguage reduces a BCP 47 tag to its base language ("en-GB" -> "en").
// Unparseable input is returned unchanged for Validate to report.
func canonicalLanguage(value string) string {
	tag, err := language.Parse(value)
	if err != nil {
		return value
	}
	base, _ := tag.Base()
	return base.String()
}
