package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir   string `toml:"log_dir"`
	TempDir  string `toml:"temp_dir"`
	StateDir string `toml:"state_dir"`
}

// Timeouts bounds the connect phase and the whole request, in seconds.
type Timeouts struct {
	ConnectTimeout int `toml:"connect_timeout"`
	RequestTimeout int `toml:"request_timeout"`
}

// Connect returns the dial timeout as a duration.
func (t Timeouts) Connect() time.Duration {
	return time.Duration(t.ConnectTimeout) * time.Second
}

// Request returns the total request timeout as a duration.
func (t Timeouts) Request() time.Duration {
	return time.Duration(t.RequestTimeout) * time.Second
}

// PlantNet contains configuration for the species identification service.
type PlantNet struct {
	APIKey     string `toml:"api_key"`
	BaseURL    string `toml:"base_url"`
	Project    string `toml:"project"`
	Language   string `toml:"language"`
	MaxResults int    `toml:"max_results"`
	Timeouts
}

// IUCN contains configuration for the Red List conservation registry.
type IUCN struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Timeouts
}

// GBIF contains configuration for the occurrence registry. No key is needed.
type GBIF struct {
	BaseURL string `toml:"base_url"`
	Timeouts
}

// Trefle contains configuration for the secondary trait registry.
type Trefle struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Timeouts
}

// Server contains configuration for the HTTP API served by `florafinder serve`.
type Server struct {
	Bind            string `toml:"bind"`
	Metrics         bool   `toml:"metrics"`
	ReadTimeout     int    `toml:"read_timeout"`
	WriteTimeout    int    `toml:"write_timeout"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
	// Token, when set, is required as a bearer token on every /api request.
	Token string `toml:"token"`
}

// Tracing controls OpenTelemetry spans for upstream calls and API requests.
// Output is a file path or "stdout"/"stderr"; an empty value writes
// traces.jsonl under the log directory.
type Tracing struct {
	Enabled     bool    `toml:"enabled"`
	Output      string  `toml:"output"`
	SampleRatio float64 `toml:"sample_ratio"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for florafinder.
//
// Configuration sections by subsystem:
//   - Paths: log, temporary image, and state directories
//   - PlantNet: species identification
//   - IUCN: conservation status lookups
//   - GBIF: habitat lookups by key or name
//   - Trefle: native distribution lookups
//   - Server: HTTP API bind address and timeouts
//   - Tracing: span export for upstream calls
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	PlantNet PlantNet `toml:"plantnet"`
	IUCN     IUCN     `toml:"iucn"`
	GBIF     GBIF     `toml:"gbif"`
	Trefle   Trefle   `toml:"trefle"`
	Server   Server   `toml:"server"`
	Tracing  Tracing  `toml:"tracing"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("florafinder.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the CLI and server write to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.TempDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the path of the single-instance server lock.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "florafinder.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultTempDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "florafinder", "images")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/florafinder/images"
	}
	return filepath.Join(home, ".cache", "florafinder", "images")
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
