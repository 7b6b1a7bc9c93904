package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"florafinder/internal/services"
)

// Validate ensures the configuration is usable. Missing credentials are
// reported with services.ErrConfiguration so callers can tell them apart.
func (c *Config) Validate() error {
	if err := c.validateCredentials(); err != nil {
		return err
	}
	if err := c.validatePlantNet(); err != nil {
		return err
	}
	if err := c.validateTimeouts(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateTracing(); err != nil {
		return err
	}
	return c.validateLogging()
}

// Credential names one required service key.
type Credential struct {
	Service string
	Setting string
	EnvVar  string
}

// Credentials lists the keys florafinder cannot run without, in the order
// they are checked.
func Credentials() []Credential {
	return []Credential{
		{Service: "PlantNet", Setting: "plantnet.api_key", EnvVar: "PLANTNET_API_KEY"},
		{Service: "IUCN Red List", Setting: "iucn.api_key", EnvVar: "IUCN_API_KEY"},
		{Service: "Trefle", Setting: "trefle.api_key", EnvVar: "TREFLE_API_KEY"},
	}
}

// CredentialValue returns the configured value for a Credentials setting.
func (c *Config) CredentialValue(setting string) string {
	switch setting {
	case "plantnet.api_key":
		return c.PlantNet.APIKey
	case "iucn.api_key":
		return c.IUCN.APIKey
	case "trefle.api_key":
		return c.Trefle.APIKey
	default:
		return ""
	}
}

func (c *Config) validateCredentials() error {
	for _, cred := range Credentials() {
		if strings.TrimSpace(c.CredentialValue(cred.Setting)) != "" {
			continue
		}
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("%w: %s is required. Set %s env var or edit %s (create with 'florafinder config init')",
			services.ErrConfiguration, cred.Setting, cred.EnvVar, defaultPath)
	}
	return nil
}

func (c *Config) validatePlantNet() error {
	if strings.TrimSpace(c.PlantNet.Project) == "" {
		return errors.New("plantnet.project must be set")
	}
	if _, err := language.Parse(c.PlantNet.Language); err != nil {
		return fmt.Errorf("plantnet.language %q is not a valid language tag", c.PlantNet.Language)
	}
	if c.PlantNet.MaxResults <= 0 {
		return errors.New("plantnet.max_results must be positive")
	}
	return nil
}

func (c *Config) validateTimeouts() error {
	return ensurePositive(
		entry{"plantnet.connect_timeout", c.PlantNet.ConnectTimeout},
		entry{"plantnet.request_timeout", c.PlantNet.RequestTimeout},
		entry{"iucn.connect_timeout", c.IUCN.ConnectTimeout},
		entry{"iucn.request_timeout", c.IUCN.RequestTimeout},
		entry{"gbif.connect_timeout", c.GBIF.ConnectTimeout},
		entry{"gbif.request_timeout", c.GBIF.RequestTimeout},
		entry{"trefle.connect_timeout", c.Trefle.ConnectTimeout},
		entry{"trefle.request_timeout", c.Trefle.RequestTimeout},
	)
}

func (c *Config) validateServer() error {
	if strings.TrimSpace(c.Server.Bind) == "" {
		return errors.New("server.bind must be set")
	}
	return ensurePositive(
		entry{"server.read_timeout", c.Server.ReadTimeout},
		entry{"server.write_timeout", c.Server.WriteTimeout},
		entry{"server.shutdown_timeout", c.Server.ShutdownTimeout},
	)
}

func (c *Config) validateTracing() error {
	if r := c.Tracing.SampleRatio; r < 0 || r > 1 {
		return fmt.Errorf("tracing.sample_ratio %v must be between 0 and 1", r)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}

type entry struct {
	key   string
	value int
}

func ensurePositive(values ...entry) error {
	for _, e := range values {
		if e.value <= 0 {
			return fmt.Errorf("%s must be positive", e.key)
		}
	}
	return nil
}
