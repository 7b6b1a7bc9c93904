package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"florafinder/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the florafinder configuration",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a sample configuration file",
		Long: `Write the sample configuration to --path, or to the default location.

The sample leaves all three API keys empty. The printed checklist shows which
keys are already exported in the environment.`,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				switch _, err := os.Stat(target); {
				case err == nil:
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				case !errors.Is(err, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n\n", target)
			fmt.Fprintln(out, renderCredentialChecklist(os.LookupEnv))
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	if path := strings.TrimSpace(flagValue); path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	path, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return path, nil
}

// renderCredentialChecklist lists each required key and whether the
// environment already supplies it.
func renderCredentialChecklist(lookupEnv func(string) (string, bool)) string {
	rows := make([][]string, 0, 3)
	for _, cred := range config.Credentials() {
		state := "edit " + cred.Setting
		if value, ok := lookupEnv(cred.EnvVar); ok && strings.TrimSpace(value) != "" {
			state = "exported"
		}
		rows = append(rows, []string{cred.Service, cred.EnvVar, state})
	}
	return renderTable("Required API keys", []string{"Service", "Environment", "Next step"}, rows, nil)
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and report what florafinder will use",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			if !exists {
				path += " (not found, defaults and environment used)"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderConfigSummary(cfg, path))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func renderConfigSummary(cfg *config.Config, path string) string {
	rows := [][]string{
		{"Config file", path},
		{"Identification", cfg.PlantNet.BaseURL + " (project " + cfg.PlantNet.Project + ", " + cfg.PlantNet.Language + ")"},
		{"Conservation", cfg.IUCN.BaseURL},
		{"Occurrences", cfg.GBIF.BaseURL},
		{"Traits", cfg.Trefle.BaseURL},
	}
	for _, cred := range config.Credentials() {
		rows = append(rows, []string{cred.Setting, maskSecret(cfg.CredentialValue(cred.Setting))})
	}
	rows = append(rows,
		[]string{"Image staging", cfg.Paths.TempDir},
		[]string{"Server", cfg.Server.Bind},
		[]string{"Metrics endpoint", yesNo(cfg.Server.Metrics)},
		[]string{"API token required", yesNo(cfg.Server.Token != "")},
	)
	tracingState := "off"
	if cfg.Tracing.Enabled {
		tracingState = fmt.Sprintf("%s (sample ratio %g)", cfg.Tracing.Output, cfg.Tracing.SampleRatio)
	}
	rows = append(rows, []string{"Tracing", tracingState})
	return renderTable("florafinder configuration", []string{"Setting", "Value"}, rows, nil)
}

// maskSecret keeps the last four characters so operators can tell keys apart.
func maskSecret(value string) string {
	value = strings.TrimSpace(value)
	if len(value) <= 4 {
		return strings.Repeat("*", len(value))
	}
	return strings.Repeat("*", len(value)-4) + value[len(value)-4:]
}
