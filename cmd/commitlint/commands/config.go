package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JNZader/commitlint/internal/config"
	"github.com/JNZader/commitlint/internal/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View commitlint configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current configuration, including values from
config file, environment variables, and defaults.

Examples:
  # Show config in YAML format
  commitlint config show

  # Show config as JSON
  commitlint config show --json`,

	RunE: runConfigShow,
}

var (
	configShowJSON bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output as JSON")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	cfg := maskSensitiveConfig(appConfig)

	// Show config file location
	if !isQuiet() {
		if configFile := appConfig.File(); configFile != "" {
			fmt.Fprintf(w, "# Config file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(w, "# No config file found, using defaults\n\n")
		}
	}

	if configShowJSON {
		return failure(outputConfigJSON(w, cfg))
	}

	return failure(outputConfigYAML(w, cfg))
}

// maskSensitiveConfig creates a copy with credentials in URLs masked, such
// as tokens embedded in an extends URL.
func maskSensitiveConfig(cfg *config.Config) *config.Config {
	masked := *cfg // Shallow copy

	masked.Extends = make([]string, len(cfg.Extends))
	for i, e := range cfg.Extends {
		masked.Extends[i] = logger.MaskSecrets(e)
	}
	masked.Lint.HelpURL = logger.MaskSecrets(cfg.Lint.HelpURL)

	return &masked
}

func outputConfigJSON(w io.Writer, cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func outputConfigYAML(w io.Writer, cfg *config.Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return enc.Close()
}
