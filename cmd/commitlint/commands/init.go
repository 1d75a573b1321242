package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JNZader/commitlint/internal/config"
	"github.com/JNZader/commitlint/internal/git"
	"github.com/JNZader/commitlint/internal/prompt"
	"github.com/JNZader/commitlint/internal/rules"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize commitlint configuration",
	Long: `Write a starter configuration file.

The format follows the file extension (.yaml, .yml, .json or .toml) or
--format. Without a path the file is written to .commitlint.yaml at the
repository root.

Examples:
  # Default YAML config extending the default preset
  commitlint init

  # Conventional preset as TOML
  commitlint init --preset conventional commitlint.toml

  # Include the prompt type table
  commitlint init --prompt`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE:        runInit,
}

var (
	initFormat string
	initPreset string
	initForce  bool
	initPrompt bool
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initFormat, "format", "", "file format: yaml, json, toml")
	initCmd.Flags().StringVar(&initPreset, "preset", rules.DefaultPreset, "preset to extend")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	initCmd.Flags().BoolVar(&initPrompt, "prompt", false, "include the prompt type table (YAML only)")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}

	format, path, err := resolveInitTarget(initFormat, path)
	if err != nil {
		return failure(err)
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		return failure(fmt.Errorf("%s already exists (use --force to overwrite)", path))
	}

	data, err := renderStarter(format, initPreset, initPrompt)
	if err != nil {
		return failure(err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // config files are not secret
		return failure(fmt.Errorf("writing config: %w", err))
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	}
	return nil
}

// resolveInitTarget picks the format from the flag or extension and the
// default path from the repository root.
func resolveInitTarget(format, path string) (string, string, error) {
	format = strings.ToLower(format)
	if format == "yml" {
		format = "yaml"
	}

	if path == "" {
		var repo git.Repository
		if appRepo != nil {
			repo = appRepo
		}
		path = config.DefaultPath(repo, ".")
		if format != "" && format != "yaml" {
			path = strings.TrimSuffix(path, filepath.Ext(path)) + "." + format
		}
	}

	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			format = "json"
		case ".toml":
			format = "toml"
		default:
			format = "yaml"
		}
	}

	switch format {
	case "yaml", "json", "toml":
		return format, path, nil
	default:
		return "", "", fmt.Errorf("unsupported config format %q (yaml, json, toml)", format)
	}
}

// starterConfig is the subset of config.Config written by init.
type starterConfig struct {
	Extends []string            `yaml:"extends" json:"extends" toml:"extends"`
	Rules   map[string]any      `yaml:"rules" json:"rules" toml:"rules"`
	Lint    config.LintConfig   `yaml:"lint" json:"lint" toml:"lint"`
	Output  config.OutputConfig `yaml:"output" json:"output" toml:"output"`
}

func renderStarter(format, preset string, withPrompt bool) ([]byte, error) {
	if _, err := rules.LoadPreset(preset); err != nil {
		return nil, err
	}

	def := config.DefaultConfig()
	cfg := starterConfig{
		Extends: []string{preset},
		Rules: map[string]any{
			"header-max-length": []any{2, "always", 100},
		},
		Lint:   def.Lint,
		Output: def.Output,
	}

	var buf bytes.Buffer
	switch format {
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		if withPrompt {
			buf.WriteString("\n" + prompt.DefaultSection())
		}
	}

	return buf.Bytes(), nil
}
