// Package config handles all configuration management for commitlint.
//
// Configuration is loaded from multiple sources in order of precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables (COMMITLINT_*)
// 3. Configuration file (.commitlint.yaml, located with findcfg)
// 4. Default values (lowest priority)
package config

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/JNZader/commitlint/internal/rules"
)

// Config is the main configuration structure for commitlint.
type Config struct {
	// Extends lists presets, files or HTTPS URLs whose rules are merged
	// in order before Rules.
	Extends []string `mapstructure:"extends" yaml:"extends" json:"extends" toml:"extends"`

	// Rules overrides individual rules: name -> [level, when, value]
	Rules map[string]any `mapstructure:"rules" yaml:"rules,omitempty" json:"rules,omitempty" toml:"rules,omitempty"`

	// Lint configures ignores and parallelism
	Lint LintConfig `mapstructure:"lint" yaml:"lint" json:"lint" toml:"lint"`

	// Output configures output formatting
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output" toml:"output"`

	// Git configures git-related settings
	Git GitConfig `mapstructure:"git" yaml:"git" json:"git" toml:"git"`

	file string
}

// LintConfig configures the linter.
type LintConfig struct {
	// DefaultIgnores skips merge, revert, fixup and similar commits
	DefaultIgnores bool `mapstructure:"default_ignores" yaml:"default_ignores" json:"default_ignores" toml:"default_ignores"`

	// Ignores are regular expressions matched against the header
	Ignores []string `mapstructure:"ignores" yaml:"ignores,omitempty" json:"ignores,omitempty" toml:"ignores,omitempty"`

	// Concurrency is the number of parallel workers for history linting (0 = auto)
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency" json:"concurrency" toml:"concurrency"`

	// HelpURL is printed below failing reports
	HelpURL string `mapstructure:"help_url" yaml:"help_url" json:"help_url" toml:"help_url"`
}

// OutputConfig configures output formatting.
type OutputConfig struct {
	// Format is the output format: "text", "json", "markdown", "sarif"
	Format string `mapstructure:"format" yaml:"format" json:"format" toml:"format"`

	// File is the output file path (empty = stdout)
	File string `mapstructure:"file" yaml:"file,omitempty" json:"file,omitempty" toml:"file,omitempty"`

	// Color enables colored output (for terminal)
	Color bool `mapstructure:"color" yaml:"color" json:"color" toml:"color"`

	// Verbose enables verbose output
	Verbose bool `mapstructure:"verbose" yaml:"verbose" json:"verbose" toml:"verbose"`

	// Quiet suppresses all output except errors
	Quiet bool `mapstructure:"quiet" yaml:"quiet" json:"quiet" toml:"quiet"`
}

// GitConfig configures git-related settings.
type GitConfig struct {
	// RepoPath is the path to the git repository (default: current directory)
	RepoPath string `mapstructure:"repo_path" yaml:"repo_path" json:"repo_path" toml:"repo_path"`

	// NoMerges skips merge commits when linting a range
	NoMerges bool `mapstructure:"no_merges" yaml:"no_merges" json:"no_merges" toml:"no_merges"`
}

// ValidFormats lists the supported output formats.
var ValidFormats = []string{"text", "json", "markdown", "sarif"}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	for i, e := range c.Extends {
		if err := rules.ValidateSource(e); err != nil {
			return &ValidationError{Field: fmt.Sprintf("extends[%d]", i), Message: err.Error()}
		}
	}

	if c.Lint.Concurrency < 0 {
		return &ValidationError{Field: "lint.concurrency", Message: "must not be negative"}
	}

	for i, p := range c.Lint.Ignores {
		if _, err := regexp.Compile(p); err != nil {
			return &ValidationError{Field: fmt.Sprintf("lint.ignores[%d]", i), Message: err.Error()}
		}
	}

	if !isValidFormat(c.Output.Format) {
		return &ValidationError{
			Field:   "output.format",
			Message: "invalid format, must be one of: " + strings.Join(ValidFormats, ", "),
		}
	}

	if c.Output.Verbose && c.Output.Quiet {
		return &ValidationError{Field: "output.quiet", Message: "cannot be combined with verbose"}
	}

	return nil
}

func isValidFormat(f string) bool {
	for _, v := range ValidFormats {
		if v == f {
			return true
		}
	}
	return false
}

// File returns the config file the configuration was read from, if any.
func (c *Config) File() string {
	return c.file
}

// BaseDir is the directory relative extends entries resolve against: the
// config file's directory, else the repository path.
func (c *Config) BaseDir() string {
	if c.file != "" {
		return filepath.Dir(c.file)
	}
	if c.Git.RepoPath != "" {
		return c.Git.RepoPath
	}
	return "."
}

// RuleSet resolves Extends and Rules into the effective rule set.
func (c *Config) RuleSet(ctx context.Context) (*rules.RuleSet, error) {
	rs, err := rules.NewLoader(c.BaseDir()).Load(ctx, c.Extends, c.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return rs, nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "config validation error: " + e.Field + ": " + e.Message
}
