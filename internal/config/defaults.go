package config

import "github.com/JNZader/commitlint/internal/rules"

// DefaultHelpURL is shown below reports with problems.
const DefaultHelpURL = "https://github.com/conventional-changelog/commitlint/#what-is-commitlint"

// DefaultConfig returns a Config with sensible default values.
// The default preset holds the stock rule table.
func DefaultConfig() *Config {
	return &Config{
		Extends: []string{rules.DefaultPreset},
		Lint:    defaultLintConfig(),
		Output:  defaultOutputConfig(),
		Git:     defaultGitConfig(),
	}
}

// defaultLintConfig returns the default lint configuration.
func defaultLintConfig() LintConfig {
	return LintConfig{
		DefaultIgnores: true,
		Concurrency:    0,
		HelpURL:        DefaultHelpURL,
	}
}

// defaultOutputConfig returns the default output configuration.
func defaultOutputConfig() OutputConfig {
	return OutputConfig{
		Format:  "text",
		Color:   true,
		Verbose: false,
		Quiet:   false,
	}
}

// defaultGitConfig returns the default git configuration.
func defaultGitConfig() GitConfig {
	return GitConfig{
		RepoPath: ".",
	}
}
