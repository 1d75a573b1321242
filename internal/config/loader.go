package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shu-go/findcfg"
	"github.com/spf13/viper"

	"github.com/JNZader/commitlint/internal/git"
)

// Config file constants (SonarQube S1192)
const (
	configBaseName   = ".commitlint"
	configFileName   = configBaseName + ".yaml"
	userConfigFolder = "commitlint"
	envPrefix        = "COMMITLINT"

	// GitConfigKey is the [commitlint] git config key naming a config file
	// relative to the repository root.
	GitConfigKey = "config"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
	searchDir  string
	repo       git.Repository
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	// Environment variable support
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// SetConfigFile sets a specific config file to use. Discovery is skipped
// and a missing file is an error.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// SetSearchDir sets the directory searched when no repository is known.
func (l *Loader) SetSearchDir(dir string) {
	l.searchDir = dir
}

// SetRepository enables discovery through the repository root and the
// commitlint.config git setting.
func (l *Loader) SetRepository(repo git.Repository) {
	l.repo = repo
}

// Load loads the configuration from all sources.
// Priority (highest to lowest):
// 1. Environment variables (COMMITLINT_*)
// 2. Config file (explicit, from git config, or discovered)
// 3. Default values
func (l *Loader) Load() (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Set defaults in viper
	l.setDefaults(cfg)

	path, err := l.FindConfigFile()
	if err != nil {
		return nil, err
	}

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
		cfg.file = path
	}

	// Unmarshal into config struct
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate the final config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile returns the config file Load would read, or "" when none
// exists and the defaults apply.
func (l *Loader) FindConfigFile() (string, error) {
	if l.configFile != "" {
		if _, err := os.Stat(l.configFile); err != nil {
			return "", fmt.Errorf("config file: %w", err)
		}
		return filepath.Abs(l.configFile)
	}

	rootDir := l.searchDir
	var exactPath string
	if l.repo != nil && l.repo.Root() != "" {
		rootDir = l.repo.Root()
		if p, ok := l.repo.ConfigValue(GitConfigKey); ok {
			exactPath = p
			if !filepath.IsAbs(p) {
				exactPath = filepath.Join(rootDir, p)
			}
		}
	}
	if rootDir == "" {
		rootDir = "."
	}

	finder := findcfg.New(
		findcfg.Name(configBaseName),
		findcfg.ExactPath(exactPath),
		findcfg.YAML(),
		findcfg.JSON(),
		findcfg.Dir(rootDir),
		findcfg.UserConfigDir(userConfigFolder),
		findcfg.ExecutableDir(),
	)
	if found := finder.Find(); found != nil {
		return filepath.Abs(found.Path)
	}

	return "", nil
}

// setDefaults sets all default values in viper.
func (l *Loader) setDefaults(cfg *Config) {
	l.v.SetDefault("extends", cfg.Extends)

	// Lint defaults
	l.v.SetDefault("lint.default_ignores", cfg.Lint.DefaultIgnores)
	l.v.SetDefault("lint.ignores", []string{})
	l.v.SetDefault("lint.concurrency", cfg.Lint.Concurrency)
	l.v.SetDefault("lint.help_url", cfg.Lint.HelpURL)

	// Output defaults
	l.v.SetDefault("output.format", cfg.Output.Format)
	l.v.SetDefault("output.file", cfg.Output.File)
	l.v.SetDefault("output.color", cfg.Output.Color)
	l.v.SetDefault("output.verbose", cfg.Output.Verbose)
	l.v.SetDefault("output.quiet", cfg.Output.Quiet)

	// Git defaults
	l.v.SetDefault("git.repo_path", cfg.Git.RepoPath)
	l.v.SetDefault("git.no_merges", cfg.Git.NoMerges)
}

// ConfigFileUsed returns the path of the config file used, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for flag binding.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// LoadFromFile loads configuration from a specific file.
func LoadFromFile(path string) (*Config, error) {
	loader := NewLoader()
	loader.SetConfigFile(path)
	return loader.Load()
}

// DefaultPath is where init writes a config when no path is given: the
// repository root if one is known, else dir.
func DefaultPath(repo git.Repository, dir string) string {
	if repo != nil && repo.Root() != "" {
		dir = repo.Root()
	}
	return filepath.Join(dir, configFileName)
}
