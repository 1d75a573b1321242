// Package commands contains all CLI commands for commitlint.
//
// This package uses the Cobra library for CLI management.
// Each command is defined in its own file and registered in init().
package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JNZader/commitlint/internal/config"
	"github.com/JNZader/commitlint/internal/git"
	"github.com/JNZader/commitlint/internal/logger"
)

// skipConfigAnnotation marks commands that run without loading configuration.
const skipConfigAnnotation = "commitlint/skip-config"

var (
	// cfgFile holds the path to the config file (from --config flag)
	cfgFile string

	// verbose enables detailed output
	verbose bool

	// quiet suppresses all output except errors
	quiet bool

	// logLevel overrides the level implied by verbose/quiet
	logLevel string
)

// Set by PersistentPreRunE for the running command.
var (
	appConfig *config.Config
	appRepo   *git.Repo // nil outside a git repository
	log       = logger.Default()
)

// flagBindings maps command flags to the config keys they override.
var flagBindings = map[string]string{
	"verbose":     "output.verbose",
	"quiet":       "output.quiet",
	"format":      "output.format",
	"output":      "output.file",
	"concurrency": "lint.concurrency",
	"no-merges":   "git.no_merges",
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "commitlint",
	Short: "Lint commit messages against conventional rules",
	Long: `commitlint checks commit messages against a configurable set of rules.

Rules come from built-in presets, local files or HTTPS URLs listed under
"extends" in .commitlint.yaml, with per-rule overrides under "rules".

Examples:
  # Lint the message being committed (commit-msg hook)
  commitlint lint --edit

  # Lint a message from stdin
  echo "Feat: Add widget" | commitlint lint

  # Lint every commit on a branch
  commitlint lint --from main --to HEAD

  # Build a message from fields
  commitlint build --type Feat --subject "Add widget"

  # Show the effective rules
  commitlint rules`,

	// SilenceUsage prevents printing usage on errors
	// We want clean error messages, not the full help text
	SilenceUsage: true,

	// SilenceErrors lets main map errors to exit codes
	SilenceErrors: true,

	// PersistentPreRunE runs before any command (including subcommands)
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

// ExecuteContext runs the root command with ctx, which commands pass to
// blocking operations.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Persistent flags are available to this command and all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .commitlint.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// initializeConfig sets up logging, opens the repository and loads the
// configuration from file, environment and flags.
func initializeConfig(cmd *cobra.Command) error {
	if err := setupLogger(cmd); err != nil {
		return failure(err)
	}

	appRepo = nil
	repo, err := git.NewRepo(".")
	switch {
	case err == nil:
		appRepo = repo
		log.Debug("repository root: %s", repo.Root())
	case errors.Is(err, git.ErrNotRepository):
		log.Debug("not inside a git repository")
	default:
		log.Warn("failed to open repository: %v", err)
	}

	if cmd.Annotations[skipConfigAnnotation] != "" {
		return nil
	}

	loader := config.NewLoader()
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}
	if appRepo != nil {
		loader.SetRepository(appRepo)
	}
	bindFlags(cmd, loader)

	cfg, err := loader.Load()
	if err != nil {
		return failure(fmt.Errorf("failed to load config: %w", err))
	}
	appConfig = cfg

	if used := cfg.File(); used != "" {
		log.Info("using config file: %s", used)
	}

	if cfg.Git.RepoPath != "" && cfg.Git.RepoPath != "." {
		repo, err := git.NewRepo(cfg.Git.RepoPath)
		if err != nil {
			return failure(fmt.Errorf("git.repo_path: %w", err))
		}
		appRepo = repo
	}

	return nil
}

func setupLogger(cmd *cobra.Command) error {
	level := logger.LevelWarn
	switch {
	case logLevel != "":
		l, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		level = l
	case quiet:
		level = logger.LevelError
	case verbose:
		level = logger.LevelDebug
	}

	log = logger.New(level, cmd.ErrOrStderr()).WithPrefix("CLI")
	return nil
}

// bindFlags lets explicitly set flags override config and environment.
func bindFlags(cmd *cobra.Command, loader *config.Loader) {
	v := loader.GetViper()
	for name, key := range flagBindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			_ = v.BindPFlag(key, f)
		}
	}
}

// isVerbose returns true if verbose mode is enabled
func isVerbose() bool {
	if appConfig != nil {
		return appConfig.Output.Verbose && !appConfig.Output.Quiet
	}
	return verbose && !quiet
}

// isQuiet returns true if quiet mode is enabled
func isQuiet() bool {
	if appConfig != nil {
		return appConfig.Output.Quiet
	}
	return quiet
}

// requireRepo returns the repository or an error naming what needed it.
func requireRepo(what string) (*git.Repo, error) {
	if appRepo == nil {
		return nil, fmt.Errorf("%s: %w", what, git.ErrNotRepository)
	}
	return appRepo, nil
}
