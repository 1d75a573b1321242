package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JNZader/commitlint/internal/git"
	"github.com/JNZader/commitlint/internal/lint"
	"github.com/JNZader/commitlint/internal/report"
	"github.com/JNZader/commitlint/internal/rules"
)

// editFromRepo is the --edit value used when the flag has no argument.
const editFromRepo = "COMMIT_EDITMSG"

var lintCmd = &cobra.Command{
	Use:   "lint [file...]",
	Short: "Lint commit messages",
	Long: `Lint one or more commit messages.

The message is read from the given files, from --message, from the
repository's COMMIT_EDITMSG with --edit, from a --from/--to commit range,
or from stdin when nothing else is given.

Exit codes:
  0  all messages pass
  1  at least one error-level violation
  2  warnings only, with --strict
  9  unreadable input, parse or configuration failure

Examples:
  # commit-msg hook
  commitlint lint --edit "$1"

  # Lint stdin
  git log -1 --format=%B | commitlint lint

  # Lint a branch and write SARIF for code scanning
  commitlint lint --from origin/main --output commitlint.sarif`,
	RunE: runLint,
}

var (
	lintEdit     string
	lintMessage  string
	lintFrom     string
	lintTo       string
	lintStrict   bool
	lintNoColor  bool
	lintLimit    int
	lintRuleList []string
)

func init() {
	rootCmd.AddCommand(lintCmd)

	// Input flags
	lintCmd.Flags().StringVarP(&lintEdit, "edit", "e", "", "read the message from a file, default .git/COMMIT_EDITMSG")
	lintCmd.Flags().Lookup("edit").NoOptDefVal = editFromRepo
	lintCmd.Flags().StringVarP(&lintMessage, "message", "m", "", "lint this message")
	lintCmd.Flags().StringVar(&lintFrom, "from", "", "lower end of the commit range (exclusive)")
	lintCmd.Flags().StringVar(&lintTo, "to", "", "upper end of the commit range (default HEAD)")
	lintCmd.Flags().IntVar(&lintLimit, "limit", 0, "maximum number of commits to lint from a range")
	lintCmd.Flags().Bool("no-merges", false, "skip merge commits in a range")

	// Rule flags
	lintCmd.Flags().StringSliceVar(&lintRuleList, "rule", nil, "only evaluate these rules")

	// Output flags
	lintCmd.Flags().StringP("format", "f", "", "output format: text, json, markdown, sarif")
	lintCmd.Flags().StringP("output", "o", "", "write the report to a file")
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "exit 2 when there are warnings but no errors")
	lintCmd.Flags().BoolVar(&lintNoColor, "no-color", false, "disable colored output")
	lintCmd.Flags().Int("concurrency", 0, "parallel workers for ranges (0 = GOMAXPROCS)")
}

func runLint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()
	log.Debug("commitlint %s", GetVersionInfo().Release())

	linter, err := newLinter(ctx)
	if err != nil {
		return failure(err)
	}

	outcomes, err := lintSources(ctx, cmd, linter, args)
	if err != nil {
		return failure(err)
	}

	rep := lint.NewReport(outcomes, appConfig.Lint.HelpURL)
	rep.Duration = time.Since(start)
	log.Debug("linted %d messages in %s", len(outcomes), rep.Duration)

	if err := writeReport(cmd, rep); err != nil {
		return failure(err)
	}

	if code := rep.ExitCode(lintStrict); code != lint.ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}

// newLinter builds the linter from the loaded configuration.
func newLinter(ctx context.Context) (*lint.Linter, error) {
	rs, err := appConfig.RuleSet(ctx)
	if err != nil {
		return nil, err
	}

	if len(lintRuleList) > 0 {
		selected := rules.Select(rs, lintRuleList)
		if len(selected) == 0 {
			return nil, fmt.Errorf("--rule %s: %w", strings.Join(lintRuleList, ","), rules.ErrUnknownRule)
		}
		if rs, err = rules.NewRuleSet(selected...); err != nil {
			return nil, err
		}
	}
	log.Debug("%d rules loaded, %d enabled", rs.Len(), len(rules.Enabled(rs)))

	return lint.New(rs, lint.Options{
		DefaultIgnores: appConfig.Lint.DefaultIgnores,
		Ignores:        appConfig.Lint.Ignores,
		Concurrency:    appConfig.Lint.Concurrency,
		Logger:         log,
	})
}

func lintSources(ctx context.Context, cmd *cobra.Command, linter *lint.Linter, args []string) ([]*lint.Outcome, error) {
	if lintFrom != "" || lintTo != "" {
		if lintEdit != "" || lintMessage != "" || len(args) > 0 {
			return nil, fmt.Errorf("--from/--to cannot be combined with other inputs")
		}
		return lintRange(ctx, linter)
	}

	inputs, err := readInputs(cmd, args)
	if err != nil {
		return nil, err
	}
	return linter.LintAll(ctx, inputs)
}

func lintRange(ctx context.Context, linter *lint.Linter) ([]*lint.Outcome, error) {
	repo, err := requireRepo("--from/--to")
	if err != nil {
		return nil, err
	}

	commits, err := repo.Commits(ctx, git.RangeOptions{
		From:     lintFrom,
		To:       lintTo,
		NoMerges: appConfig.Git.NoMerges,
		Limit:    lintLimit,
	})
	if err != nil {
		return nil, err
	}
	log.Info("linting %d commits", len(commits))

	items := make([]lint.Commit, len(commits))
	for i, c := range commits {
		items[i] = lint.Commit{Hash: c.Hash, Message: c.Message}
	}
	return linter.LintCommits(ctx, items)
}

// readInputs collects messages from --message, --edit, file arguments or
// stdin, in that order.
func readInputs(cmd *cobra.Command, args []string) ([]lint.Input, error) {
	var inputs []lint.Input

	if cmd.Flags().Changed("message") {
		inputs = append(inputs, lint.Input{Source: "message", Raw: lintMessage})
	}

	switch {
	case lintEdit == editFromRepo && len(args) > 0:
		// "--edit path" parses as a bare --edit followed by an argument
	case lintEdit == editFromRepo:
		repo, err := requireRepo("--edit")
		if err != nil {
			return nil, err
		}
		args = []string{repo.EditMessagePath()}
	case lintEdit != "":
		args = append([]string{lintEdit}, args...)
	}

	for _, path := range args {
		if path == "-" {
			in, err := readStdin(cmd.InOrStdin())
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, in)
			continue
		}
		data, err := os.ReadFile(path) //nolint:gosec // user-supplied path
		if err != nil {
			return nil, fmt.Errorf("reading message: %w", err)
		}
		inputs = append(inputs, lint.Input{Source: path, Raw: string(data)})
	}

	if len(inputs) == 0 {
		in, err := readStdin(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}

	return inputs, nil
}

func readStdin(r io.Reader) (lint.Input, error) {
	if f, ok := r.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return lint.Input{}, fmt.Errorf("no message given: pipe one on stdin, pass a file, --message or --edit")
		}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return lint.Input{}, fmt.Errorf("reading stdin: %w", err)
	}
	return lint.Input{Source: "stdin", Raw: string(data)}, nil
}

// writeReport renders rep in the configured format. Quiet mode suppresses
// passing reports.
func writeReport(cmd *cobra.Command, rep *lint.Report) error {
	outputPath := appConfig.Output.File
	format := appConfig.Output.Format
	if !cmd.Flags().Changed("format") && outputPath != "" {
		if f := DetectFormatFromPath(outputPath); f != "" {
			format = f
		}
	}

	if isQuiet() && rep.Passed() && rep.Warnings() == 0 && outputPath == "" {
		return nil
	}

	reporter, err := report.NewReporter(format, report.Options{
		Color:   appConfig.Output.Color && !lintNoColor && outputPath == "",
		Verbose: isVerbose(),
		Version: GetVersionInfo().Release(),
	})
	if err != nil {
		return err
	}

	if outputPath == "" {
		return reporter.Write(rep, cmd.OutOrStdout())
	}

	content, err := reporter.Generate(rep)
	if err != nil {
		return fmt.Errorf("generating report: %w", err)
	}
	return WriteOutput(content, outputPath, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
