package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JNZader/commitlint/internal/commit"
	"github.com/JNZader/commitlint/internal/lint"
	"github.com/JNZader/commitlint/internal/prompt"
	"github.com/JNZader/commitlint/internal/report"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a commit message from fields",
	Long: `Assemble a commit message from its fields, lint it and print it.

The type is matched case-insensitively against the prompt type table, so
"feat" becomes "Feat" with the default table. With --emoji the type's emoji
is placed in front of the subject.

Examples:
  # Print a message
  commitlint build --type feat --scope api --subject "Add endpoint"

  # Breaking change with an issue reference
  commitlint build -t Fix -s "Drop v1 routes" --breaking "v1 is gone" --issue "Closes #12"

  # Use it directly
  git commit -m "$(commitlint build -t Docs -s "Update guide")"`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var (
	buildType     string
	buildScope    string
	buildSubject  string
	buildBody     string
	buildBreaking string
	buildBang     bool
	buildIssues   []string
	buildEmoji    bool
	buildNoLint   bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildType, "type", "t", "", "commit type (Feat, Fix, Docs, ...)")
	buildCmd.Flags().StringVar(&buildScope, "scope", "", "commit scope")
	buildCmd.Flags().StringVarP(&buildSubject, "subject", "s", "", "short description")
	buildCmd.Flags().StringVarP(&buildBody, "body", "b", "", "longer description")
	buildCmd.Flags().StringVar(&buildBreaking, "breaking", "", "describe a breaking change")
	buildCmd.Flags().BoolVar(&buildBang, "bang", false, `mark the header with "!"`)
	buildCmd.Flags().StringArrayVar(&buildIssues, "issue", nil, `footer reference such as "Closes #12" (repeatable)`)
	buildCmd.Flags().BoolVar(&buildEmoji, "emoji", false, "prefix the subject with the type's emoji")
	buildCmd.Flags().BoolVar(&buildNoLint, "no-lint", false, "print the message without linting it")

	_ = buildCmd.MarkFlagRequired("subject")
}

func runBuild(cmd *cobra.Command, args []string) error {
	meta, err := prompt.Load(appConfig.File())
	if err != nil {
		return failure(fmt.Errorf("failed to load prompt metadata: %w", err))
	}

	parts := buildParts(meta)
	message := parts.String()

	if buildNoLint {
		fmt.Fprintln(cmd.OutOrStdout(), message)
		return nil
	}

	linter, err := newLinter(cmd.Context())
	if err != nil {
		return failure(err)
	}
	out, err := linter.LintInput(lint.Input{Source: "build", Raw: message})
	if err != nil {
		return failure(err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), message)

	rep := lint.NewReport([]*lint.Outcome{out}, appConfig.Lint.HelpURL)
	if rep.Problems() > 0 {
		reporter := report.NewTextReporter(report.Options{Color: appConfig.Output.Color, Verbose: isVerbose()})
		if err := reporter.Write(rep, cmd.ErrOrStderr()); err != nil {
			return failure(err)
		}
	}

	if code := rep.ExitCode(false); code != lint.ExitOK {
		return &ExitError{Code: code}
	}
	return nil
}

// buildParts maps the flags onto commit.Parts, canonicalizing the type
// through the prompt table.
func buildParts(meta *prompt.Metadata) *commit.Parts {
	p := &commit.Parts{
		Type:     buildType,
		Scope:    buildScope,
		Subject:  buildSubject,
		Body:     buildBody,
		Breaking: buildBreaking,
		Bang:     buildBang,
		Issues:   buildIssues,
	}

	if name, _, ok := meta.Type(buildType); ok {
		p.Type = name
		if buildEmoji {
			p.Emoji = meta.Emoji(name)
		}
	} else if buildType != "" {
		log.Warn("type %q is not in the prompt type table", buildType)
	}

	return p
}
