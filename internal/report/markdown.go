package report

import (
	"fmt"
	"io"

	"github.com/JNZader/commitlint/internal/lint"
	"github.com/JNZader/commitlint/internal/rules"
)

// MarkdownReporter generates Markdown reports.
type MarkdownReporter struct {
	Verbose bool
}

func (r *MarkdownReporter) Format() string { return "markdown" }

func (r *MarkdownReporter) Generate(report *lint.Report) (string, error) {
	return generate(r, report)
}

func (r *MarkdownReporter) Write(report *lint.Report, w io.Writer) error {
	// Header
	fmt.Fprintf(w, "# Commit Lint Report\n\n")

	// Summary
	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "- **Messages Checked:** %d\n", len(report.Outcomes))
	fmt.Fprintf(w, "- **Errors:** %d\n", report.Errors())
	fmt.Fprintf(w, "- **Warnings:** %d\n", report.Warnings())
	if n := report.Ignored(); n > 0 {
		fmt.Fprintf(w, "- **Ignored:** %d\n", n)
	}
	if report.Duration > 0 {
		fmt.Fprintf(w, "- **Duration:** %s\n", report.Duration)
	}
	fmt.Fprintf(w, "\n")

	if report.Problems() == 0 && len(report.Failures()) == 0 && !r.Verbose {
		fmt.Fprintf(w, "No problems found.\n")
		return nil
	}

	// Problems by message
	fmt.Fprintf(w, "## Messages\n\n")

	for _, o := range report.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "### %s\n\n", sourceOr(o, "input"))
			fmt.Fprintf(w, "Error: %v\n\n", o.Err)
			continue
		}

		if len(o.Violations) == 0 && !r.Verbose {
			continue
		}

		if l := label(o); l != "" {
			fmt.Fprintf(w, "### `%s` %s\n\n", l, o.Header)
		} else {
			fmt.Fprintf(w, "### %s\n\n", o.Header)
		}

		if o.Ignored {
			fmt.Fprintf(w, "_Ignored_\n\n")
			continue
		}
		if len(o.Violations) == 0 {
			fmt.Fprintf(w, "Passed.\n\n")
			continue
		}

		for _, v := range o.Violations {
			fmt.Fprintf(w, "- %s **%s**: %s\n", r.severityIcon(v.Severity), v.Rule, v.Message)
		}
		fmt.Fprintf(w, "\n")
	}

	if report.HelpURL != "" {
		fmt.Fprintf(w, "---\n\nGet help: %s\n", report.HelpURL)
	}

	return nil
}

func (r *MarkdownReporter) severityIcon(severity rules.Severity) string {
	switch severity {
	case rules.SeverityError:
		return "[ERROR]"
	case rules.SeverityWarning:
		return "[WARNING]"
	default:
		return "[INFO]"
	}
}
