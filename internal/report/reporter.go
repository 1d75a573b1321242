// Package report renders lint reports as text, JSON, Markdown or SARIF.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/JNZader/commitlint/internal/lint"
)

// Reporter defines the interface for generating lint reports.
type Reporter interface {
	// Generate creates a report from lint results.
	Generate(report *lint.Report) (string, error)

	// Write writes the report to a writer.
	Write(report *lint.Report, w io.Writer) error

	// Format returns the format name.
	Format() string
}

// Options tune reporters. Formats ignore the options that do not apply.
type Options struct {
	// Color enables ANSI colors in text output.
	Color bool
	// Verbose also prints passing and ignored messages.
	Verbose bool
	// Version is the tool version recorded in SARIF output.
	Version string
}

// NewReporter creates a reporter for the given format.
func NewReporter(format string, opts Options) (Reporter, error) {
	switch strings.ToLower(format) {
	case "text", "":
		return NewTextReporter(opts), nil
	case "markdown", "md":
		return &MarkdownReporter{Verbose: opts.Verbose}, nil
	case "json":
		return &JSONReporter{Indent: true}, nil
	case "sarif":
		return &SARIFReporter{Version: opts.Version}, nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// AvailableFormats returns the list of supported formats.
func AvailableFormats() []string {
	return []string{"text", "json", "markdown", "sarif"}
}

func generate(r Reporter, report *lint.Report) (string, error) {
	var sb strings.Builder
	if err := r.Write(report, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// label names an outcome for humans: the source, shortened when it is a
// commit hash.
func label(o *lint.Outcome) string {
	s := o.Source
	if len(s) == 40 && isHex(s) {
		return s[:7]
	}
	return s
}

func isHex(s string) bool {
	for _, c := range s {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}
