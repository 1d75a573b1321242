package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/JNZader/commitlint/internal/lint"
	"github.com/JNZader/commitlint/internal/rules"
)

const (
	inputMark   = "⧗"
	errorMark   = "✖"
	warningMark = "⚠"
	passMark    = "✔"
	infoMark    = "ⓘ"
)

// TextReporter writes the terminal report.
type TextReporter struct {
	verbose bool

	errorColor *color.Color
	warnColor  *color.Color
	passColor  *color.Color
	dimColor   *color.Color
	boldColor  *color.Color
}

// NewTextReporter creates a text reporter.
func NewTextReporter(opts Options) *TextReporter {
	r := &TextReporter{
		verbose:    opts.Verbose,
		errorColor: color.New(color.FgRed),
		warnColor:  color.New(color.FgYellow),
		passColor:  color.New(color.FgGreen),
		dimColor:   color.New(color.FgHiBlack),
		boldColor:  color.New(color.Bold),
	}
	if !opts.Color {
		for _, c := range []*color.Color{r.errorColor, r.warnColor, r.passColor, r.dimColor, r.boldColor} {
			c.DisableColor()
		}
	}
	return r
}

func (r *TextReporter) Format() string { return "text" }

func (r *TextReporter) Generate(report *lint.Report) (string, error) {
	return generate(r, report)
}

func (r *TextReporter) Write(report *lint.Report, w io.Writer) error {
	for _, o := range report.Outcomes {
		if err := r.writeOutcome(w, o); err != nil {
			return err
		}
	}

	problems := report.Problems() + len(report.Failures())
	if problems == 0 && !r.verbose {
		return nil
	}

	mark := r.passColor.Sprint(passMark)
	switch {
	case report.Errors() > 0 || len(report.Failures()) > 0:
		mark = r.errorColor.Sprint(errorMark)
	case report.Warnings() > 0:
		mark = r.warnColor.Sprint(warningMark)
	}

	if _, err := fmt.Fprintf(w, "%s   found %d problems, %d warnings\n",
		mark, report.Errors()+len(report.Failures()), report.Warnings()); err != nil {
		return err
	}

	if problems > 0 && report.HelpURL != "" {
		_, err := fmt.Fprintf(w, "%s   Get help: %s\n", r.dimColor.Sprint(infoMark), report.HelpURL)
		return err
	}
	return nil
}

func (r *TextReporter) writeOutcome(w io.Writer, o *lint.Outcome) error {
	if o.Err != nil {
		_, err := fmt.Fprintf(w, "%s   %s: %v\n\n", r.errorColor.Sprint(errorMark), sourceOr(o, "input"), o.Err)
		return err
	}

	if len(o.Violations) == 0 && !r.verbose {
		return nil
	}

	input := "input"
	if l := label(o); l != "" {
		input = fmt.Sprintf("input (%s)", l)
	}
	if _, err := fmt.Fprintf(w, "%s   %s: %s\n", r.dimColor.Sprint(inputMark), input, r.boldColor.Sprint(o.Header)); err != nil {
		return err
	}

	if o.Ignored {
		_, err := fmt.Fprintf(w, "%s   ignored\n\n", r.dimColor.Sprint(infoMark))
		return err
	}

	for _, v := range o.Violations {
		mark := r.warnColor.Sprint(warningMark)
		if v.Severity == rules.SeverityError {
			mark = r.errorColor.Sprint(errorMark)
		}
		if _, err := fmt.Fprintf(w, "%s   %s %s\n", mark, v.Message, r.dimColor.Sprintf("[%s]", v.Rule)); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

func sourceOr(o *lint.Outcome, fallback string) string {
	if l := label(o); l != "" {
		return l
	}
	return fallback
}
