package lint

import (
	"time"
)

// Exit codes of the lint command.
const (
	ExitOK       = 0
	ExitErrors   = 1 // at least one error-level violation
	ExitWarnings = 2 // warnings only, in strict mode
	ExitFailure  = 9 // unreadable input, parse or configuration failure
)

// Report aggregates the outcomes of one lint run.
type Report struct {
	Outcomes []*Outcome    `json:"results" yaml:"results"`
	HelpURL  string        `json:"help_url,omitempty" yaml:"help_url,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// NewReport creates a report over outcomes.
func NewReport(outcomes []*Outcome, helpURL string) *Report {
	if outcomes == nil {
		outcomes = []*Outcome{}
	}
	return &Report{Outcomes: outcomes, HelpURL: helpURL}
}

// Errors counts error-level violations across all outcomes.
func (r *Report) Errors() int {
	n := 0
	for _, o := range r.Outcomes {
		n += o.Errors()
	}
	return n
}

// Warnings counts warning-level violations across all outcomes.
func (r *Report) Warnings() int {
	n := 0
	for _, o := range r.Outcomes {
		n += o.Warnings()
	}
	return n
}

// Problems is Errors plus Warnings.
func (r *Report) Problems() int {
	return r.Errors() + r.Warnings()
}

// Ignored counts outcomes skipped by ignore patterns.
func (r *Report) Ignored() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Ignored {
			n++
		}
	}
	return n
}

// Failures returns outcomes whose message could not be parsed.
func (r *Report) Failures() []*Outcome {
	var out []*Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Passed reports whether every message parsed and has no error violation.
func (r *Report) Passed() bool {
	for _, o := range r.Outcomes {
		if o.Err != nil || !o.Passed {
			return false
		}
	}
	return true
}

// ExitCode maps the report to a process exit code. In strict mode
// warnings alone fail the run.
func (r *Report) ExitCode(strict bool) int {
	switch {
	case len(r.Failures()) > 0:
		return ExitFailure
	case r.Errors() > 0:
		return ExitErrors
	case strict && r.Warnings() > 0:
		return ExitWarnings
	default:
		return ExitOK
	}
}
