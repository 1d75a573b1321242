// Package lint applies rule sets to parsed commit messages.
package lint

import (
	"github.com/JNZader/commitlint/internal/commit"
	"github.com/JNZader/commitlint/internal/rules"
)

// Violation is a failed rule.
type Violation struct {
	Rule     string         `json:"rule" yaml:"rule"`
	Severity rules.Severity `json:"severity" yaml:"severity"`
	Message  string         `json:"message" yaml:"message"`
}

// Result is the outcome of validating one message. Passed is false exactly
// when at least one violation has error severity.
type Result struct {
	Passed     bool        `json:"passed" yaml:"passed"`
	Violations []Violation `json:"violations" yaml:"violations"`
}

// Errors returns the number of error-level violations.
func (r Result) Errors() int {
	return r.count(rules.SeverityError)
}

// Warnings returns the number of warning-level violations.
func (r Result) Warnings() int {
	return r.count(rules.SeverityWarning)
}

func (r Result) count(sev rules.Severity) int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity == sev {
			n++
		}
	}
	return n
}

// Validate evaluates every enabled rule of rs against msg in set order.
// It has no side effects; msg and rs are only read.
func Validate(msg *commit.Message, rs *rules.RuleSet) Result {
	res := Result{Passed: true, Violations: []Violation{}}

	for _, r := range rs.Rules() {
		if r.Severity == rules.SeverityOff {
			continue
		}
		out := rules.Evaluate(r, msg)
		if out.Passed {
			continue
		}
		res.Violations = append(res.Violations, Violation{
			Rule:     out.Rule,
			Severity: out.Severity,
			Message:  out.Message,
		})
		if out.Severity == rules.SeverityError {
			res.Passed = false
		}
	}

	return res
}
