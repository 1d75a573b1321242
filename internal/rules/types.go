// Package rules defines commit message rules and the ordered rule sets they
// are grouped into.
package rules

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/spf13/cast"

	"github.com/JNZader/commitlint/internal/commit"
)

// Severity indicates rule importance. The numeric values match the levels
// used in commitlint configuration files.
type Severity int

const (
	SeverityOff Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOff:
		return "off"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts a level number or name.
func (s *Severity) UnmarshalText(text []byte) error {
	sev, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

// ParseSeverity converts a configuration level (0, 1, 2, "off", "warn",
// "warning", "error") into a Severity.
func ParseSeverity(v any) (Severity, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "off", "disabled":
			return SeverityOff, nil
		case "warn", "warning":
			return SeverityWarning, nil
		case "error":
			return SeverityError, nil
		}
	}

	n, err := cast.ToIntE(v)
	if err != nil || n < int(SeverityOff) || n > int(SeverityError) {
		return SeverityOff, fmt.Errorf("%w: %v (want 0, 1, 2, off, warning or error)", ErrInvalidLevel, v)
	}
	return Severity(n), nil
}

// Condition says whether a rule's assertion must hold ("always") or must
// not hold ("never").
type Condition string

const (
	Always Condition = "always"
	Never  Condition = "never"
)

// ParseCondition validates a condition string. Empty means "use the rule
// default" and is returned unchanged.
func ParseCondition(s string) (Condition, error) {
	switch c := Condition(strings.ToLower(strings.TrimSpace(s))); c {
	case "", Always, Never:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q (want always or never)", ErrInvalidCondition, s)
	}
}

// Field selects the part of a message a rule inspects.
type Field string

const (
	FieldHeader     Field = "header"
	FieldType       Field = "type"
	FieldScope      Field = "scope"
	FieldSubject    Field = "subject"
	FieldBody       Field = "body"
	FieldFooter     Field = "footer"
	FieldReferences Field = "references"
)

// Value returns the selected field of msg.
func (f Field) Value(msg *commit.Message) string {
	switch f {
	case FieldHeader:
		return msg.Header
	case FieldType:
		return msg.Type
	case FieldScope:
		return msg.Scope
	case FieldSubject:
		return msg.Subject
	case FieldBody:
		return msg.Body
	case FieldFooter:
		return msg.Footer
	case FieldReferences:
		return strings.Join(msg.IssueRefs, ", ")
	default:
		return ""
	}
}

// Rule is a single named check. Predicate reports true when the message
// passes; it is pure and safe for concurrent use.
type Rule struct {
	Name      string    `yaml:"name" json:"name"`
	Severity  Severity  `yaml:"severity" json:"severity"`
	Condition Condition `yaml:"condition" json:"condition"`
	AppliesTo Field     `yaml:"applies_to" json:"applies_to"`

	// Param is the configured rule value (length, list, style, character),
	// nil for rules without one.
	Param any `yaml:"param,omitempty" json:"param,omitempty"`

	Predicate func(*commit.Message) bool `yaml:"-" json:"-"`

	// FailureMessage is a text/template rendered with MessageData.
	FailureMessage string `yaml:"message" json:"message"`

	tmpl *template.Template
}

// MessageData is the template context for Rule.FailureMessage.
type MessageData struct {
	Name   string
	Never  bool
	Param  string
	Value  string
	Length int // longest line of Value, in runes
}

// Outcome is the result of evaluating one rule against one message.
type Outcome struct {
	Rule     string   `json:"rule" yaml:"rule"`
	Severity Severity `json:"severity" yaml:"severity"`
	Passed   bool     `json:"passed" yaml:"passed"`
	Message  string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// Entry is one rule's configuration: level, condition and value, written
// in files as a tuple such as [2, always, 100].
type Entry struct {
	Level Severity  `yaml:"level" json:"level"`
	When  Condition `yaml:"when,omitempty" json:"when,omitempty"`
	Value any       `yaml:"value,omitempty" json:"value,omitempty"`
}

// Tuple returns the entry in commitlint tuple form.
func (e Entry) Tuple() []any {
	t := []any{int(e.Level)}
	if e.When != "" || e.Value != nil {
		when := e.When
		if when == "" {
			when = Always
		}
		t = append(t, string(when))
	}
	if e.Value != nil {
		t = append(t, e.Value)
	}
	return t
}
