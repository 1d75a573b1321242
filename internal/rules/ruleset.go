package rules

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/shu-go/orderedmap"

	"github.com/JNZader/commitlint/internal/commit"
	"github.com/JNZader/commitlint/internal/textcase"
)

// NewRule builds a rule and parses its failure message template.
func NewRule(name string, sev Severity, cond Condition, field Field, param any, pred func(*commit.Message) bool, failure string) (Rule, error) {
	if cond == "" {
		cond = Always
	}
	tmpl, err := template.New(name).Option("missingkey=zero").Parse(failure)
	if err != nil {
		return Rule{}, &ConfigError{Rule: name, Err: fmt.Errorf("%w: message template: %v", ErrInvalidValue, err)}
	}
	return Rule{
		Name:           name,
		Severity:       sev,
		Condition:      cond,
		AppliesTo:      field,
		Param:          param,
		Predicate:      pred,
		FailureMessage: failure,
		tmpl:           tmpl,
	}, nil
}

// Render returns the failure message for msg.
func (r Rule) Render(msg *commit.Message) string {
	value := r.AppliesTo.Value(msg)
	data := MessageData{
		Name:   r.Name,
		Never:  r.Condition == Never,
		Param:  formatParam(r.Param),
		Value:  value,
		Length: longestLine(value),
	}

	tmpl := r.tmpl
	if tmpl == nil {
		var err error
		if tmpl, err = template.New(r.Name).Parse(r.FailureMessage); err != nil {
			return r.FailureMessage
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return r.FailureMessage
	}
	return buf.String()
}

// Evaluate runs rule against msg. Evaluation never fails; a rule without a
// predicate passes.
func Evaluate(rule Rule, msg *commit.Message) Outcome {
	out := Outcome{Rule: rule.Name, Severity: rule.Severity, Passed: true}
	if rule.Predicate == nil || rule.Predicate(msg) {
		return out
	}
	out.Passed = false
	out.Message = rule.Render(msg)
	return out
}

func formatParam(p any) string {
	switch v := p.(type) {
	case nil:
		return ""
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	case []textcase.Style:
		names := make([]string, len(v))
		for i, s := range v {
			names[i] = string(s)
		}
		if len(names) == 1 {
			return names[0]
		}
		return "one of [" + strings.Join(names, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}

func longestLine(s string) int {
	longest := 0
	for _, line := range strings.Split(s, "\n") {
		if n := utf8.RuneCountInString(line); n > longest {
			longest = n
		}
	}
	return longest
}

// RuleSet is an ordered collection of rules keyed by name. It is not
// modified after construction and may be shared between goroutines.
type RuleSet struct {
	rules *orderedmap.OrderedMap[string, Rule]
}

// NewRuleSet builds a set in the given order. Duplicate names are rejected.
func NewRuleSet(rules ...Rule) (*RuleSet, error) {
	om := orderedmap.New[string, Rule]()
	for _, r := range rules {
		if r.Name == "" {
			return nil, &ConfigError{Err: fmt.Errorf("%w: empty rule name", ErrInvalidValue)}
		}
		if _, found := om.Get(r.Name); found {
			return nil, &ConfigError{Rule: r.Name, Err: ErrDuplicateRule}
		}
		om.Set(r.Name, r)
	}
	return &RuleSet{rules: om}, nil
}

// Get returns the rule with the given name.
func (rs *RuleSet) Get(name string) (Rule, bool) {
	if rs == nil || rs.rules == nil {
		return Rule{}, false
	}
	return rs.rules.Get(name)
}

// Names returns rule names in set order.
func (rs *RuleSet) Names() []string {
	if rs == nil || rs.rules == nil {
		return nil
	}
	return rs.rules.Keys()
}

// Rules returns a copy of the rules in set order.
func (rs *RuleSet) Rules() []Rule {
	names := rs.Names()
	out := make([]Rule, 0, len(names))
	for _, name := range names {
		r, _ := rs.rules.Get(name)
		out = append(out, r)
	}
	return out
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.Names())
}
