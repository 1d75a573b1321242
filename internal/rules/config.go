package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/JNZader/commitlint/internal/textcase"
)

// ParseEntry decodes one rule configuration value. Accepted shapes:
//
//	[2, always, 100]                      tuple
//	{level: 2, when: always, value: 100}  map
//	2 / "error"                           level only
func ParseEntry(raw any) (Entry, error) {
	switch v := raw.(type) {
	case nil:
		return Entry{}, fmt.Errorf("%w: missing level", ErrInvalidLevel)
	case Entry:
		return v, nil
	case []any:
		return entryFromTuple(v)
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return entryFromTuple(items)
	case map[string]any, map[any]any:
		m, err := cast.ToStringMapE(v)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return entryFromMap(m)
	default:
		level, err := ParseSeverity(v)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Level: level}, nil
	}
}

func entryFromTuple(items []any) (Entry, error) {
	if len(items) == 0 || len(items) > 3 {
		return Entry{}, fmt.Errorf("%w: want [level, when, value], got %d items", ErrInvalidValue, len(items))
	}

	var e Entry
	var err error
	if e.Level, err = ParseSeverity(items[0]); err != nil {
		return Entry{}, err
	}
	if len(items) > 1 {
		when, err := cast.ToStringE(items[1])
		if err != nil {
			return Entry{}, fmt.Errorf("%w: %v", ErrInvalidCondition, items[1])
		}
		if e.When, err = ParseCondition(when); err != nil {
			return Entry{}, err
		}
	}
	if len(items) > 2 {
		e.Value = items[2]
	}
	return e, nil
}

func entryFromMap(m map[string]any) (Entry, error) {
	var e Entry
	var err error
	if e.Level, err = ParseSeverity(m["level"]); err != nil {
		return Entry{}, err
	}
	when := m["when"]
	if when == nil {
		when = m["condition"]
	}
	if when != nil {
		if e.When, err = ParseCondition(cast.ToString(when)); err != nil {
			return Entry{}, err
		}
	}
	e.Value = m["value"]
	return e, nil
}

// Build creates the named built-in rule from a configuration entry.
func Build(name string, e Entry) (Rule, error) {
	def, ok := Lookup(name)
	if !ok {
		return Rule{}, &ConfigError{Rule: name, Err: ErrUnknownRule}
	}

	cond := e.When
	if cond == "" {
		cond = def.Condition
	}

	param, err := def.convertParam(e.Value)
	pred := def.Predicate(cond, param)
	if err != nil {
		if e.Level != SeverityOff || e.Value != nil {
			return Rule{}, &ConfigError{Rule: name, Err: err}
		}
		// disabled without a value: never evaluated
		pred = nil
	}

	return NewRule(name, e.Level, cond, def.Field, param, pred, def.Message)
}

func (d Definition) convertParam(v any) (any, error) {
	switch d.Param {
	case ParamNone:
		return nil, nil
	case ParamInt:
		if v == nil {
			return nil, fmt.Errorf("%w: length required", ErrInvalidValue)
		}
		n, err := cast.ToIntE(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: want a non-negative length, got %v", ErrInvalidValue, v)
		}
		return n, nil
	case ParamText:
		if v == nil {
			return d.Default, nil
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, fmt.Errorf("%w: want a string, got %v", ErrInvalidValue, v)
		}
		return s, nil
	case ParamList:
		if v == nil {
			return nil, fmt.Errorf("%w: list of values required", ErrInvalidValue)
		}
		list, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, fmt.Errorf("%w: want a list of strings, got %v", ErrInvalidValue, v)
		}
		return list, nil
	case ParamStyles:
		if v == nil {
			return nil, fmt.Errorf("%w: case style required", ErrInvalidValue)
		}
		var names []string
		if s, ok := v.(string); ok {
			names = []string{s}
		} else {
			var err error
			if names, err = cast.ToStringSliceE(v); err != nil {
				return nil, fmt.Errorf("%w: want a style or list of styles, got %v", ErrInvalidValue, v)
			}
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("%w: case style required", ErrInvalidValue)
		}
		styles := make([]textcase.Style, 0, len(names))
		for _, n := range names {
			s, err := textcase.ParseStyle(n)
			if err != nil {
				return nil, err
			}
			styles = append(styles, s)
		}
		return styles, nil
	default:
		return nil, fmt.Errorf("%w: unsupported parameter kind %v", ErrInvalidValue, d.Param)
	}
}

// FromConfig builds a rule set from a map of rule name to entry. Rules are
// ordered as in Definitions, whatever the map order. All configuration
// errors are reported together.
func FromConfig(cfg map[string]any) (*RuleSet, error) {
	var errs []error

	names := make([]string, 0, len(cfg))
	for name := range cfg {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := Lookup(name); !ok {
			errs = append(errs, &ConfigError{Rule: name, Err: ErrUnknownRule})
		}
	}

	built := make([]Rule, 0, len(cfg))
	for _, def := range definitions {
		raw, ok := cfg[def.Name]
		if !ok {
			continue
		}
		e, err := ParseEntry(raw)
		if err != nil {
			errs = append(errs, &ConfigError{Rule: def.Name, Err: err})
			continue
		}
		r, err := Build(def.Name, e)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		built = append(built, r)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return NewRuleSet(built...)
}

// Entry returns the rule's configuration in entry form.
func (r Rule) Entry() Entry {
	e := Entry{Level: r.Severity, When: r.Condition}
	switch p := r.Param.(type) {
	case nil:
	case []textcase.Style:
		names := make([]string, len(p))
		for i, s := range p {
			names[i] = string(s)
		}
		if len(names) == 1 {
			e.Value = names[0]
		} else {
			e.Value = names
		}
	default:
		e.Value = p
	}
	return e
}

// MarshalYAML encodes the set as an ordered mapping of rule name to
// [level, when, value].
func (rs *RuleSet) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range rs.Rules() {
		var value yaml.Node
		if err := value.Encode(r.Entry().Tuple()); err != nil {
			return nil, fmt.Errorf("encode %s: %w", r.Name, err)
		}
		value.Style = yaml.FlowStyle
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Name},
			&value,
		)
	}
	return node, nil
}

// MarshalJSON encodes the set as a JSON object in rule order.
func (rs *RuleSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rs.Rules() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(r.Name)
		val, err := json.Marshal(r.Entry().Tuple())
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", r.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String lists rule names in order.
func (rs *RuleSet) String() string {
	return strings.Join(rs.Names(), ", ")
}
