package rules

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/JNZader/commitlint/internal/commit"
	"github.com/JNZader/commitlint/internal/textcase"
)

// ParamKind describes the value a built-in rule expects.
type ParamKind int

const (
	ParamNone   ParamKind = iota
	ParamInt              // non-negative length
	ParamText             // single string, e.g. a full-stop character
	ParamList             // list of allowed strings
	ParamStyles           // one or more textcase styles
)

func (k ParamKind) String() string {
	switch k {
	case ParamInt:
		return "int"
	case ParamText:
		return "text"
	case ParamList:
		return "list"
	case ParamStyles:
		return "styles"
	default:
		return "none"
	}
}

// Definition describes a built-in rule. The assertion is checked against the
// field value; the configured condition decides whether it must hold.
type Definition struct {
	Name        string
	Field       Field
	Param       ParamKind
	Condition   Condition // default when the config omits it
	Default     any       // default parameter for ParamText
	Description string
	Message     string

	// skipEmpty makes the rule pass when the field is empty.
	skipEmpty bool
	assert    func(value string, msg *commit.Message, param any) bool
}

// Predicate binds the definition to a condition and parameter.
func (d Definition) Predicate(cond Condition, param any) func(*commit.Message) bool {
	want := cond != Never
	return func(msg *commit.Message) bool {
		value := d.Field.Value(msg)
		if d.skipEmpty && value == "" {
			return true
		}
		return d.assert(value, msg, param) == want
	}
}

var definitions = []Definition{
	maxLength("header-max-length", FieldHeader),
	minLength("header-min-length", FieldHeader),
	caseRule("header-case", FieldHeader),
	fullStop("header-full-stop", FieldHeader),

	enumRule("type-enum", FieldType),
	caseRule("type-case", FieldType),
	emptyRule("type-empty", FieldType),
	maxLength("type-max-length", FieldType),
	minLength("type-min-length", FieldType),

	enumRule("scope-enum", FieldScope),
	caseRule("scope-case", FieldScope),
	emptyRule("scope-empty", FieldScope),

	emptyRule("subject-empty", FieldSubject),
	fullStop("subject-full-stop", FieldSubject),
	caseRule("subject-case", FieldSubject),
	maxLength("subject-max-length", FieldSubject),
	minLength("subject-min-length", FieldSubject),

	{
		Name:        "body-leading-blank",
		Field:       FieldBody,
		Condition:   Always,
		Description: "body begins after exactly one blank line",
		Message:     "body must {{if .Never}}not {{end}}have a leading blank line",
		skipEmpty:   true,
		assert: func(_ string, msg *commit.Message, _ any) bool {
			return msg.BodyLeadingBlanks == 1
		},
	},
	maxLineLength("body-max-line-length", FieldBody),
	emptyRule("body-empty", FieldBody),

	{
		Name:        "footer-leading-blank",
		Field:       FieldFooter,
		Condition:   Always,
		Description: "footer begins after exactly one blank line",
		Message:     "footer must {{if .Never}}not {{end}}have a leading blank line",
		skipEmpty:   true,
		assert: func(_ string, msg *commit.Message, _ any) bool {
			return msg.FooterLeadingBlanks == 1
		},
	},
	maxLineLength("footer-max-line-length", FieldFooter),
	emptyRule("footer-empty", FieldFooter),

	emptyRule("references-empty", FieldReferences),
}

var definitionIndex = func() map[string]int {
	idx := make(map[string]int, len(definitions))
	for i, d := range definitions {
		idx[d.Name] = i
	}
	return idx
}()

// Definitions returns the built-in rules in registry order.
func Definitions() []Definition {
	return slices.Clone(definitions)
}

// Lookup returns the built-in definition for name.
func Lookup(name string) (Definition, bool) {
	i, ok := definitionIndex[name]
	if !ok {
		return Definition{}, false
	}
	return definitions[i], true
}

func maxLength(name string, f Field) Definition {
	return Definition{
		Name:        name,
		Field:       f,
		Param:       ParamInt,
		Condition:   Always,
		Description: string(f) + " is at most N characters",
		Message:     string(f) + " must {{if .Never}}not {{end}}be shorter than or equal to {{.Param}} characters, current length is {{.Length}}",
		skipEmpty:   true,
		assert: func(v string, _ *commit.Message, p any) bool {
			return utf8.RuneCountInString(v) <= p.(int)
		},
	}
}

func minLength(name string, f Field) Definition {
	return Definition{
		Name:        name,
		Field:       f,
		Param:       ParamInt,
		Condition:   Always,
		Description: string(f) + " is at least N characters",
		Message:     string(f) + " must {{if .Never}}not {{end}}be longer than or equal to {{.Param}} characters, current length is {{.Length}}",
		skipEmpty:   true,
		assert: func(v string, _ *commit.Message, p any) bool {
			return utf8.RuneCountInString(v) >= p.(int)
		},
	}
}

func maxLineLength(name string, f Field) Definition {
	return Definition{
		Name:        name,
		Field:       f,
		Param:       ParamInt,
		Condition:   Always,
		Description: "every " + string(f) + " line is at most N characters",
		Message:     string(f) + "'s lines must {{if .Never}}not {{end}}be shorter than or equal to {{.Param}} characters, longest line is {{.Length}}",
		skipEmpty:   true,
		assert: func(v string, _ *commit.Message, p any) bool {
			return longestLine(v) <= p.(int)
		},
	}
}

func caseRule(name string, f Field) Definition {
	return Definition{
		Name:        name,
		Field:       f,
		Param:       ParamStyles,
		Condition:   Always,
		Description: string(f) + " follows one of the given case styles",
		Message:     string(f) + " must {{if .Never}}not {{end}}be {{.Param}}",
		skipEmpty:   true,
		assert: func(v string, _ *commit.Message, p any) bool {
			return textcase.MatchesAny(v, p.([]textcase.Style))
		},
	}
}

func enumRule(name string, f Field) Definition {
	return Definition{
		Name:        name,
		Field:       f,
		Param:       ParamList,
		Condition:   Always,
		Description: string(f) + " is one of the given values",
		Message:     string(f) + " must {{if .Never}}not {{end}}be one of {{.Param}}",
		skipEmpty:   true,
		assert: func(v string, _ *commit.Message, p any) bool {
			return slices.Contains(p.([]string), v)
		},
	}
}

func emptyRule(name string, f Field) Definition {
	return Definition{
		Name:        name,
		Field:       f,
		Condition:   Never,
		Description: string(f) + " is empty",
		Message:     string(f) + " may {{if .Never}}not {{end}}be empty",
		assert: func(v string, _ *commit.Message, _ any) bool {
			return v == ""
		},
	}
}

func fullStop(name string, f Field) Definition {
	return Definition{
		Name:        name,
		Field:       f,
		Param:       ParamText,
		Condition:   Never,
		Default:     ".",
		Description: string(f) + " ends with the given character",
		Message:     string(f) + " may {{if .Never}}not {{end}}end with full stop \"{{.Param}}\"",
		skipEmpty:   true,
		assert: func(v string, _ *commit.Message, p any) bool {
			return strings.HasSuffix(v, p.(string))
		},
	}
}
