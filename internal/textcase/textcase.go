// Package textcase classifies strings against the case conventions used by
// commit message rules (lower-case, sentence-case, start-case, ...).
//
// A string matches a style when converting it to that style leaves it
// unchanged. Conversions are Unicode aware: full-string lower/upper mapping
// goes through golang.org/x/text/cases, word boundaries are found at any
// rune that is neither a letter nor a digit and at lower-to-upper
// transitions ("fooBar" is two words, "XMLParser" is "XML" + "Parser").
// Backtick code spans are ignored before classification.
package textcase

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style is a named case convention.
type Style string

const (
	LowerCase    Style = "lower-case"
	UpperCase    Style = "upper-case"
	SentenceCase Style = "sentence-case"
	StartCase    Style = "start-case"
	CamelCase    Style = "camel-case"
	PascalCase   Style = "pascal-case"
	KebabCase    Style = "kebab-case"
	SnakeCase    Style = "snake-case"
)

// ErrUnknownStyle is returned by ParseStyle for unrecognized names.
var ErrUnknownStyle = errors.New("unknown case style")

var aliases = map[string]Style{
	"lower-case":    LowerCase,
	"lowercase":     LowerCase,
	"upper-case":    UpperCase,
	"uppercase":     UpperCase,
	"sentence-case": SentenceCase,
	"sentencecase":  SentenceCase,
	"start-case":    StartCase,
	"startcase":     StartCase,
	"camel-case":    CamelCase,
	"camelcase":     CamelCase,
	"pascal-case":   PascalCase,
	"pascalcase":    PascalCase,
	"kebab-case":    KebabCase,
	"kebabcase":     KebabCase,
	"snake-case":    SnakeCase,
	"snakecase":     SnakeCase,
}

// Styles returns every canonical style name.
func Styles() []Style {
	return []Style{LowerCase, UpperCase, SentenceCase, StartCase, CamelCase, PascalCase, KebabCase, SnakeCase}
}

// ParseStyle resolves a style name, accepting the unhyphenated aliases.
func ParseStyle(name string) (Style, error) {
	if s, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	names := make([]string, 0, len(Styles()))
	for _, st := range Styles() {
		names = append(names, string(st))
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownStyle, name, strings.Join(names, ", "))
}

var codeSpan = regexp.MustCompile("`[^`]*`")

// Matches reports whether s already follows style. Empty input matches
// every style.
func Matches(s string, style Style) bool {
	input := strings.TrimSpace(codeSpan.ReplaceAllString(s, ""))
	if input == "" {
		return true
	}
	return Convert(input, style) == input
}

// MatchesAny reports whether s follows at least one of styles.
func MatchesAny(s string, styles []Style) bool {
	for _, style := range styles {
		if Matches(s, style) {
			return true
		}
	}
	return false
}

// Convert rewrites s in the given style.
func Convert(s string, style Style) string {
	switch style {
	case LowerCase:
		return lower(s)
	case UpperCase:
		return upper(s)
	case SentenceCase:
		return upperFirst(s)
	case StartCase:
		words := splitWords(s)
		for i, w := range words {
			words[i] = upperFirst(w)
		}
		return strings.Join(words, " ")
	case CamelCase:
		return camel(s)
	case PascalCase:
		return upperFirst(camel(s))
	case KebabCase:
		return lower(strings.Join(splitWords(s), "-"))
	case SnakeCase:
		return lower(strings.Join(splitWords(s), "_"))
	default:
		return s
	}
}

func lower(s string) string { return cases.Lower(language.Und).String(s) }

func upper(s string) string { return cases.Upper(language.Und).String(s) }

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return upper(string(r)) + s[size:]
}

func camel(s string) string {
	words := splitWords(s)
	for i, w := range words {
		w = lower(w)
		if i > 0 {
			w = upperFirst(w)
		}
		words[i] = w
	}
	return strings.Join(words, "")
}

func splitWords(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}
