// Package prompt holds the commit type table and question texts used when
// building commit messages. It is metadata only; validation lives in the
// rules package.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kyokomi/emoji/v2"
	"github.com/shu-go/orderedmap"
	"gopkg.in/yaml.v3"
)

//go:embed prompt.yaml
var defaultPrompt []byte

// TypeOption describes one commit type.
type TypeOption struct {
	Description string `yaml:"description" json:"description"`
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Emoji       string `yaml:"emoji,omitempty" json:"emoji,omitempty"`
}

// Question is a single prompt text.
type Question struct {
	Description string `yaml:"description" json:"description"`
}

// TypeQuestion is the type prompt with its ordered choices.
type TypeQuestion struct {
	Description string                                     `yaml:"description" json:"description"`
	Enum        *orderedmap.OrderedMap[string, TypeOption] `yaml:"enum" json:"enum"`
}

// Questions are the texts shown for each part of a message.
type Questions struct {
	Type            TypeQuestion `yaml:"type" json:"type"`
	Scope           Question     `yaml:"scope" json:"scope"`
	Subject         Question     `yaml:"subject" json:"subject"`
	Body            Question     `yaml:"body" json:"body"`
	IsBreaking      Question     `yaml:"isBreaking" json:"isBreaking"`
	BreakingBody    Question     `yaml:"breakingBody" json:"breakingBody"`
	Breaking        Question     `yaml:"breaking" json:"breaking"`
	IsIssueAffected Question     `yaml:"isIssueAffected" json:"isIssueAffected"`
	IssuesBody      Question     `yaml:"issuesBody" json:"issuesBody"`
	Issues          Question     `yaml:"issues" json:"issues"`
}

// Metadata is the prompt section of a configuration file.
type Metadata struct {
	Questions Questions `yaml:"questions" json:"questions"`
}

func newMetadata() *Metadata {
	return &Metadata{
		Questions: Questions{
			Type: TypeQuestion{Enum: orderedmap.New[string, TypeOption]()},
		},
	}
}

// Default returns the built-in metadata.
func Default() *Metadata {
	m := newMetadata()
	if err := yaml.Unmarshal(defaultPrompt, m); err != nil {
		panic(fmt.Sprintf("prompt: embedded defaults: %v", err))
	}
	return m
}

// Parse reads the prompt section of a configuration document. Questions the
// document leaves out keep their default text; a type table, when present,
// replaces the default one entirely.
func Parse(data []byte) (*Metadata, error) {
	doc := struct {
		Prompt *Metadata `yaml:"prompt"`
	}{Prompt: newMetadata()}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse prompt metadata: %w", err)
	}

	m := doc.Prompt
	if m == nil {
		return Default(), nil
	}
	m.fillFrom(Default())
	return m, nil
}

// Load reads prompt metadata from a configuration file. A missing path, a
// TOML file or a file without a prompt section yields the defaults.
func Load(path string) (*Metadata, error) {
	if path == "" || strings.EqualFold(filepath.Ext(path), ".toml") {
		return Default(), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from config discovery
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return Parse(data)
}

func (m *Metadata) fillFrom(def *Metadata) {
	q, d := &m.Questions, def.Questions
	if q.Type.Enum == nil || len(q.Type.Enum.Keys()) == 0 {
		q.Type.Enum = d.Type.Enum
	}
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&q.Type.Description, d.Type.Description)
	fill(&q.Scope.Description, d.Scope.Description)
	fill(&q.Subject.Description, d.Subject.Description)
	fill(&q.Body.Description, d.Body.Description)
	fill(&q.IsBreaking.Description, d.IsBreaking.Description)
	fill(&q.BreakingBody.Description, d.BreakingBody.Description)
	fill(&q.Breaking.Description, d.Breaking.Description)
	fill(&q.IsIssueAffected.Description, d.IsIssueAffected.Description)
	fill(&q.IssuesBody.Description, d.IssuesBody.Description)
	fill(&q.Issues.Description, d.Issues.Description)
}

// Types returns commit type names in table order.
func (m *Metadata) Types() []string {
	if m.Questions.Type.Enum == nil {
		return nil
	}
	return m.Questions.Type.Enum.Keys()
}

// Type looks up a commit type. The match is exact first, then
// case-insensitive, so "feat" finds "Feat".
func (m *Metadata) Type(name string) (string, TypeOption, bool) {
	enum := m.Questions.Type.Enum
	if enum == nil {
		return "", TypeOption{}, false
	}
	if opt, ok := enum.Get(name); ok {
		return name, opt, true
	}
	for _, k := range enum.Keys() {
		if strings.EqualFold(k, name) {
			opt, _ := enum.Get(k)
			return k, opt, true
		}
	}
	return "", TypeOption{}, false
}

// Emoji returns the rendered emoji for a type, expanding ":code:" aliases.
func (m *Metadata) Emoji(name string) string {
	_, opt, ok := m.Type(name)
	if !ok {
		return ""
	}
	return Emojize(opt.Emoji)
}

// Emojize expands ":code:" aliases; literal emoji pass through unchanged.
func Emojize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(emoji.Emojize(s))
}

// DefaultSection renders the built-in metadata as a "prompt:" YAML section
// for starter config files.
func DefaultSection() string {
	var sb strings.Builder
	sb.WriteString("prompt:\n")
	for _, line := range strings.Split(strings.TrimRight(string(defaultPrompt), "\n"), "\n") {
		if line != "" {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
