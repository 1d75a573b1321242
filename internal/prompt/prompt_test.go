package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	m := Default()

	assert.Equal(t, []string{
		"Feat", "Fix", "Docs", "Style", "Refactor", "Perf", "Test",
		"Build", "CI", "Chore", "Revert", "Release", "Deprecate",
	}, m.Types())

	name, opt, ok := m.Type("Feat")
	require.True(t, ok)
	assert.Equal(t, "Feat", name)
	assert.Equal(t, "A new feature", opt.Description)
	assert.Equal(t, "Features", opt.Title)
	assert.Equal(t, "✨", m.Emoji("Feat"))

	assert.Equal(t, "Describe the breaking changes", m.Questions.Breaking.Description)
	assert.Contains(t, m.Questions.Issues.Description, `"fix #123"`)
}

func TestTypeCaseInsensitive(t *testing.T) {
	m := Default()

	name, _, ok := m.Type("ci")
	require.True(t, ok)
	assert.Equal(t, "CI", name)

	_, _, ok = m.Type("wip")
	assert.False(t, ok)
	assert.Empty(t, m.Emoji("wip"))
}

func TestParseCustomTypes(t *testing.T) {
	data := []byte(`
extends: [default]
prompt:
  questions:
    type:
      enum:
        Hotfix:
          description: Urgent production fix
          emoji: ":fire:"
        Feat:
          description: A new feature
    subject:
      description: Say what changed
`)

	m, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hotfix", "Feat"}, m.Types())
	assert.Equal(t, "🔥", m.Emoji("Hotfix"))
	assert.Empty(t, m.Emoji("Feat"))
	assert.Equal(t, "Say what changed", m.Questions.Subject.Description)
	assert.Equal(t, "Select the type of change that you're committing", m.Questions.Type.Description)
}

func TestParseWithoutPromptSection(t *testing.T) {
	m, err := Parse([]byte("rules:\n  type-empty: [2, never]\n"))
	require.NoError(t, err)
	assert.Len(t, m.Types(), 13)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("prompt: [unclosed"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	m, err := Load("")
	require.NoError(t, err)
	assert.Len(t, m.Types(), 13)

	m, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Len(t, m.Types(), 13)

	p := filepath.Join(t.TempDir(), ".commitlint.yaml")
	require.NoError(t, os.WriteFile(p, []byte("prompt:\n  questions:\n    type:\n      enum:\n        Ship:\n          description: Ship it\n"), 0o600))
	m, err = Load(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ship"}, m.Types())
}

func TestEmojize(t *testing.T) {
	assert.Equal(t, "🐛", Emojize(":bug:"))
	assert.Equal(t, "✨", Emojize("✨"))
	assert.Empty(t, Emojize(""))
}

func TestDefaultSectionRoundTrip(t *testing.T) {
	section := DefaultSection()
	require.True(t, strings.HasPrefix(section, "prompt:\n  "))

	m, err := Parse([]byte("rules: {}\n" + section))
	require.NoError(t, err)
	assert.Equal(t, Default().Types(), m.Types())
	assert.Equal(t, Default().Emoji("Fix"), m.Emoji("Fix"))
}
