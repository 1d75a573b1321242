package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JNZader/commitlint/internal/config"
	"github.com/JNZader/commitlint/internal/lint"
)

// resetFlags restores every flag to its default so commands can run again.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)
	appConfig, appRepo = nil, nil

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func exitCode(err error) int {
	if err == nil {
		return lint.ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return -1
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const defaultCfg = "extends: [default]\n"

func TestLintStdin(t *testing.T) {
	cfg := writeConfig(t, ".commitlint.yaml", defaultCfg)

	out, _, err := runCLI(t, "Fix: Correct off-by-one error\n", "lint", "-c", cfg)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, _, err = runCLI(t, "feat: add widget\n", "lint", "-c", cfg)
	assert.Equal(t, lint.ExitErrors, exitCode(err))
	assert.Contains(t, out, "input (stdin): feat: add widget")
	assert.Contains(t, out, "[type-enum]")
	assert.Contains(t, out, "Get help: "+config.DefaultHelpURL)
}

func TestLintMessageJSON(t *testing.T) {
	cfg := writeConfig(t, ".commitlint.yaml", defaultCfg)

	out, _, err := runCLI(t, "", "lint", "-c", cfg, "-m", "Fix: Thing", "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Passed  bool `json:"passed"`
		Results []struct {
			Source string `json:"source"`
			Header string `json:"header"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.True(t, doc.Passed)
	require.Len(t, doc.Results, 1)
	assert.Equal(t, "message", doc.Results[0].Source)
	assert.Equal(t, "Fix: Thing", doc.Results[0].Header)
}

func TestLintStrictWarnings(t *testing.T) {
	cfg := writeConfig(t, ".commitlint.yaml", `extends: [default]
rules:
  subject-full-stop: [1, never, "."]
`)

	_, _, err := runCLI(t, "", "lint", "-c", cfg, "-m", "Fix: Thing.")
	assert.NoError(t, err, "warnings pass without --strict")

	out, _, err := runCLI(t, "", "lint", "-c", cfg, "-m", "Fix: Thing.", "--strict")
	assert.Equal(t, lint.ExitWarnings, exitCode(err))
	assert.Contains(t, out, "found 0 problems, 1 warnings")
}

func TestLintEditAndFiles(t *testing.T) {
	cfg := writeConfig(t, ".commitlint.yaml", defaultCfg)
	dir := t.TempDir()
	good := filepath.Join(dir, "COMMIT_EDITMSG")
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(good, []byte("Docs: Update guide\n\n# comment\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("wip\n"), 0o644))

	_, _, err := runCLI(t, "", "lint", "-c", cfg, "--edit", good)
	require.NoError(t, err)

	_, _, err = runCLI(t, "", "lint", "-c", cfg, "--edit="+good)
	require.NoError(t, err)

	out, _, err := runCLI(t, "", "lint", "-c", cfg, good, bad)
	assert.Equal(t, lint.ExitErrors, exitCode(err))
	assert.Contains(t, out, "bad.txt): wip")
	assert.NotContains(t, out, "Docs: Update guide")

	_, _, err = runCLI(t, "", "lint", "-c", cfg, filepath.Join(dir, "missing"))
	assert.Equal(t, lint.ExitFailure, exitCode(err))
}

func TestLintEmptyMessage(t *testing.T) {
	cfg := writeConfig(t, ".commitlint.yaml", defaultCfg)

	out, _, err := runCLI(t, "# only a comment\n", "lint", "-c", cfg)
	assert.Equal(t, lint.ExitFailure, exitCode(err))
	assert.Contains(t, out, "stdin:")
}

func TestLintOutputFile(t *testing.T) {
	cfg := writeConfig(t, ".commitlint.yaml", defaultCfg)
	path := filepath.Join(t.TempDir(), "reports", "lint.sarif")

	_, stderr, err := runCLI(t, "feat: nope", "lint", "-c", cfg, "--output", path)
	assert.Equal(t, lint.ExitErrors, exitCode(err))
	assert.Contains(t, stderr, "Report written to: "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "2.1.0"`)
	assert.Contains(t, string(data), `"ruleId": "type-enum"`)
}

func TestLintRuleSelection(t *testing.T) {
	cfg := writeConfig(t, ".commitlint.yaml", defaultCfg)

	_, _, err := runCLI(t, "feat: add widget", "lint", "-c", cfg, "--rule", "header-max-length")
	assert.NoError(t, err)

	_, _, err = runCLI(t, "feat: add widget", "lint", "-c", cfg, "--rule", "no-such-rule")
	assert.Equal(t, lint.ExitFailure, exitCode(err))
}

func TestLintBadConfig(t *testing.T) {
	cfg := writeConfig(t, ".commitlint.yaml", "rules:\n  no-such-rule: [2, always]\n")

	_, _, err := runCLI(t, "Fix: Thing", "lint", "-c", cfg)
	assert.Equal(t, lint.ExitFailure, exitCode(err))
	assert.Contains(t, err.Error(), "no-such-rule")
}

func TestLintRange(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	var hashes []string
	for i, msg := range []string{"Feat: Start", "fix: lower case", "Docs: Explain"} {
		name := filepath.Join(dir, "f"+string(rune('a'+i)))
		require.NoError(t, os.WriteFile(name, []byte(msg), 0o644))
		_, err := wt.Add(filepath.Base(name))
		require.NoError(t, err)
		h, err := wt.Commit(msg, &gogit.CommitOptions{
			Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
		})
		require.NoError(t, err)
		hashes = append(hashes, h.String())
	}

	cfg := writeConfig(t, ".commitlint.yaml", defaultCfg)
	t.Chdir(dir)

	out, _, err := runCLI(t, "", "lint", "-c", cfg, "--from", hashes[0], "--format", "json")
	assert.Equal(t, lint.ExitErrors, exitCode(err))

	var doc struct {
		Results []struct {
			Source string `json:"source"`
			Passed bool   `json:"passed"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Results, 2)
	assert.Equal(t, hashes[2], doc.Results[0].Source)
	assert.True(t, doc.Results[0].Passed)
	assert.Equal(t, hashes[1], doc.Results[1].Source)
	assert.False(t, doc.Results[1].Passed)

	_, _, err = runCLI(t, "", "lint", "-c", cfg, "--from", hashes[1])
	assert.NoError(t, err)

	_, _, err = runCLI(t, "", "lint", "-c", cfg, "--from", hashes[0], "-m", "Fix: Thing")
	assert.Equal(t, lint.ExitFailure, exitCode(err))
}

func TestChangelog(t *testing.T) {
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	var hashes []string
	for i, msg := range []string{
		"Feat: Initial feature",
		"Fix(core): Handle nil config",
		"Feat(api): Add endpoint",
		"Feat!: Drop legacy flags",
		"wip: tinker",
		"Docs: Update guide",
	} {
		name := fmt.Sprintf("f%d", i)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(msg), 0o644))
		_, err := wt.Add(name)
		require.NoError(t, err)
		h, err := wt.Commit(msg, &gogit.CommitOptions{
			Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
		})
		require.NoError(t, err)
		hashes = append(hashes, h.String())
	}
	_, err = repo.CreateTag("v0.1.0", plumbing.NewHash(hashes[0]), nil)
	require.NoError(t, err)

	cfg := writeConfig(t, ".commitlint.yaml", defaultCfg)
	t.Chdir(dir)

	out, _, err := runCLI(t, "", "changelog", "-c", cfg, "--no-date", "--no-links")
	require.NoError(t, err)
	assert.Equal(t, `## Changelog

### BREAKING CHANGES

- Drop legacy flags

### Features

- **api:** Add endpoint

### Bug Fixes

- **core:** Handle nil config

### Documentation

- Update guide

### Other Changes

- wip: tinker

`, out)

	out, _, err = runCLI(t, "", "changelog", "-c", cfg, "--from", hashes[4], "--version", "1.1.0")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "## 1.1.0 ("), out)
	assert.Contains(t, out, "- Update guide ("+hashes[5][:7]+")")
	assert.NotContains(t, out, "Features")

	path := filepath.Join(dir, "CHANGELOG.md")
	for i := 0; i < 2; i++ {
		_, stderr, err := runCLI(t, "", "changelog", "-c", cfg, "--from", hashes[4], "--unreleased", "--output", path, "--append")
		require.NoError(t, err)
		assert.Contains(t, stderr, "Changelog written to "+path)
	}
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "## Unreleased ("))

	_, stderr, err := runCLI(t, "", "changelog", "-c", cfg, "--from", "HEAD")
	require.NoError(t, err)
	assert.Contains(t, stderr, "No commits found")
}

func TestBuild(t *testing.T) {
	cfg := writeConfig(t, ".commitlint.yaml", defaultCfg)

	out, _, err := runCLI(t, "", "build", "-c", cfg,
		"--type", "feat", "--scope", "api", "--subject", "Add endpoint",
		"--breaking", "v1 routes removed", "--issue", "Closes #12")
	require.NoError(t, err)
	assert.Equal(t, "Feat(api)!: Add endpoint\n\nBREAKING CHANGE: v1 routes removed\nCloses #12\n", out)

	out, _, err = runCLI(t, "", "build", "-c", cfg, "-t", "Fix", "-s", "Thing", "--emoji", "--no-lint")
	require.NoError(t, err)
	assert.Equal(t, "Fix: 🐛 Thing\n", out)

	out, stderr, err := runCLI(t, "", "build", "-c", cfg, "-t", "wip", "-s", "lower")
	assert.Equal(t, lint.ExitErrors, exitCode(err))
	assert.Equal(t, "wip: lower\n", out)
	assert.Contains(t, stderr, "[type-enum]")
}

func TestRulesCommand(t *testing.T) {
	cfg := writeConfig(t, ".commitlint.yaml", `extends: [minimal]
rules:
  header-max-length: [2, always, 72]
  body-empty: [0]
`)

	out, _, err := runCLI(t, "", "rules", "-c", cfg, "--json")
	require.NoError(t, err)
	var doc map[string][]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []any{float64(2), "always", float64(72)}, doc["header-max-length"])
	assert.Contains(t, doc, "body-empty")

	out, _, err = runCLI(t, "", "rules", "-c", cfg, "--enabled")
	require.NoError(t, err)
	assert.Contains(t, out, "header-max-length:")
	assert.NotContains(t, out, "body-empty")

	out, _, err = runCLI(t, "", "rules", "-c", cfg, "--field", "body", "--json")
	require.NoError(t, err)
	doc = nil
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc, "body-empty")
	for name := range doc {
		assert.True(t, strings.HasPrefix(name, "body-"), name)
	}

	_, _, err = runCLI(t, "", "rules", "-c", cfg, "--field", "signature")
	assert.Equal(t, lint.ExitFailure, exitCode(err))

	out, _, err = runCLI(t, "", "rules", "-c", cfg, "--presets")
	require.NoError(t, err)
	assert.Equal(t, "conventional\ndefault\nminimal\n", out)

	out, _, err = runCLI(t, "", "rules", "-c", cfg, "--available")
	require.NoError(t, err)
	assert.Contains(t, out, "references-empty")
}

func TestTypesCommand(t *testing.T) {
	cfg := writeConfig(t, ".commitlint.yaml", `extends: [default]
prompt:
  questions:
    type:
      enum:
        Hotfix:
          description: Urgent production fix
          emoji: ":fire:"
        Feat:
          description: A new feature
          emoji: ✨
`)

	out, _, err := runCLI(t, "", "types", "-c", cfg)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "🔥")
	assert.Contains(t, lines[0], "Hotfix")
	assert.Contains(t, lines[1], "Feat")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"c.yaml", "c.json", "c.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			out, _, err := runCLI(t, "", "init", "--preset", "conventional", path)
			require.NoError(t, err)
			assert.Contains(t, out, "Created "+path)

			cfg, err := config.LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, []string{"conventional"}, cfg.Extends)

			_, _, err = runCLI(t, "", "lint", "-c", path, "-m", "feat: add widget")
			assert.NoError(t, err)
		})
	}

	_, _, err := runCLI(t, "", "init", filepath.Join(dir, "c.yaml"))
	assert.Equal(t, lint.ExitFailure, exitCode(err), "existing file needs --force")

	_, _, err = runCLI(t, "", "init", "--force", "--prompt", filepath.Join(dir, "c.yaml"))
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "c.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "prompt:\n  questions:")

	_, _, err = runCLI(t, "", "init", "--preset", "nope", filepath.Join(dir, "x.yaml"))
	assert.Equal(t, lint.ExitFailure, exitCode(err))
}

func TestConfigShow(t *testing.T) {
	cfg := writeConfig(t, ".commitlint.yaml", "extends: [minimal]\noutput:\n  format: markdown\n")

	out, _, err := runCLI(t, "", "config", "show", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "# Config file: ")
	assert.Contains(t, out, "format: markdown")

	out, _, err = runCLI(t, "", "config", "show", "-c", cfg, "--json", "-q")
	require.NoError(t, err)
	var doc config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []string{"minimal"}, doc.Extends)
	assert.True(t, doc.Output.Quiet)
}

func TestDetectFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"out.json":     "json",
		"out.SARIF":    "sarif",
		"report.md":    "markdown",
		"report.txt":   "text",
		"report":       "",
		"dir/x.sarif":  "sarif",
		"x.markdown":   "markdown",
		"unknown.html": "",
	}
	for path, want := range tests {
		if got := DetectFormatFromPath(path); got != want {
			t.Errorf("DetectFormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
