package commands

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBuildInfo(t *testing.T, version, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	Version, Commit, BuildDate = version, commit, date
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestVersionInfoRelease(t *testing.T) {
	tests := []struct {
		version, commit, want string
	}{
		{"1.2.3", "abc123def456", "1.2.3+abc123d"},
		{"1.2.3", "abc12", "1.2.3+abc12"},
		{"1.2.3", "unknown", "1.2.3"},
		{"dev", "", "dev"},
	}

	for _, tt := range tests {
		info := VersionInfo{Version: tt.version, Commit: tt.commit}
		assert.Equal(t, tt.want, info.Release(), "Release(%q, %q)", tt.version, tt.commit)
	}
}

func TestVersionCommand(t *testing.T) {
	setBuildInfo(t, "1.2.3", "abc123def", "2024-01-15T10:00:00Z")

	out, _, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "commitlint version 1.2.3\n")
	assert.Contains(t, out, "Commit:     abc123def\n")
	assert.Contains(t, out, "Built:      2024-01-15T10:00:00Z\n")
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)

	out, _, err = runCLI(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3+abc123d\n", out)

	out, _, err = runCLI(t, "", "version", "--json")
	require.NoError(t, err)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, GetVersionInfo(), info)

	_, _, err = runCLI(t, "", "version", "unexpected-arg")
	assert.Error(t, err)
}

func TestSARIFRecordsRelease(t *testing.T) {
	setBuildInfo(t, "1.2.3", "abc123def", "unknown")
	cfg := writeConfig(t, ".commitlint.yaml", defaultCfg)

	out, _, err := runCLI(t, "", "lint", "-c", cfg, "-m", "Fix: Thing", "--format", "sarif")
	require.NoError(t, err)

	var doc struct {
		Runs []struct {
			Tool struct {
				Driver struct {
					Name    string `json:"name"`
					Version string `json:"version"`
				} `json:"driver"`
			} `json:"tool"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Runs, 1)
	assert.Equal(t, "commitlint", doc.Runs[0].Tool.Driver.Name)
	assert.Equal(t, "1.2.3+abc123d", doc.Runs[0].Tool.Driver.Version)
}
