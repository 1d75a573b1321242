package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// Build information, set with -ldflags "-X .../commands.Version=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the commitlint release, the commit it was built from and the Go
runtime. The release string is the same one recorded as the tool version
in SARIF reports.

Examples:
  commitlint version
  commitlint version --short
  commitlint version --json`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
	RunE:        runVersion,
}

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "print only the release")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output as JSON")
}

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetVersionInfo returns the build information of this binary.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Release is the version with the short build commit appended when it is
// known, as in "1.2.3+abc123d".
func (v VersionInfo) Release() string {
	if v.Commit == "" || v.Commit == "unknown" {
		return v.Version
	}
	c := v.Commit
	if len(c) > 7 {
		c = c[:7]
	}
	return v.Version + "+" + c
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := GetVersionInfo()
	w := cmd.OutOrStdout()

	switch {
	case versionShort:
		_, err := fmt.Fprintln(w, info.Release())
		return err
	case versionJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(info); err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		return nil
	}
	return writeVersion(w, info)
}

func writeVersion(w io.Writer, info VersionInfo) error {
	_, err := fmt.Fprintf(w, `commitlint version %s
  Commit:     %s
  Built:      %s
  Go version: %s
  OS/Arch:    %s/%s
`, info.Version, info.Commit, info.BuildDate, info.GoVersion, info.OS, info.Arch)
	return err
}
