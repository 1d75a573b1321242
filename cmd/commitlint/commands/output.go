package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteOutput writes content to a file, or to stdout when outputPath is
// empty. Notices go to stderr.
func WriteOutput(content, outputPath string, stdout, stderr io.Writer) error {
	if outputPath == "" {
		_, err := fmt.Fprint(stdout, content)
		return err
	}

	// Create parent directories
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	// Write file
	if err := os.WriteFile(outputPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}

	if !isQuiet() {
		fmt.Fprintf(stderr, "Report written to: %s\n", outputPath)
	}
	return nil
}

// DetectFormatFromPath infers the output format from file extension.
func DetectFormatFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return "json"
	case ".sarif":
		return "sarif"
	case ".md", ".markdown":
		return "markdown"
	case ".txt", ".log":
		return "text"
	default:
		return ""
	}
}
