package commit

import (
	"regexp"
	"strings"
)

// referenceKeywords are the actions recognized in front of an issue number,
// matched case-insensitively.
var referenceKeywords = []string{
	"close", "closes", "closed",
	"fix", "fixes", "fixed",
	"resolve", "resolves", "resolved",
	"re", "ref", "refs", "see",
}

var (
	keywordAlternation = strings.Join(referenceKeywords, "|")

	// "fixes #1, #2" -> group 1 holds "#1, #2"
	issueRefPattern = regexp.MustCompile(`(?i)\b(?:` + keywordAlternation + `):?\s+(#\d+(?:\s*,\s*#\d+)*)`)

	// a line holding nothing but a reference list: "Closes #12, #14"
	issueLinePattern = regexp.MustCompile(`(?i)^(?:` + keywordAlternation + `):?\s+#\d+(?:\s*,\s*#\d+)*\.?$`)

	issueNumberPattern = regexp.MustCompile(`#(\d+)`)
)

// extractIssueRefs collects "#N" references from the given sections in
// order of appearance, keeping the first occurrence of each number.
func extractIssueRefs(sections ...string) []string {
	var refs []string
	seen := make(map[string]bool)

	for _, section := range sections {
		for _, match := range issueRefPattern.FindAllStringSubmatch(section, -1) {
			for _, num := range issueNumberPattern.FindAllStringSubmatch(match[1], -1) {
				n := strings.TrimLeft(num[1], "0")
				if n == "" {
					n = "0"
				}
				if seen[n] {
					continue
				}
				seen[n] = true
				refs = append(refs, "#"+n)
			}
		}
	}

	return refs
}
