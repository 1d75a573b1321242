// Package commit parses raw commit messages into conventional-commit fields.
package commit

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Message is a parsed commit message. Values returned by Parse are never
// modified afterwards and may be shared between goroutines.
type Message struct {
	// Raw is the normalized message: LF line endings, comment lines removed,
	// trailing blank lines trimmed.
	Raw string `json:"raw" yaml:"raw"`

	// Header is the first line of the message.
	Header string `json:"header" yaml:"header"`

	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Scope   string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Subject string `json:"subject" yaml:"subject"`
	Body    string `json:"body,omitempty" yaml:"body,omitempty"`
	Footer  string `json:"footer,omitempty" yaml:"footer,omitempty"`

	IsBreaking          bool   `json:"is_breaking" yaml:"is_breaking"`
	BreakingDescription string `json:"breaking_description,omitempty" yaml:"breaking_description,omitempty"`

	// IssueRefs holds "#N" references in first-seen order, one per issue number.
	IssueRefs []string `json:"issue_refs,omitempty" yaml:"issue_refs,omitempty"`

	// BodyLeadingBlanks is the number of blank lines between the header and
	// the body. Zero when there is no body.
	BodyLeadingBlanks int `json:"-" yaml:"-"`

	// FooterLeadingBlanks is the number of blank lines directly above the
	// footer. Zero when there is no footer.
	FooterLeadingBlanks int `json:"-" yaml:"-"`
}

var (
	headerPattern = regexp.MustCompile(`^([\p{L}\p{N}_-]+)(?:\(([^()\r\n]*)\))?(!)?:[ \t]*(.*)$`)

	breakingPattern = regexp.MustCompile(`^BREAKING[ -]CHANGE:[ \t]*(.*)$`)

	// git trailer tokens: "Signed-off-by: x"
	trailerPattern = regexp.MustCompile(`^[\p{L}][\p{L}\p{N}-]*: \S`)
)

// Parse splits raw into header, body and footer fields.
//
// The header is matched against `type(scope)!: subject`. A header without a
// colon, or whose prefix is not a valid type, yields an empty type and scope
// and the whole header as subject. The footer starts at the first BREAKING
// CHANGE note or issue reference line, or at a final paragraph made only of
// "Token: value" trailers; everything between header and footer is the body.
func Parse(raw string) (*Message, error) {
	if !utf8.ValidString(raw) {
		return nil, &ParseError{Err: ErrInvalidUTF8}
	}

	lines := normalize(raw)
	if len(lines) == 0 {
		return nil, &ParseError{Err: ErrEmptyMessage}
	}

	msg := &Message{
		Raw:    strings.Join(lines, "\n"),
		Header: lines[0],
	}
	parseHeader(msg)

	rest := lines[1:]
	bodyStart := 0
	for bodyStart < len(rest) && isBlank(rest[bodyStart]) {
		bodyStart++
	}

	footerStart := findFooter(rest, bodyStart)

	if body := strings.Trim(strings.Join(rest[bodyStart:footerStart], "\n"), "\n"); body != "" {
		msg.Body = body
		msg.BodyLeadingBlanks = bodyStart
	}

	if footerStart < len(rest) {
		msg.Footer = strings.Join(rest[footerStart:], "\n")
		for i := footerStart - 1; i >= 0 && isBlank(rest[i]); i-- {
			msg.FooterLeadingBlanks++
		}
		parseFooter(msg, rest[footerStart:])
	}

	if msg.IsBreaking && msg.BreakingDescription == "" {
		msg.BreakingDescription = msg.Subject
	}

	msg.IssueRefs = extractIssueRefs(msg.Body, msg.Footer)

	return msg, nil
}

const scissors = "# ------------------------ >8 ------------------------"

// normalize converts line endings, drops git comment lines ("#" or "# ...")
// and everything below a scissors line, and trims surrounding blank lines so
// the header is always the first non-blank line.
func normalize(raw string) []string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if line == scissors {
			break
		}
		if line == "#" || strings.HasPrefix(line, "# ") {
			continue
		}
		lines = append(lines, strings.TrimRight(line, " \t"))
	}

	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func parseHeader(msg *Message) {
	m := headerPattern.FindStringSubmatch(msg.Header)
	if m == nil {
		msg.Subject = strings.TrimSpace(msg.Header)
		return
	}

	msg.Type = m[1]
	msg.Scope = strings.TrimSpace(m[2])
	msg.IsBreaking = m[3] == "!"
	msg.Subject = strings.TrimSpace(m[4])
}

func parseFooter(msg *Message, lines []string) {
	inBreaking := false
	var desc []string

	for _, line := range lines {
		if m := breakingPattern.FindStringSubmatch(line); m != nil {
			msg.IsBreaking = true
			inBreaking = true
			desc = append(desc, m[1])
			continue
		}
		if isTrailer(line) {
			inBreaking = false
			continue
		}
		if inBreaking {
			desc = append(desc, line)
		}
	}

	if len(desc) > 0 {
		msg.BreakingDescription = strings.TrimSpace(strings.Join(desc, "\n"))
	}
}

// findFooter returns the index of the first footer line in lines, or
// len(lines) when there is no footer.
func findFooter(lines []string, from int) int {
	start := len(lines)
	for i := from; i < len(lines); i++ {
		if breakingPattern.MatchString(lines[i]) || issueLinePattern.MatchString(lines[i]) {
			start = i
			break
		}
	}

	// git trailers only count as a block closing the message
	last := len(lines)
	for last > from && !isBlank(lines[last-1]) {
		last--
	}
	if last < start && last < len(lines) && allTrailers(lines[last:]) {
		start = last
	}
	return start
}

func allTrailers(lines []string) bool {
	for _, line := range lines {
		if !isTrailer(line) && !isContinuation(line) {
			return false
		}
	}
	return isTrailer(lines[0])
}

// isContinuation reports whether line continues the trailer above it.
func isContinuation(line string) bool {
	return strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")
}

func isTrailer(line string) bool {
	return breakingPattern.MatchString(line) ||
		issueLinePattern.MatchString(line) ||
		trailerPattern.MatchString(line)
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
