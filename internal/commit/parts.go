package commit

import (
	"strings"
)

// Parts holds the fields used to assemble a commit message.
type Parts struct {
	Type     string
	Scope    string
	Subject  string
	Body     string
	Breaking string   // BREAKING CHANGE description
	Bang     bool     // mark the header with "!"
	Issues   []string // footer lines such as "fix #123"
	Emoji    string   // prefix placed in front of the subject
}

// Header renders "type(scope)!: subject".
func (p *Parts) Header() string {
	var sb strings.Builder
	sb.WriteString(p.Type)
	if p.Scope != "" {
		sb.WriteString("(" + p.Scope + ")")
	}
	if p.Bang || (p.Breaking != "" && p.Type != "") {
		sb.WriteString("!")
	}
	if p.Type != "" {
		sb.WriteString(": ")
	}
	if p.Emoji != "" {
		sb.WriteString(p.Emoji + " ")
	}
	sb.WriteString(p.Subject)
	return sb.String()
}

// String renders the full message: header, blank line, body, blank line,
// footer.
func (p *Parts) String() string {
	sections := []string{p.Header()}

	if body := strings.TrimSpace(p.Body); body != "" {
		sections = append(sections, body)
	}

	var footer []string
	if p.Breaking != "" {
		footer = append(footer, "BREAKING CHANGE: "+strings.TrimSpace(p.Breaking))
	}
	for _, issue := range p.Issues {
		if issue = strings.TrimSpace(issue); issue != "" {
			footer = append(footer, issue)
		}
	}
	if len(footer) > 0 {
		sections = append(sections, strings.Join(footer, "\n"))
	}

	return strings.Join(sections, "\n\n")
}
