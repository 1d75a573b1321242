package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/JNZader/commitlint/internal/commit"
	"github.com/JNZader/commitlint/internal/textcase"
)

func mustParse(t *testing.T, raw string) *commit.Message {
	t.Helper()
	msg, err := commit.Parse(raw)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", raw, err)
	}
	return msg
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in      any
		want    Severity
		wantErr bool
	}{
		{0, SeverityOff, false},
		{1, SeverityWarning, false},
		{2, SeverityError, false},
		{int64(2), SeverityError, false},
		{"2", SeverityError, false},
		{"warn", SeverityWarning, false},
		{"Warning", SeverityWarning, false},
		{"error", SeverityError, false},
		{"off", SeverityOff, false},
		{3, SeverityOff, true},
		{-1, SeverityOff, true},
		{"fatal", SeverityOff, true},
	}

	for _, tt := range tests {
		got, err := ParseSeverity(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSeverity(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidLevel) {
			t.Errorf("ParseSeverity(%v) error %v is not ErrInvalidLevel", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseSeverity(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name    string
		raw     any
		want    Entry
		wantErr error
	}{
		{
			name: "tuple",
			raw:  []any{2, "always", 100},
			want: Entry{Level: SeverityError, When: Always, Value: 100},
		},
		{
			name: "tuple without value",
			raw:  []any{1, "never"},
			want: Entry{Level: SeverityWarning, When: Never},
		},
		{
			name: "level only",
			raw:  0,
			want: Entry{Level: SeverityOff},
		},
		{
			name: "map",
			raw:  map[string]any{"level": "error", "when": "always", "value": "lower-case"},
			want: Entry{Level: SeverityError, When: Always, Value: "lower-case"},
		},
		{
			name:    "bad condition",
			raw:     []any{2, "sometimes"},
			wantErr: ErrInvalidCondition,
		},
		{
			name:    "bad level",
			raw:     []any{5, "always"},
			wantErr: ErrInvalidLevel,
		},
		{
			name:    "too many items",
			raw:     []any{2, "always", 1, 2},
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntry(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseEntry() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEntry() error = %v", err)
			}
			if got.Level != tt.want.Level || got.When != tt.want.When || got.Value != tt.want.Value {
				t.Errorf("ParseEntry() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFromConfigOrdersByRegistry(t *testing.T) {
	rs, err := FromConfig(map[string]any{
		"type-enum":         []any{2, "always", []any{"Feat", "Fix"}},
		"header-max-length": []any{2, "always", 72},
		"subject-empty":     []any{1, "never"},
		"type-case":         []any{2, "always", "start-case"},
	})
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}

	want := []string{"header-max-length", "type-enum", "type-case", "subject-empty"}
	got := rs.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if rs.Len() != 4 {
		t.Errorf("Len() = %d, want 4", rs.Len())
	}

	r, ok := rs.Get("subject-empty")
	if !ok {
		t.Fatal("Get(subject-empty) not found")
	}
	if r.Severity != SeverityWarning || r.Condition != Never || r.AppliesTo != FieldSubject {
		t.Errorf("subject-empty = %+v", r)
	}
}

func TestFromConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]any
		want error
	}{
		{"unknown rule", map[string]any{"header-colour": []any{2, "always"}}, ErrUnknownRule},
		{"unknown style", map[string]any{"type-case": []any{2, "always", "shouting-case"}}, textcase.ErrUnknownStyle},
		{"missing length", map[string]any{"header-max-length": []any{2, "always"}}, ErrInvalidValue},
		{"negative length", map[string]any{"header-max-length": []any{2, "always", -1}}, ErrInvalidValue},
		{"missing enum", map[string]any{"type-enum": []any{2, "always"}}, ErrInvalidValue},
		{"bad level", map[string]any{"type-empty": []any{7, "never"}}, ErrInvalidLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromConfig(tt.cfg)
			if err == nil {
				t.Fatal("FromConfig() error = nil, want error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("FromConfig() error = %v, want %v", err, tt.want)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("error %v does not contain *ConfigError", err)
			}
		})
	}
}

func TestFromConfigDisabledRuleNeedsNoValue(t *testing.T) {
	rs, err := FromConfig(map[string]any{"header-max-length": 0})
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}
	r, _ := rs.Get("header-max-length")
	if r.Severity != SeverityOff {
		t.Errorf("Severity = %v, want off", r.Severity)
	}
	out := Evaluate(r, mustParse(t, "Fix: "+strings.Repeat("x", 200)))
	if !out.Passed {
		t.Error("disabled rule without value should pass")
	}
}

func TestNewRuleSetRejectsDuplicates(t *testing.T) {
	a, _ := Build("type-empty", Entry{Level: SeverityError})
	b, _ := Build("type-empty", Entry{Level: SeverityWarning})

	_, err := NewRuleSet(a, b)
	if !errors.Is(err, ErrDuplicateRule) {
		t.Fatalf("NewRuleSet() error = %v, want ErrDuplicateRule", err)
	}
}

func TestBuiltinRules(t *testing.T) {
	tests := []struct {
		rule  string
		entry []any
		raw   string
		pass  bool
	}{
		{"header-max-length", []any{2, "always", 10}, "Fix: Short", true},
		{"header-max-length", []any{2, "always", 10}, "Fix: Too long header", false},
		{"header-min-length", []any{2, "always", 10}, "Fix: X", false},
		{"header-case", []any{2, "always", "sentence-case"}, "Fix: Thing", true},
		{"header-case", []any{2, "always", "sentence-case"}, "fix: thing", false},
		{"header-full-stop", []any{2, "never"}, "Fix: Thing.", false},

		{"type-enum", []any{2, "always", []any{"Feat", "Fix"}}, "Fix: Thing", true},
		{"type-enum", []any{2, "always", []any{"Feat", "Fix"}}, "fix: Thing", false},
		{"type-enum", []any{2, "always", []any{"Feat", "Fix"}}, "No type here", true},
		{"type-enum", []any{2, "never", []any{"WIP"}}, "WIP: Thing", false},
		{"type-case", []any{2, "always", "start-case"}, "Feat: Thing", true},
		{"type-case", []any{2, "always", "start-case"}, "feat: Thing", false},
		{"type-case", []any{2, "always", []any{"lower-case", "upper-case"}}, "CI: Thing", true},
		{"type-empty", []any{2, "never"}, "Just words", false},
		{"type-empty", []any{2, "never"}, "Fix: Words", true},
		{"type-empty", []any{2, "always"}, "Just words", true},
		{"type-max-length", []any{2, "always", 4}, "Refactor: Thing", false},
		{"type-min-length", []any{2, "always", 3}, "CI: Thing", false},

		{"scope-enum", []any{2, "always", []any{"api", "core"}}, "Fix(api): Thing", true},
		{"scope-enum", []any{2, "always", []any{"api", "core"}}, "Fix(ui): Thing", false},
		{"scope-enum", []any{2, "always", []any{"api", "core"}}, "Fix: Thing", true},
		{"scope-case", []any{2, "always", "lower-case"}, "Fix(API): Thing", false},
		{"scope-empty", []any{2, "never"}, "Fix: Thing", false},

		{"subject-empty", []any{2, "never"}, "Fix:", false},
		{"subject-full-stop", []any{2, "never", "."}, "Fix: Thing.", false},
		{"subject-full-stop", []any{2, "never"}, "Fix: Thing", true},
		{"subject-full-stop", []any{2, "always", "!"}, "Fix: Thing!", true},
		{"subject-case", []any{2, "always", "sentence-case"}, "Fix: Correct off-by-one error", true},
		{"subject-case", []any{2, "never", []any{"sentence-case", "upper-case"}}, "fix: add thing", true},
		{"subject-case", []any{2, "never", []any{"sentence-case", "upper-case"}}, "fix: Add thing", false},
		{"subject-max-length", []any{2, "always", 5}, "Fix: Thing too long", false},
		{"subject-min-length", []any{2, "always", 5}, "Fix: Ok", false},

		{"body-leading-blank", []any{1, "always"}, "Fix: Thing\n\nBody", true},
		{"body-leading-blank", []any{1, "always"}, "Fix: Thing\nBody", false},
		{"body-leading-blank", []any{1, "always"}, "Fix: Thing\n\n\nBody", false},
		{"body-leading-blank", []any{1, "always"}, "Fix: Thing", true},
		{"body-max-line-length", []any{2, "always", 20}, "Fix: Thing\n\nshort\n" + strings.Repeat("y", 21), false},
		{"body-max-line-length", []any{2, "always", 20}, "Fix: Thing\n\nshort", true},
		{"body-empty", []any{2, "never"}, "Fix: Thing", false},

		{"footer-leading-blank", []any{1, "always"}, "Fix: Thing\n\nBody\n\nRefs #1", true},
		{"footer-leading-blank", []any{1, "always"}, "Fix: Thing\n\nBody\nRefs #1", false},
		{"footer-max-line-length", []any{2, "always", 10}, "Fix: Thing\n\nSigned-off-by: Someone Long", false},
		{"footer-empty", []any{2, "never"}, "Fix: Thing\n\nBody", false},

		{"references-empty", []any{2, "never"}, "Fix: Thing\n\nCloses #4", true},
		{"references-empty", []any{2, "never"}, "Fix: Thing", false},
	}

	for _, tt := range tests {
		t.Run(tt.rule+"/"+tt.raw, func(t *testing.T) {
			e, err := ParseEntry(tt.entry)
			if err != nil {
				t.Fatalf("ParseEntry() error = %v", err)
			}
			r, err := Build(tt.rule, e)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}

			out := Evaluate(r, mustParse(t, tt.raw))
			if out.Passed != tt.pass {
				t.Errorf("Passed = %v, want %v (message %q)", out.Passed, tt.pass, out.Message)
			}
			if !out.Passed && out.Message == "" {
				t.Error("failed outcome has no message")
			}
			if out.Rule != tt.rule {
				t.Errorf("Rule = %q, want %q", out.Rule, tt.rule)
			}
		})
	}
}

func TestFailureMessages(t *testing.T) {
	tests := []struct {
		rule  string
		entry []any
		raw   string
		want  string
	}{
		{
			rule:  "header-max-length",
			entry: []any{2, "always", 10},
			raw:   "Fix: Too long header",
			want:  "header must be shorter than or equal to 10 characters, current length is 20",
		},
		{
			rule:  "type-case",
			entry: []any{2, "always", "start-case"},
			raw:   "feat: Thing",
			want:  "type must be start-case",
		},
		{
			rule:  "subject-case",
			entry: []any{2, "never", []any{"sentence-case", "upper-case"}},
			raw:   "fix: Add thing",
			want:  "subject must not be one of [sentence-case, upper-case]",
		},
		{
			rule:  "type-enum",
			entry: []any{2, "always", []any{"Feat", "Fix"}},
			raw:   "Chore: Thing",
			want:  "type must be one of [Feat, Fix]",
		},
		{
			rule:  "subject-empty",
			entry: []any{2, "never"},
			raw:   "Fix:",
			want:  "subject may not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			e, _ := ParseEntry(tt.entry)
			r, err := Build(tt.rule, e)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			out := Evaluate(r, mustParse(t, tt.raw))
			if out.Message != tt.want {
				t.Errorf("Message = %q, want %q", out.Message, tt.want)
			}
		})
	}
}

func TestNewRuleInvalidTemplate(t *testing.T) {
	_, err := NewRule("custom", SeverityError, Always, FieldHeader, nil, nil, "{{.Broken")
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("NewRule() error = %v, want ErrInvalidValue", err)
	}
}

func TestEntryTuple(t *testing.T) {
	e, _ := ParseEntry([]any{2, "always", "lower-case"})
	r, err := Build("scope-case", e)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	got := r.Entry().Tuple()
	if len(got) != 3 || got[0] != 2 || got[1] != "always" || got[2] != "lower-case" {
		t.Errorf("Tuple() = %v", got)
	}
}

func TestFilters(t *testing.T) {
	rs, err := FromConfig(map[string]any{
		"header-max-length":  []any{2, "always", 100},
		"body-leading-blank": []any{1, "always"},
		"type-empty":         0,
		"scope-case":         []any{2, "always", "lower-case"},
	})
	if err != nil {
		t.Fatalf("FromConfig() error = %v", err)
	}

	if got := len(Enabled(rs)); got != 3 {
		t.Errorf("len(Enabled) = %d, want 3", got)
	}
	if got := len(BySeverity(rs, SeverityError)); got != 2 {
		t.Errorf("len(BySeverity(error)) = %d, want 2", got)
	}
	if got := ByField(rs, FieldScope); len(got) != 1 || got[0].Name != "scope-case" {
		t.Errorf("ByField(scope) = %v", got)
	}
	if got := Select(rs, []string{"HEADER-MAX-LENGTH"}); len(got) != 1 {
		t.Errorf("Select() = %d rules, want 1", len(got))
	}
	if got := Select(rs, nil); len(got) != 4 {
		t.Errorf("Select(nil) = %d rules, want 4", len(got))
	}
}
