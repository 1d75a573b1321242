package lint

import (
	"context"
	"fmt"
	"regexp"

	"github.com/JNZader/commitlint/internal/commit"
	"github.com/JNZader/commitlint/internal/logger"
	"github.com/JNZader/commitlint/internal/rules"
	"github.com/JNZader/commitlint/internal/worker"
)

// DefaultIgnorePatterns match headers git or hosting tools generate.
var DefaultIgnorePatterns = []string{
	`^Merge pull request #\d+`,
	`^Merge (remote-tracking )?branch `,
	`^Merge tag `,
	`^Merge .+ into .+`,
	`^Merged .+ (in|into) .+`,
	`^Automatic merge`,
	`^Auto-merged .+ into .+`,
	`^[Rr]evert ".*"`,
	`^(fixup|squash|amend)! `,
	`^(Initial|initial) commit$`,
}

// Options configures a Linter.
type Options struct {
	// DefaultIgnores enables DefaultIgnorePatterns.
	DefaultIgnores bool
	// Ignores are extra regular expressions matched against the header.
	Ignores []string
	// Concurrency bounds parallel linting; zero means GOMAXPROCS.
	Concurrency int
	Logger      *logger.Logger
}

// Input is a raw message and where it came from.
type Input struct {
	Source string // "stdin", a file path or a commit hash
	Raw    string
}

// Outcome is the lint result for one input.
type Outcome struct {
	Source  string          `json:"source,omitempty" yaml:"source,omitempty"`
	Header  string          `json:"header" yaml:"header"`
	Message *commit.Message `json:"-" yaml:"-"`
	Ignored bool            `json:"ignored,omitempty" yaml:"ignored,omitempty"`

	Result `yaml:",inline"`

	// Err is set when the message could not be parsed; Result is then
	// empty and Passed is false.
	Err error `json:"-" yaml:"-"`
}

// Linter parses, filters and validates commit messages with a fixed rule set.
// It is safe for concurrent use.
type Linter struct {
	rules       *rules.RuleSet
	ignores     []*regexp.Regexp
	concurrency int
	log         *logger.Logger
}

// New creates a linter. Invalid ignore patterns are reported as errors.
func New(rs *rules.RuleSet, opts Options) (*Linter, error) {
	if rs == nil {
		return nil, fmt.Errorf("lint: nil rule set")
	}

	patterns := opts.Ignores
	if opts.DefaultIgnores {
		patterns = append(append([]string{}, DefaultIgnorePatterns...), patterns...)
	}

	ignores := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		ignores = append(ignores, re)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	return &Linter{
		rules:       rs,
		ignores:     ignores,
		concurrency: opts.Concurrency,
		log:         log.WithPrefix("LINT"),
	}, nil
}

// Rules returns the linter's rule set.
func (l *Linter) Rules() *rules.RuleSet {
	return l.rules
}

// Lint parses and validates one raw message.
func (l *Linter) Lint(raw string) (*Outcome, error) {
	return l.LintInput(Input{Raw: raw})
}

// LintInput parses and validates one message. Ignored messages pass with no
// violations. The only error is a *commit.ParseError.
func (l *Linter) LintInput(in Input) (*Outcome, error) {
	msg, err := commit.Parse(in.Raw)
	if err != nil {
		return nil, err
	}

	out := &Outcome{
		Source:  in.Source,
		Header:  msg.Header,
		Message: msg,
	}

	if l.isIgnored(msg.Header) {
		l.log.Debug("ignored %s: %q", sourceName(in.Source), msg.Header)
		out.Ignored = true
		out.Result = Result{Passed: true, Violations: []Violation{}}
		return out, nil
	}

	out.Result = Validate(msg, l.rules)
	l.log.Debug("linted %s: %d errors, %d warnings", sourceName(in.Source), out.Errors(), out.Warnings())
	return out, nil
}

func (l *Linter) isIgnored(header string) bool {
	for _, re := range l.ignores {
		if re.MatchString(header) {
			return true
		}
	}
	return false
}

// lintTask implements worker.Task for one input.
type lintTask struct {
	id     string
	in     Input
	linter *Linter
	out    *Outcome
}

func (t *lintTask) ID() string {
	return t.id
}

func (t *lintTask) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	out, err := t.linter.LintInput(t.in)
	if err != nil {
		t.out = &Outcome{Source: t.in.Source, Err: err, Result: Result{Violations: []Violation{}}}
		return err
	}
	t.out = out
	return nil
}

// LintAll lints inputs on the worker pool and returns outcomes in input
// order. Messages that fail to parse get an Outcome with Err set; the
// returned error is non-nil only when ctx is cancelled.
func (l *Linter) LintAll(ctx context.Context, inputs []Input) ([]*Outcome, error) {
	if len(inputs) == 0 {
		return []*Outcome{}, nil
	}

	tasks := make([]worker.Task, len(inputs))
	lt := make([]*lintTask, len(inputs))
	for i, in := range inputs {
		lt[i] = &lintTask{id: fmt.Sprintf("lint:%d", i), in: in, linter: l}
		tasks[i] = lt[i]
	}

	l.log.Info("linting %d messages", len(inputs))

	if _, err := worker.Run(ctx, worker.Config{Workers: l.concurrency}, tasks); err != nil {
		l.log.Warn("lint cancelled: %v", err)
		return nil, err
	}

	outcomes := make([]*Outcome, len(lt))
	for i, t := range lt {
		if t.out == nil {
			// skipped after cancellation
			return nil, context.Cause(ctx)
		}
		outcomes[i] = t.out
	}
	return outcomes, nil
}

// LintCommits lints commit messages (hash → message pairs in order).
func (l *Linter) LintCommits(ctx context.Context, commits []Commit) ([]*Outcome, error) {
	inputs := make([]Input, len(commits))
	for i, c := range commits {
		inputs[i] = Input{Source: c.Hash, Raw: c.Message}
	}
	return l.LintAll(ctx, inputs)
}

// Commit is a commit to lint.
type Commit struct {
	Hash    string
	Message string
}

func sourceName(s string) string {
	if s == "" {
		return "message"
	}
	return s
}
