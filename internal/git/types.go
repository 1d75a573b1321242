// Package git provides the Git repository access commitlint needs: the
// repository root, commit ranges, the pending commit message and the
// [commitlint] section of the git config.
package git

import (
	"context"
	"errors"
	"time"
)

// ConfigSection is the git config section read by ConfigValue.
const ConfigSection = "commitlint"

// EditMessageFile is the file git writes the message being committed to.
const EditMessageFile = "COMMIT_EDITMSG"

// ErrNotRepository is returned when no repository contains the given path.
var ErrNotRepository = errors.New("not a git repository")

// Repository defines the interface for Git operations.
// This abstraction allows for testing with in-memory implementations.
type Repository interface {
	// Root returns the worktree root, or "" for bare repositories.
	Root() string

	// Commits returns the commits selected by opts, newest first.
	Commits(ctx context.Context, opts RangeOptions) ([]Commit, error)

	// EditMessagePath returns the path of COMMIT_EDITMSG.
	EditMessagePath() string

	// ConfigValue returns a key of the [commitlint] git config section.
	ConfigValue(key string) (string, bool)
}

// RangeOptions selects commits like "git log From..To".
type RangeOptions struct {
	// From is excluded along with its ancestors. Empty means the root.
	From string
	// To defaults to HEAD.
	To string
	// NoMerges drops commits with more than one parent.
	NoMerges bool
	// Limit caps the number of commits; zero means no limit.
	Limit int
}

// Commit represents a git commit to lint.
type Commit struct {
	Hash        string    `json:"hash"`
	ShortHash   string    `json:"short_hash"`
	Message     string    `json:"message"`
	Author      string    `json:"author"`
	AuthorEmail string    `json:"author_email"`
	Date        time.Time `json:"date"`
	Parents     int       `json:"parents"`
}
