package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

const shortHashLen = 7

// Repo implements Repository on go-git.
type Repo struct {
	repo   *gogit.Repository
	root   string
	gitDir string
}

var _ Repository = (*Repo)(nil)

// NewRepo opens the repository containing path, searching parent
// directories for .git.
func NewRepo(path string) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(absPath, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, absPath)
		}
		return nil, fmt.Errorf("failed to open repository at %s: %w", absPath, err)
	}

	r := &Repo{repo: repo}
	if wt, err := repo.Worktree(); err == nil {
		r.root = wt.Filesystem.Root()
	}
	if fs, ok := repo.Storer.(*filesystem.Storage); ok {
		r.gitDir = fs.Filesystem().Root()
	} else if r.root != "" {
		r.gitDir = filepath.Join(r.root, gogit.GitDirName)
	}

	return r, nil
}

// Root returns the worktree root.
func (r *Repo) Root() string {
	return r.root
}

// GitDir returns the repository's git directory.
func (r *Repo) GitDir() string {
	return r.gitDir
}

// EditMessagePath returns the path of COMMIT_EDITMSG in the git directory.
func (r *Repo) EditMessagePath() string {
	return filepath.Join(r.gitDir, EditMessageFile)
}

// ConfigValue reads commitlint.<key> from the repository's own config.
// Global and system configs are not consulted.
func (r *Repo) ConfigValue(key string) (string, bool) {
	cfg, err := r.repo.Config()
	if err != nil || cfg.Raw == nil {
		return "", false
	}
	if !cfg.Raw.HasSection(ConfigSection) {
		return "", false
	}
	v := cfg.Raw.Section(ConfigSection).Options.Get(key)
	if v == "" {
		return "", false
	}
	return v, true
}

// Commits walks the history from opts.To and stops at commits reachable
// from opts.From.
func (r *Repo) Commits(ctx context.Context, opts RangeOptions) ([]Commit, error) {
	to := opts.To
	if to == "" {
		to = "HEAD"
	}
	toHash, err := r.resolve(to)
	if err != nil {
		return nil, err
	}

	exclude := map[plumbing.Hash]bool{}
	if opts.From != "" {
		fromHash, err := r.resolve(opts.From)
		if err != nil {
			return nil, err
		}
		if err := r.walk(ctx, fromHash, func(c *object.Commit) error {
			exclude[c.Hash] = true
			return nil
		}); err != nil {
			return nil, err
		}
	}

	var commits []Commit
	err = r.walk(ctx, toHash, func(c *object.Commit) error {
		if exclude[c.Hash] {
			return nil
		}
		if opts.NoMerges && c.NumParents() > 1 {
			return nil
		}
		commits = append(commits, newCommit(c))
		if opts.Limit > 0 && len(commits) >= opts.Limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return commits, nil
}

// LatestTag returns the name of the first tagged commit found walking back
// from HEAD, or "" when no tag is reachable. Annotated tags are peeled to
// their commit.
func (r *Repo) LatestTag(ctx context.Context) (string, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return "", fmt.Errorf("failed to list tags: %w", err)
	}

	tagged := map[plumbing.Hash]string{}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		h := ref.Hash()
		if tag, err := r.repo.TagObject(h); err == nil {
			c, err := tag.Commit()
			if err != nil {
				return nil // tag of a tree or blob
			}
			h = c.Hash
		}
		// several tags on one commit: highest name wins
		if name := ref.Name().Short(); name > tagged[h] {
			tagged[h] = name
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to list tags: %w", err)
	}
	if len(tagged) == 0 {
		return "", nil
	}

	head, err := r.resolve("HEAD")
	if err != nil {
		return "", err
	}

	var name string
	err = r.walk(ctx, head, func(c *object.Commit) error {
		if n, ok := tagged[c.Hash]; ok {
			name = n
			return storer.ErrStop
		}
		return nil
	})
	return name, err
}

func (r *Repo) resolve(rev string) (plumbing.Hash, error) {
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve %q: %w", rev, err)
	}
	return *h, nil
}

func (r *Repo) walk(ctx context.Context, from plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := r.repo.Log(&gogit.LogOptions{From: from})
	if err != nil {
		return fmt.Errorf("failed to read log from %s: %w", from, err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(c)
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return err
	}
	return nil
}

func newCommit(c *object.Commit) Commit {
	hash := c.Hash.String()
	return Commit{
		Hash:        hash,
		ShortHash:   hash[:shortHashLen],
		Message:     c.Message,
		Author:      c.Author.Name,
		AuthorEmail: c.Author.Email,
		Date:        c.Author.When,
		Parents:     c.NumParents(),
	}
}
