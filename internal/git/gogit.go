package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/Johannes-Berggren/GitHistory/internal/logger"
)

// GoGitFetcher reads history in-process with go-git. It renders commits
// with FormatRecord so its output goes through the same parser as the
// git CLI's.
type GoGitFetcher struct{}

func NewGoGitFetcher() *GoGitFetcher {
	return &GoGitFetcher{}
}

// FetchLog walks HEAD in committer-time order, keeping commits that touch path.
func (f *GoGitFetcher) FetchLog(ctx context.Context, path string, count int) (string, error) {
	target, dir, err := resolveTarget(path)
	if err != nil {
		return "", err
	}

	repo, root, err := openRepository(dir)
	if err != nil {
		return "", err
	}

	if resolved, err := filepath.EvalSymlinks(target); err == nil {
		target = resolved
	}
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s in %s: %w", target, root, err)
	}
	rel = filepath.ToSlash(rel)

	ref, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			// No commits yet.
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	opts := &gogit.LogOptions{
		From:  ref.Hash(),
		Order: gogit.LogOrderCommitterTime,
	}
	if rel != "." {
		opts.PathFilter = pathFilter(rel)
	}

	logger.Named("go-git").WithField("path", rel).WithField("count", count).Info("walking history")

	iter, err := repo.Log(opts)
	if err != nil {
		return "", fmt.Errorf("failed to read log: %w", err)
	}
	defer iter.Close()

	var b strings.Builder
	seen := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if count > 0 && seen >= count {
			return storer.ErrStop
		}
		seen++
		return FormatRecord(&b, Record{
			Hash:    c.Hash.String(),
			Author:  c.Author.Name,
			Email:   c.Author.Email,
			Date:    c.Author.When.Format("2006-01-02"),
			Message: c.Message,
		})
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk log: %w", err)
	}

	return b.String(), nil
}

// Branch returns the short name of HEAD, or "HEAD" when detached.
func (f *GoGitFetcher) Branch(_ context.Context, path string) (string, error) {
	_, dir, err := resolveTarget(path)
	if err != nil {
		return "", err
	}

	repo, _, err := openRepository(dir)
	if err != nil {
		return "", err
	}

	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	if !ref.Name().IsBranch() {
		return "HEAD", nil
	}
	return ref.Name().Short(), nil
}

func openRepository(dir string) (*gogit.Repository, string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, "", fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open worktree: %w", err)
	}

	root, err := filepath.EvalSymlinks(wt.Filesystem.Root())
	if err != nil {
		root = wt.Filesystem.Root()
	}
	return repo, root, nil
}

func pathFilter(rel string) func(string) bool {
	return func(p string) bool {
		return p == rel || strings.HasPrefix(p, rel+"/")
	}
}
