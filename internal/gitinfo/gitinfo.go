// Package gitinfo reports repository state for the release workflow.
package gitinfo

import (
	"errors"

	git "github.com/go-git/go-git/v5"
)

var (
	ErrRepoNotFound = errors.New("git repo not found")
	errStatusFailed = errors.New("git status failed")
)

// Info is the repository state recorded at release time.
type Info struct {
	// Commit is the abbreviated HEAD hash, empty in a repo with no commits.
	Commit string
	// Clean reports whether the worktree has no staged or unstaged changes.
	Clean bool
}

// Describe opens the repository enclosing dir and reports its state.
func Describe(dir string) (Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Info{}, ErrRepoNotFound
		}
		return Info{}, errors.Join(ErrRepoNotFound, err)
	}

	info := Info{}
	if head, err := repo.Head(); err == nil {
		h := head.Hash().String()
		if len(h) > 7 {
			h = h[:7]
		}
		info.Commit = h
	}

	wt, err := repo.Worktree()
	if err != nil {
		return Info{}, errors.Join(errStatusFailed, err)
	}
	status, err := wt.Status()
	if err != nil {
		return Info{}, errors.Join(errStatusFailed, err)
	}
	info.Clean = status.IsClean()
	return info, nil
}
