package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
)

// gitMover stages renames of tracked files through the enclosing git
// worktree, like `git mv`. Untracked files, files outside a repository and
// destinations that already exist fall back to a plain rename.
type gitMover struct {
	fallback Mover
	warn     func(format string, args ...interface{})

	// Worktrees already opened, keyed by the directory that was searched.
	worktrees map[string]*git.Worktree
}

func newGitMover(fallback Mover, warn func(string, ...interface{})) *gitMover {
	return &gitMover{
		fallback:  fallback,
		warn:      warn,
		worktrees: make(map[string]*git.Worktree),
	}
}

func (m *gitMover) Move(from, to string) error {
	wt := m.worktree(filepath.Dir(from))
	if wt == nil {
		return m.fallback.Move(from, to)
	}
	if _, err := os.Lstat(to); err == nil {
		// Worktree.Move refuses to overwrite.
		return m.fallback.Move(from, to)
	}

	root := wt.Filesystem.Root()
	fromRel, err1 := relTo(root, from)
	toRel, err2 := relTo(root, to)
	if err1 != nil || err2 != nil {
		return m.fallback.Move(from, to)
	}

	_, err := wt.Move(fromRel, toRel)
	if errors.Is(err, index.ErrEntryNotFound) {
		return m.fallback.Move(from, to)
	}
	return err
}

// worktree returns the worktree containing dir, or nil when dir is not inside
// a repository.
func (m *gitMover) worktree(dir string) *git.Worktree {
	if wt, ok := m.worktrees[dir]; ok {
		return wt
	}
	var wt *git.Worktree
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err == nil {
		wt, err = repo.Worktree()
		if err != nil {
			m.warn("could not open git worktree for %s: %v", dir, err)
			wt = nil
		}
	} else if !errors.Is(err, git.ErrRepositoryNotExists) {
		m.warn("could not open git repository for %s: %v", dir, err)
	}
	m.worktrees[dir] = wt
	return wt
}

// relTo returns path relative to root, resolving both to absolute form first.
func relTo(root, path string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if r, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = r
	}
	if d, err := filepath.EvalSymlinks(filepath.Dir(absPath)); err == nil {
		absPath = filepath.Join(d, filepath.Base(absPath))
	}
	return filepath.Rel(absRoot, absPath)
}
