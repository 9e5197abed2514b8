package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
)

// Run processes every file reachable from cfg.Paths, one at a time. Per-file
// failures (I/O, collision, traversal) never stop the run; they are combined
// into the returned error, which is nil when every file succeeded.
func Run(fsys afero.Fs, mover Mover, cfg *Config, rep *Reporter) error {
	var errs error
	for _, root := range cfg.Paths {
		err := walkPath(fsys, root, cfg, func(path string) {
			o, err := ProcessFile(fsys, mover, path, cfg)
			if err != nil {
				rep.Failure(err)
				errs = multierr.Append(errs, err)
				return
			}
			rep.Outcome(o)
		}, func(terr error) {
			rep.Failure(terr)
			errs = multierr.Append(errs, terr)
		})
		if err != nil {
			rep.Failure(err)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// walkPath calls visit for every regular file rooted at root that passes the
// configured filters. A root that is itself a file is visited directly, and a
// symlinked root directory is followed. Paths handed to visit and fail keep the
// root as the caller spelled it. Enumeration problems are handed to fail and
// the walk continues.
func walkPath(fsys afero.Fs, root string, cfg *Config, visit func(string), fail func(error)) error {
	info, err := fsys.Stat(root)
	if err != nil {
		fail(&TraversalError{Path: root, Err: err})
		return nil
	}

	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			return nil
		}
		keep, err := keepFile(filepath.Base(root), cfg)
		if err != nil {
			return err
		}
		if keep {
			visit(root)
		}
		return nil
	}

	walkRoot, err := resolveRoot(fsys, root)
	if err != nil {
		fail(&TraversalError{Path: root, Err: err})
		return nil
	}

	var ignoreMatcher gitignore.IgnoreMatcher
	if cfg.GitIgnore {
		ignoreMatcher = loadGitIgnore(fsys, root, fail)
	}

	return afero.Walk(fsys, walkRoot, func(path string, fi os.FileInfo, err error) error {
		path = underRoot(root, walkRoot, path)
		if err != nil {
			fail(&TraversalError{Path: path, Err: err})
			return nil
		}
		if path == root {
			return nil
		}

		baseName := fi.Name()
		isDir := fi.IsDir()

		if cfg.SkipHidden && isHidden(baseName) {
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}

		if ignoreMatcher != nil && ignoreMatcher.Match(path, isDir) {
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}

		if isDir {
			excluded, err := matchesAnyPattern(baseName, cfg.Exclude)
			if err != nil {
				return err
			}
			if excluded {
				return filepath.SkipDir
			}
			if cfg.MaxDepth > 0 && depth(root, path) >= cfg.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if !fi.Mode().IsRegular() {
			return nil
		}
		keep, err := keepFile(baseName, cfg)
		if err != nil {
			return err
		}
		if keep {
			visit(path)
		}
		return nil
	})
}

// resolveRoot returns the directory to walk for root. afero.Walk does not
// descend through a symlink, so a linked root is resolved on the OS filesystem.
func resolveRoot(fsys afero.Fs, root string) (string, error) {
	if _, ok := fsys.(*afero.OsFs); !ok {
		return root, nil
	}
	fi, err := os.Lstat(root)
	if err != nil {
		return "", err
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		return root, nil
	}
	return filepath.EvalSymlinks(root)
}

// underRoot maps a path found below walkRoot back under root.
func underRoot(root, walkRoot, path string) string {
	if walkRoot == root {
		return path
	}
	rel, err := filepath.Rel(walkRoot, path)
	if err != nil || rel == "." {
		return root
	}
	return filepath.Join(root, rel)
}

// keepFile applies the include/exclude globs to a file's base name.
func keepFile(name string, cfg *Config) (bool, error) {
	excluded, err := matchesAnyPattern(name, cfg.Exclude)
	if err != nil || excluded {
		return false, err
	}
	if len(cfg.Include) == 0 {
		return true, nil
	}
	return matchesAnyPattern(name, cfg.Include)
}

// loadGitIgnore reads root/.gitignore through fsys. A missing file is not an
// error; an unreadable one is reported and ignored.
func loadGitIgnore(fsys afero.Fs, root string, fail func(error)) gitignore.IgnoreMatcher {
	path := filepath.Join(root, ".gitignore")
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if !os.IsNotExist(err) {
			fail(&TraversalError{Path: path, Err: err})
		}
		return nil
	}
	return gitignore.NewGitIgnoreFromReader(root, bytes.NewReader(data))
}

// matchesAnyPattern checks if the given name matches any of the provided glob patterns.
func matchesAnyPattern(name string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, name)
		if err != nil {
			return false, fmt.Errorf("invalid glob pattern '%s': %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}

// isHidden reports whether a base name starts with a dot.
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}

// depth returns how many path elements path lies below root; a direct child is 1.
func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(filepath.ToSlash(rel), "/") + 1
}
