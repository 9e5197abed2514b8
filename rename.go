package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

var errEmptyName = errors.New("transformed filename is empty")

// Mover performs the actual rename of a single file.
type Mover interface {
	Move(from, to string) error
}

// fsMover renames through an afero filesystem.
type fsMover struct {
	fs afero.Fs
}

func (m fsMover) Move(from, to string) error {
	return m.fs.Rename(from, to)
}

// ProcessFile decides the new name for path and applies it (or previews it in
// dry-run mode). It performs at most one call to mover and none when the name
// is unchanged, the destination collides, or DryRun is set.
func ProcessFile(fsys afero.Fs, mover Mover, path string, cfg *Config) (Outcome, error) {
	name := filepath.Base(path)
	if name == "." || name == ".." || name == string(filepath.Separator) || !utf8.ValidString(name) {
		return Outcome{Kind: OutcomeSkipped, From: path}, nil
	}

	newName := Transform(name, cfg.Mode)
	if newName == name {
		return Outcome{Kind: OutcomeUnchanged, From: path}, nil
	}
	if newName == "" {
		return Outcome{}, &IOError{Path: path, Err: errEmptyName}
	}

	candidate := filepath.Join(filepath.Dir(path), newName)

	final := candidate
	if !caseOnlyRename(fsys, path, candidate) {
		var err error
		final, err = ResolveCollision(fsys, candidate, cfg.Force, cfg.AutoNumber)
		if err != nil {
			return Outcome{}, err
		}
	}

	if cfg.DryRun {
		return Outcome{Kind: OutcomeDryRun, From: path, To: final}, nil
	}

	if err := mover.Move(path, final); err != nil {
		return Outcome{}, &IOError{Path: path, Err: err}
	}
	return Outcome{Kind: OutcomeRenamed, From: path, To: final}, nil
}

// caseOnlyRename reports whether candidate differs from path only in case and
// resolves to the same file because the filesystem folds case. Hard links that
// happen to differ only in case are separate entries and still collide.
func caseOnlyRename(fsys afero.Fs, path, candidate string) bool {
	newName := filepath.Base(candidate)
	if !strings.EqualFold(filepath.Base(path), newName) || !sameFile(fsys, path, candidate) {
		return false
	}
	entries, err := afero.ReadDir(fsys, filepath.Dir(candidate))
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Name() == newName {
			return false
		}
	}
	return true
}

// sameFile reports whether a and b resolve to the same file.
func sameFile(fsys afero.Fs, a, b string) bool {
	ai, err := fsys.Stat(a)
	if err != nil {
		return false
	}
	bi, err := fsys.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}
