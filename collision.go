package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// ResolveCollision returns the path a file should be renamed to, given the
// candidate destination and the collision policy. force and autoNumber must
// not both be set; Config.Validate enforces that before any file is seen.
//
// Existence is checked against fsys on every step and nothing is cached:
// another process may create or remove files between checks, and between the
// final check and the rename. That race surfaces as an I/O error at rename time.
func ResolveCollision(fsys afero.Fs, candidate string, force, autoNumber bool) (string, error) {
	if !pathExists(fsys, candidate) {
		return candidate, nil
	}
	if force {
		return candidate, nil
	}
	if !autoNumber {
		return "", &CollisionError{Path: candidate}
	}

	dir := filepath.Dir(candidate)
	stem, ext := splitName(filepath.Base(candidate))
	if ext == "." {
		// A trailing dot is not an extension: "notes." numbers as "notes(1)".
		ext = ""
	}
	for i := 1; ; i++ {
		numbered := filepath.Join(dir, fmt.Sprintf("%s(%d)%s", stem, i, ext))
		if !pathExists(fsys, numbered) {
			return numbered, nil
		}
	}
}

// splitName splits name into stem and extension so that stem+ext == name.
// ext keeps its leading dot. A name whose only dot is the first character
// (".gitignore") has no extension.
func splitName(name string) (stem, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

func pathExists(fsys afero.Fs, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}
