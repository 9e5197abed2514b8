package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// runInteractiveFinder lists files and directories under root and lets the
// user pick the ones to rename. It returns nil, nil when the user aborts.
func runInteractiveFinder(root string, skipHidden bool, mode RenameMode) ([]string, error) {
	candidates := []string{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}
		if skipHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		// Never offer repository internals.
		if d.IsDir() && d.Name() == ".git" {
			return fs.SkipDir
		}
		candidates = append(candidates, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning for files/directories: %w", err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no files or directories found to select from")
	}

	idx, err := fuzzyfinder.FindMulti(
		candidates,
		func(i int) string {
			return candidates[i]
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select files or directories to rename. Press Tab to multi-select, Enter to confirm."
			}
			path := candidates[i]
			info, statErr := os.Stat(path)
			if statErr != nil {
				return fmt.Sprintf("Path: %s\nError getting info: %v", path, statErr)
			}
			if info.IsDir() {
				return fmt.Sprintf("Path: %s\nType: Directory (every file inside is renamed)", path)
			}
			name := filepath.Base(path)
			return fmt.Sprintf("Path: %s\nType: File\nNew name (%s): %s", path, mode.Kind, Transform(name, mode))
		}),
	)
	if err != nil {
		if err == fuzzyfinder.ErrAbort {
			fmt.Println("Interactive selection aborted.")
			return nil, nil
		}
		return nil, fmt.Errorf("fuzzy finder error: %w", err)
	}

	selected := make([]string, len(idx))
	for i, index := range idx {
		selected[i] = candidates[index]
	}
	return selected, nil
}
