// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projectroot resolves the directory a run operates on.
package projectroot

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolve returns the absolute, symlink-free form of path, which must be an
// existing directory. An empty path means the working directory.
func Resolve(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", path, err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("resolving root %s: %w", path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("resolving root %s: not a directory", path)
	}
	return abs, nil
}

// Under joins rel onto root unless rel is already absolute.
func Under(root, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(root, rel)
}
