// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scanner lists the files of a project tree.
//
// Inside a git work tree the listing comes from git itself (tracked plus
// untracked-but-not-ignored files). Elsewhere the tree is walked and the
// root .gitignore, if any, is honored. Either way, files below one of
// DefaultExcludeDirs are left out.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	ignore "github.com/sabhiram/go-gitignore"
)

// ErrNotDir is returned when the scan root is not a directory.
var ErrNotDir = errors.New("not a directory")

// Scanner provides access to the files under a root directory.
type Scanner struct {
	root string

	mu        sync.Mutex
	fileCache []string
}

// New creates a new Scanner for the given root.
func New(root string) *Scanner {
	return &Scanner{
		root: root,
	}
}

// Root returns the directory the scanner lists.
func (s *Scanner) Root() string { return s.root }

// Files returns every candidate file below the root as slash-separated
// relative paths, caching the result for the instance lifetime.
func (s *Scanner) Files(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fileCache != nil {
		return s.fileCache, nil
	}

	info, err := os.Stat(s.root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanning %s: %w", s.root, ErrNotDir)
	}

	files, err := s.gitFiles(ctx)
	if err == nil {
		files = dropExcludedDirs(files)
	} else {
		files, err = s.walkFiles(ctx)
		if err != nil {
			return nil, err
		}
	}

	if files == nil {
		files = []string{}
	}
	s.fileCache = files
	return s.fileCache, nil
}

// FilesFiltered returns the files matching the filter options.
func (s *Scanner) FilesFiltered(ctx context.Context, opts FilterOptions) ([]string, error) {
	all, err := s.Files(ctx)
	if err != nil {
		return nil, err
	}
	return FilterFiles(all, opts), nil
}

func (s *Scanner) gitFiles(ctx context.Context) ([]string, error) {
	// -z to avoid escaping issues
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z", "--cached", "--others", "--exclude-standard")
	cmd.Dir = s.root
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}

	trimmed := strings.TrimSuffix(string(out), "\x00")
	if trimmed == "" {
		return nil, nil
	}

	var files []string
	for _, rel := range strings.Split(trimmed, "\x00") {
		// Tracked files deleted from the work tree are still listed.
		if _, err := os.Lstat(filepath.Join(s.root, filepath.FromSlash(rel))); err != nil {
			continue
		}
		files = append(files, rel)
	}
	return files, nil
}

// dropExcludedDirs removes paths with a directory segment in
// DefaultExcludeDirs, matching what walkFiles prunes.
func dropExcludedDirs(files []string) []string {
	skip := excludedDirSet()
	kept := files[:0]
	for _, rel := range files {
		dirs := strings.Split(rel, "/")
		excluded := false
		for _, d := range dirs[:len(dirs)-1] {
			if _, ok := skip[d]; ok {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, rel)
		}
	}
	return kept
}

func excludedDirSet() map[string]struct{} {
	skip := make(map[string]struct{})
	for _, d := range DefaultExcludeDirs() {
		skip[d] = struct{}{}
	}
	return skip
}

func (s *Scanner) walkFiles(ctx context.Context) ([]string, error) {
	gi := loadGitignore(s.root)
	skip := excludedDirSet()

	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			return nil // unreadable subtrees are skipped
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if path == s.root {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if _, ok := skip[d.Name()]; ok {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", s.root, err)
	}
	return files, nil
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
