// SPDX-License-Identifier: AGPL-3.0-or-later

// Package corpus supplies the inputs a run analyzes: each one an identifier,
// its text, or the error that kept it from being read.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bartekus/docsentry/internal/scanner"
)

// ErrOutsideRoot is returned when a target path escapes the project root.
var ErrOutsideRoot = errors.New("path is outside the project root")

// Entry is one input of a corpus.
// Exactly one of Text and Err is meaningful.
type Entry struct {
	ID   string // slash-separated, relative to the root
	Path string // absolute path on disk, empty for in-memory entries
	Text string
	Err  error
}

// Supplier yields the entries of a corpus in a stable order.
type Supplier interface {
	Entries(ctx context.Context) ([]Entry, error)
}

// Options selects which files of a tree form the corpus.
type Options struct {
	// Target is the file or directory to analyze, absolute or relative to
	// the root.
	Target     string
	Extensions []string
	// SkipSegments excludes any path below Target with one of these segments.
	SkipSegments []string
}

// FS supplies entries from files on disk.
type FS struct {
	scanner *scanner.Scanner
	opts    Options
}

// NewFS returns a supplier over the files below root selected by opts.
func NewFS(s *scanner.Scanner, opts Options) *FS {
	return &FS{scanner: s, opts: opts}
}

// Entries lists and reads the selected files. A missing target or an
// unlistable root is an error; a file that cannot be read is an entry with
// Err set.
func (f *FS) Entries(ctx context.Context) ([]Entry, error) {
	root := f.scanner.Root()
	under, err := Relative(root, f.opts.Target)
	if err != nil {
		return nil, err
	}

	target := filepath.Join(root, filepath.FromSlash(under))
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", f.opts.Target, err)
	}

	var ids []string
	if info.IsDir() {
		ids, err = f.scanner.FilesFiltered(ctx, scanner.FilterOptions{
			Under:             under,
			ExcludeDirs:       f.opts.SkipSegments,
			IncludeExtensions: f.opts.Extensions,
		})
		if err != nil {
			return nil, err
		}
	} else {
		// An explicit file is analyzed whatever its extension.
		ids = []string{under}
	}

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(root, filepath.FromSlash(id))
		e := Entry{ID: id, Path: path}
		data, err := os.ReadFile(path)
		if err != nil {
			e.Err = err
		} else {
			e.Text = string(data)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Relative returns target as a slash-separated path relative to root, "."
// for an empty target. A target outside root is an error.
func Relative(root, target string) (string, error) {
	if target == "" {
		return ".", nil
	}
	abs := target
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, target)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("target %s: %w", target, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("target %s: %w", target, ErrOutsideRoot)
	}
	return filepath.ToSlash(rel), nil
}

// Static is an in-memory supplier.
type Static []Entry

func (s Static) Entries(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]Entry(nil), s...), nil
}
