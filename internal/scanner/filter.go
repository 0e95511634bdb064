// SPDX-License-Identifier: AGPL-3.0-or-later

package scanner

import (
	"sort"
	"strings"
)

// FilterOptions defines criteria for including or excluding files.
type FilterOptions struct {
	// Under restricts results to a slash-separated subtree of the root.
	// A path equal to Under (a single file) also matches. Empty means all.
	Under string

	// ExcludeDirs is a list of path segments to exclude.
	// Matching is segment-aware: "vendor" excludes "vendor/foo" and "pkg/vendor/bar",
	// but not "vendor_stuff/foo". The file name is a segment too.
	ExcludeDirs []string

	// IncludeExtensions is a list of extensions to include (e.g., ".rs").
	// If empty, all extensions are included.
	IncludeExtensions []string
}

// DefaultExcludeDirs returns the directories never worth scanning.
func DefaultExcludeDirs() []string {
	return []string{
		"node_modules",
		".git",
		"dist",
		"build",
		"out",
		"vendor",
		"target",
		".idea",
		".docsentry",
	}
}

// FilterFiles applies the filter options to a list of file paths.
// It returns a new slice of strings, sorted deterministically.
func FilterFiles(paths []string, opts FilterOptions) []string {
	if len(paths) == 0 {
		return nil
	}

	under := strings.Trim(opts.Under, "/")
	if under == "." {
		under = ""
	}

	var filtered []string
	for _, path := range paths {
		if !isUnder(path, under) {
			continue
		}
		// Only the part below the subtree counts for segment exclusion, so a
		// subtree named e.g. "examples" can still be scanned explicitly.
		if shouldExclude(strings.TrimPrefix(path, under), opts.ExcludeDirs) {
			continue
		}
		if !shouldIncludeExtension(path, opts.IncludeExtensions) {
			continue
		}
		filtered = append(filtered, path)
	}

	sort.Strings(filtered)
	return filtered
}

func isUnder(path, under string) bool {
	if under == "" {
		return true
	}
	return path == under || strings.HasPrefix(path, under+"/")
}

// shouldExclude returns true if the path contains any of the excluded segments.
func shouldExclude(path string, excludes []string) bool {
	if len(excludes) == 0 {
		return false
	}
	parts := strings.Split(path, "/")
	for _, part := range parts {
		for _, exclude := range excludes {
			if part == exclude {
				return true
			}
		}
	}
	return false
}

// shouldIncludeExtension returns true if length is 0 OR path matches one extension.
func shouldIncludeExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
