// SPDX-License-Identifier: AGPL-3.0-or-later
package scanner

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterFiles(t *testing.T) {
	tests := []struct {
		name     string
		paths    []string
		opts     FilterOptions
		expected []string
	}{
		{
			name:  "exclude node_modules",
			paths: []string{"a.rs", "node_modules/bad.js", "src/good.rs"},
			opts: FilterOptions{
				ExcludeDirs: []string{"node_modules"},
			},
			expected: []string{"a.rs", "src/good.rs"},
		},
		{
			name:  "exclude nested segment",
			paths: []string{"test/a.rs", "src/test/b.rs", "src/c.rs"},
			opts: FilterOptions{
				ExcludeDirs: []string{"test"},
			},
			expected: []string{"src/c.rs"},
		},
		{
			name:  "segment matching only",
			paths: []string{"tests/a.rs", "src/testing.rs", "examples/b.rs"},
			opts: FilterOptions{
				ExcludeDirs: []string{"test", "example"},
			},
			expected: []string{"examples/b.rs", "src/testing.rs", "tests/a.rs"},
		},
		{
			name:  "extension filter",
			paths: []string{"a.rs", "b.md", "c.rs"},
			opts: FilterOptions{
				IncludeExtensions: []string{".rs"},
			},
			expected: []string{"a.rs", "c.rs"},
		},
		{
			name:  "subtree",
			paths: []string{"docs/a.md", "docs/guide/b.md", "docsite/c.md", "README.md"},
			opts: FilterOptions{
				Under:             "docs",
				IncludeExtensions: []string{".md"},
			},
			expected: []string{"docs/a.md", "docs/guide/b.md"},
		},
		{
			name:  "single file",
			paths: []string{"docs/a.md", "docs/b.md"},
			opts: FilterOptions{
				Under: "docs/b.md",
			},
			expected: []string{"docs/b.md"},
		},
		{
			name:  "excluded segment above subtree is ignored",
			paths: []string{"example/src/lib.rs", "example/src/test/x.rs"},
			opts: FilterOptions{
				Under:       "example/src",
				ExcludeDirs: []string{"example", "test"},
			},
			expected: []string{"example/src/lib.rs"},
		},
		{
			name:  "dot means everything",
			paths: []string{"b.md", "a.md"},
			opts: FilterOptions{
				Under: ".",
			},
			expected: []string{"a.md", "b.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterFiles(tt.paths, tt.opts)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestScanner_GitRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	ctx := context.Background()

	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	createFile(t, dir, "src/lib.rs")
	createFile(t, dir, "vendor/foo.rs")
	createFile(t, dir, ".gitignore", "ignored.md\n")
	createFile(t, dir, "ignored.md")
	createFile(t, dir, "docs/index.md")

	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	// untracked but not ignored
	createFile(t, dir, "docs/new.md")
	// tracked then deleted
	require.NoError(t, os.Remove(filepath.Join(dir, "src", "lib.rs")))

	s := New(dir)

	files, err := s.Files(ctx)
	require.NoError(t, err)
	assert.Contains(t, files, "docs/index.md")
	assert.Contains(t, files, "docs/new.md")
	assert.NotContains(t, files, "vendor/foo.rs")
	assert.NotContains(t, files, "ignored.md")
	assert.NotContains(t, files, "src/lib.rs")

	filtered, err := s.FilesFiltered(ctx, FilterOptions{
		Under:             "docs",
		IncludeExtensions: []string{".md"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/index.md", "docs/new.md"}, filtered)
}

func TestScanner_SameListingInsideAndOutsideGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	ctx := context.Background()

	createFile(t, dir, "docs/index.md")
	createFile(t, dir, "docs/build/generated.md")
	createFile(t, dir, "target/debug/out.rs")
	createFile(t, dir, "crates/core/src/lib.rs")
	createFile(t, dir, "crates/core/src/build.rs")

	walked, err := New(dir).Files(ctx)
	require.NoError(t, err)

	runGit(t, dir, "init")
	runGit(t, dir, "add", ".")

	listed, err := New(dir).Files(ctx)
	require.NoError(t, err)

	want := []string{"crates/core/src/build.rs", "crates/core/src/lib.rs", "docs/index.md"}
	assert.ElementsMatch(t, want, walked)
	assert.ElementsMatch(t, want, listed)
}

func TestScanner_WalkFallback(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	createFile(t, dir, ".gitignore", "drafts/\n*.tmp\n")
	createFile(t, dir, "docs/index.md")
	createFile(t, dir, "docs/notes.tmp")
	createFile(t, dir, "drafts/wip.md")
	createFile(t, dir, "node_modules/pkg/readme.md")
	createFile(t, dir, "src/lib.rs")

	s := New(dir)
	files, err := s.Files(ctx)
	require.NoError(t, err)

	assert.Contains(t, files, "docs/index.md")
	assert.Contains(t, files, "src/lib.rs")
	assert.NotContains(t, files, "docs/notes.tmp")
	assert.NotContains(t, files, "drafts/wip.md")
	assert.NotContains(t, files, "node_modules/pkg/readme.md")
}

func TestScanner_RootErrors(t *testing.T) {
	ctx := context.Background()

	_, err := New(filepath.Join(t.TempDir(), "missing")).Files(ctx)
	require.Error(t, err)

	file := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = New(file).Files(ctx)
	require.ErrorIs(t, err, ErrNotDir)
}

func TestScanner_EmptyDirectory(t *testing.T) {
	files, err := New(t.TempDir()).Files(context.Background())
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.NotNil(t, files)
}

func runGit(t *testing.T, dir string, args ...string) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\nOutput: %s", args, err, out)
	}
}

func createFile(t *testing.T, dir, path string, content ...string) {
	fullPath := filepath.Join(dir, path)
	err := os.MkdirAll(filepath.Dir(fullPath), 0755)
	require.NoError(t, err)

	data := ""
	if len(content) > 0 {
		data = content[0]
	}
	err = os.WriteFile(fullPath, []byte(data), 0644)
	require.NoError(t, err)
}
