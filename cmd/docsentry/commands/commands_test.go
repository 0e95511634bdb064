// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/docsentry/cmd/docsentry/internal/clierr"
	"github.com/bartekus/docsentry/internal/extract"
	"github.com/bartekus/docsentry/internal/structure"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// execute runs the root command against root and returns stdout, stderr and
// the process exit code main would use.
func execute(t *testing.T, root string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--root", root}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), clierr.ExitCodeOf(err)
}

func TestCLIContract(t *testing.T) {
	out, _, code := execute(t, t.TempDir(), "--help")
	require.Equal(t, 0, code)

	for _, c := range []string{"completion", "coverage", "help", "llms", "run", "schema", "validate", "version"} {
		assert.Contains(t, out, c, "expected top-level command %q in root help", c)
	}
}

func TestVersion(t *testing.T) {
	t.Setenv("DOCSENTRY_VERSION", "1.2.3")
	out, _, code := execute(t, t.TempDir(), "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "docsentry version 1.2.3\n", out)
}

const (
	documentedLib = "/// Entry point.\npub fn run() {}\n\npub struct Config {}\n"
	goodDoc       = "---\nlayout: default\ntitle: Home\nnav_order: 1\n---\n# Home\n\n## Intro\n"
)

func TestCoverage(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"crates/core/src/lib.rs":         documentedLib,
		"crates/core/src/example/ex.rs":  "pub fn skipped() {}\n",
		"crates/core/src/private_mod.rs": "fn hidden() {}\n",
	})

	out, _, code := execute(t, root, "coverage")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Total public APIs: 2")
	assert.Contains(t, out, "Coverage: 50.0%")
	assert.Contains(t, out, "struct: Config in crates/core/src/lib.rs:4")
	assert.NotContains(t, out, "skipped")
}

func TestCoverage_Verdicts(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"crates/core/src/lib.rs": documentedLib})

	tcs := map[string]struct {
		args []string
		want int
	}{
		"threshold met":      {args: []string{"--threshold", "50"}, want: 0},
		"threshold missed":   {args: []string{"--threshold", "80"}, want: clierr.ExitVerdict},
		"strict":             {args: []string{"--strict"}, want: clierr.ExitVerdict},
		"threshold too high": {args: []string{"--threshold", "101"}, want: clierr.ExitOperational},
		"threshold NaN":      {args: []string{"--threshold", "NaN"}, want: clierr.ExitOperational},
		"missing path":       {args: []string{"--path", "nope"}, want: clierr.ExitOperational},
		"unknown format":     {args: []string{"--format", "xml"}, want: clierr.ExitOperational},
		"unknown flag":       {args: []string{"--bogus"}, want: clierr.ExitOperational},
	}
	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, _, code := execute(t, root, append([]string{"coverage"}, tc.args...)...)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestCoverage_NoSources(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"crates/README.md": "nothing here\n"})

	out, _, code := execute(t, root, "coverage", "--strict", "--threshold", "90")
	assert.Equal(t, 0, code)
	assert.Equal(t, "No public APIs found.\n", out)
}

func TestCoverage_JSONToFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"crates/core/src/lib.rs": documentedLib})
	dest := filepath.Join(root, "out", "coverage.json")

	out, _, code := execute(t, root, "coverage", "--format", "json", "-o", dest)
	require.Equal(t, 0, code)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	var doc struct {
		Total        int     `json:"total"`
		Documented   int     `json:"documented"`
		Coverage     float64 `json:"coverage"`
		FilesScanned int     `json:"files_scanned"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 2, doc.Total)
	assert.Equal(t, 1, doc.Documented)
	assert.InDelta(t, 50.0, doc.Coverage, 0.001)
	assert.Equal(t, 1, doc.FilesScanned)
}

func TestCoverage_ConfigFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/lib.rs":      documentedLib,
		".docsentry.yaml": "source:\n  path: src\ncoverage:\n  threshold: 75\n",
	})

	_, stderr, code := execute(t, root, "coverage")
	assert.Equal(t, clierr.ExitVerdict, code)
	assert.Empty(t, stderr)

	_, _, code = execute(t, root, "coverage", "--threshold", "10")
	assert.Equal(t, 0, code)
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"docs/index.md": goodDoc})

	out, _, code := execute(t, root, "validate")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Checked 1 files")
	assert.Contains(t, out, "All validations passed!")

	writeTree(t, root, map[string]string{"docs/guide/skip.md": goodDoc + "#### Deep\n"})
	out, _, code = execute(t, root, "validate")
	assert.Equal(t, clierr.ExitVerdict, code)
	assert.Contains(t, out, "heading-level-skip: docs/guide/skip.md")
}

func TestValidate_PathArgument(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"site/index.md": goodDoc,
		"docs/bad.md":   "# Bad\n",
	})

	_, _, code := execute(t, root, "validate", "site")
	assert.Equal(t, 0, code)

	_, _, code = execute(t, root, "validate", "missing")
	assert.Equal(t, clierr.ExitOperational, code)
}

func TestValidate_Fix(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"docs/index.md":           goodDoc,
		"docs/getting-started.md": "Some text.\n",
	})

	out, stderr, code := execute(t, root, "validate", "--fix")
	assert.Equal(t, clierr.ExitVerdict, code)
	assert.Contains(t, out, "missing-metadata-block: docs/getting-started.md")
	assert.Contains(t, stderr, "Fixed: docs/getting-started.md")
	assert.NotContains(t, out, "Fixed:")

	data, err := os.ReadFile(filepath.Join(root, "docs", "getting-started.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Getting Started")
	assert.Contains(t, string(data), "Some text.\n")

	_, _, code = execute(t, root, "validate")
	assert.Equal(t, 0, code)
}

func TestValidate_Verbose(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"docs/index.md": goodDoc})

	_, stderr, code := execute(t, root, "validate", "-v")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "docs/index.md")

	_, stderr, _ = execute(t, root, "validate")
	assert.NotContains(t, stderr, "docs/index.md")
}

func TestValidate_Markdown(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"docs/index.md": goodDoc})

	out, _, code := execute(t, root, "validate", "--format", "md")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "# Documentation Structure Report")
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"crates/core/src/lib.rs": documentedLib,
		"docs/index.md":          goodDoc,
		"docs/bad.md":            "# Bad\n",
	})

	out, _, code := execute(t, root, "run", "list")
	assert.Equal(t, 0, code)
	assert.Equal(t, "api:coverage\ndocs:structure\n", out)

	out, _, code = execute(t, root, "run", "list", "--json")
	assert.Equal(t, 0, code)
	assert.JSONEq(t, `{"checks": ["api:coverage", "docs:structure"]}`, out)

	out, _, code = execute(t, root, "run", "all")
	assert.Equal(t, clierr.ExitVerdict, code)
	assert.Contains(t, out, "PASS: api:coverage")
	assert.Contains(t, out, "FAIL: docs:structure (exit 1)")
	assert.FileExists(t, filepath.Join(root, ".docsentry", "run", "last-run.json"))

	out, _, code = execute(t, root, "run", "report")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Status: fail")
	assert.Contains(t, out, "  - docs:structure")

	// Resume re-runs only the failure.
	require.NoError(t, os.Remove(filepath.Join(root, "docs", "bad.md")))
	out, _, code = execute(t, root, "run", "resume")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "PASS: docs:structure")
	assert.NotContains(t, out, "api:coverage")

	out, _, code = execute(t, root, "run", "resume")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "No failed checks to resume.")

	_, _, code = execute(t, root, "run", "reset")
	assert.Equal(t, 0, code)
	out, _, code = execute(t, root, "run", "report")
	assert.Equal(t, 0, code)
	assert.Equal(t, "No run state found.\n", out)
}

func TestRun_Selected(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"docs/index.md": goodDoc})
	stateDir := filepath.Join(t.TempDir(), "state")

	out, _, code := execute(t, root, "run", "--state-dir", stateDir, "docs:structure")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "PASS: docs:structure")
	assert.FileExists(t, filepath.Join(stateDir, "checks", "docs_structure.json"))

	_, _, code = execute(t, root, "run", "nope:check")
	assert.Equal(t, clierr.ExitOperational, code)
}

func TestSchema(t *testing.T) {
	tcs := map[string]string{
		"coverage":   "files_scanned",
		"validation": "files_checked",
	}
	for name, prop := range tcs {
		t.Run(name, func(t *testing.T) {
			out, _, code := execute(t, t.TempDir(), "schema", name)
			require.Equal(t, 0, code)

			var schema map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &schema))
			assert.Equal(t, "object", schema["type"])
			assert.Contains(t, schema["properties"], prop)
		})
	}

	_, _, code := execute(t, t.TempDir(), "schema", "roadmap")
	assert.Equal(t, clierr.ExitOperational, code)
}

func TestSchema_Enums(t *testing.T) {
	out, _, code := execute(t, t.TempDir(), "schema", "coverage")
	require.Equal(t, 0, code)
	kinds := enumAt(t, out, "apis", "api_type")
	assert.Len(t, kinds, len(extract.Kinds()))
	assert.Contains(t, kinds, "static")

	out, _, code = execute(t, t.TempDir(), "schema", "validation")
	require.Equal(t, 0, code)
	for _, list := range []string{"by_category", "issues", "advisories"} {
		cats := enumAt(t, out, list, "category")
		assert.Len(t, cats, len(structure.Categories()), list)
		assert.Contains(t, cats, "missing-recommended-key", list)
	}
}

// enumAt returns the enum of field inside the items of the array property
// list.
func enumAt(t *testing.T, doc, list, field string) []any {
	t.Helper()
	var schema struct {
		Properties map[string]struct {
			Items struct {
				Properties map[string]struct {
					Enum []any `json:"enum"`
				} `json:"properties"`
			} `json:"items"`
		} `json:"properties"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &schema))
	return schema.Properties[list].Items.Properties[field].Enum
}

func llmsTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"docs/index.md":             "---\ntitle: Home\n---\nWelcome.\n",
		"docs/getting-started.md":   "---\nlayout: default\nnav_order: 1\n---\n# Getting Started\n\nStart here.\n",
		"docs/install.md":           "---\ntitle: Install\nparent: Getting Started\n---\n# Install\n\nRun the installer.\n",
		"docs/hidden.md":            "---\ntitle: Hidden\nnav_exclude: true\n---\nSecret.\n",
		"docs/_includes/partial.md": "---\ntitle: Partial\n---\n",
	})
	return root
}

func TestLLMs(t *testing.T) {
	root := llmsTree(t)

	out, _, code := execute(t, root, "llms", "--base-url", "https://x.io/", "--name", "Proj")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Found 3 documentation pages")
	assert.Regexp(t, `Generated .*llms\.txt \(\d+ bytes\)`, out)

	compact, err := os.ReadFile(filepath.Join(root, "docs", "llms.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(compact), "# Proj\n")
	assert.Contains(t, string(compact), "## Getting Started\n")
	assert.Contains(t, string(compact), "- [Getting Started](https://x.io/getting-started): Start here.")
	assert.Contains(t, string(compact), "- [Install](https://x.io/install): Run the installer.")
	assert.NotContains(t, string(compact), "Hidden")
	assert.NotContains(t, string(compact), "Partial")
	assert.NotContains(t, string(compact), "[Home]")

	full, err := os.ReadFile(filepath.Join(root, "docs", "llms-full.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(full), "## Install\nSource: https://x.io/install\n\n# Install\n\nRun the installer.\n")
}

func TestLLMs_OutputSelection(t *testing.T) {
	root := llmsTree(t)
	outDir := filepath.Join(root, "site")

	_, _, code := execute(t, root, "llms", "--compact-only", "--output-dir", "site")
	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(outDir, "llms.txt"))
	assert.NoFileExists(t, filepath.Join(outDir, "llms-full.txt"))

	_, _, code = execute(t, root, "llms", "--compact-only", "--full-only")
	assert.Equal(t, clierr.ExitOperational, code)
}

func TestLLMs_ConfigFile(t *testing.T) {
	root := llmsTree(t)
	writeTree(t, root, map[string]string{
		".docsentry.yaml": "llms:\n  name: Configured\n  summary: Tool docs.\n  output_dir: out\n",
	})

	_, _, code := execute(t, root, "llms")
	require.Equal(t, 0, code)

	compact, err := os.ReadFile(filepath.Join(root, "out", "llms.txt"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(compact), "# Configured\n\n> Tool docs.\n"))
}
