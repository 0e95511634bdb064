// SPDX-License-Identifier: AGPL-3.0-or-later

// Package projection holds the output side of a report: the supported
// formats, markdown building blocks, and the sinks a rendered report is
// written to.
package projection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format selects how a report is rendered.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ErrUnknownFormat indicates an unrecognized format string.
var ErrUnknownFormat = errors.New("unknown format")

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatMarkdown}
}

// FormatStrings returns the supported formats as strings, for flag help and
// completion.
func FormatStrings() []string {
	out := make([]string, 0, 3)
	for _, f := range Formats() {
		out = append(out, string(f))
	}
	return out
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatJSON, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, s, strings.Join(FormatStrings(), ", "))
}

// AtomicWrite writes content to path atomically by writing to a temp file and renaming it.
func AtomicWrite(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".docsentry-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(content); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing content: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("moving temp file to %s: %w", path, err)
	}

	return nil
}

// RenderTable renders a Markdown table.
// It assumes rows are already sorted if determinism is required.
func RenderTable(headers []string, rows [][]string) string {
	var b strings.Builder

	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")

	b.WriteString("|")
	for range headers {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	return b.String()
}

// RenderList renders a simple unordered Markdown list.
func RenderList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(fmt.Sprintf("- %s\n", item))
	}
	return b.String()
}

// RenderHeader renders a Markdown header.
func RenderHeader(level int, text string) string {
	return fmt.Sprintf("%s %s\n\n", strings.Repeat("#", level), text)
}

// Code wraps s in backticks.
func Code(s string) string {
	return "`" + s + "`"
}
