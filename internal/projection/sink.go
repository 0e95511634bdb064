// SPDX-License-Identifier: AGPL-3.0-or-later

package projection

import (
	"fmt"
	"io"
	"strings"
)

// Sink persists or prints one rendered report.
type Sink interface {
	Write(rendered string, format Format) error
}

// WriterSink prints reports to an io.Writer.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Write(rendered string, _ Format) error {
	if _, err := io.WriteString(s.W, ensureNewline(rendered)); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// FileSink writes reports to Path atomically.
type FileSink struct {
	Path string
}

func (s FileSink) Write(rendered string, _ Format) error {
	if err := AtomicWrite(s.Path, []byte(ensureNewline(rendered))); err != nil {
		return fmt.Errorf("writing report to %s: %w", s.Path, err)
	}
	return nil
}

// NewSink returns a FileSink for a non-empty path other than "-", and a
// WriterSink on stdout otherwise.
func NewSink(path string, stdout io.Writer) Sink {
	if path == "" || path == "-" {
		return WriterSink{W: stdout}
	}
	return FileSink{Path: path}
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
