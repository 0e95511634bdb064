// SPDX-License-Identifier: AGPL-3.0-or-later

// Package report aggregates extraction and validation results into coverage
// and validation reports, renders them, and decides the pass/fail verdict.
//
// Rendering never performs I/O; the caller hands the rendered string to a
// projection.Sink.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/bartekus/docsentry/internal/projection"
)

// DisplayCap bounds how many problems the text format lists.
const DisplayCap = 20

// Report is implemented by Coverage and Validation.
type Report interface {
	Text() string
	Markdown() string
	// Document returns the value encoded by the json format.
	Document() any
	Pristine() bool
}

var (
	_ Report = (*Coverage)(nil)
	_ Report = (*Validation)(nil)
)

// Render renders r in format f.
func Render(r Report, f projection.Format) (string, error) {
	switch f {
	case projection.FormatText:
		return r.Text(), nil
	case projection.FormatMarkdown:
		return r.Markdown(), nil
	case projection.FormatJSON:
		out, err := json.MarshalIndent(r.Document(), "", "  ")
		if err != nil {
			return "", fmt.Errorf("encoding report: %w", err)
		}
		return string(out) + "\n", nil
	}
	return "", fmt.Errorf("%w: %q", projection.ErrUnknownFormat, f)
}

// sample returns how many of n items the text format shows and how many
// are left over.
func sample(n int) (shown, rest int) {
	if n <= DisplayCap {
		return n, 0
	}
	return DisplayCap, n - DisplayCap
}
