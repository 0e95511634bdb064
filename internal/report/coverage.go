// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"fmt"
	"strings"

	"github.com/bartekus/docsentry/internal/extract"
	"github.com/bartekus/docsentry/internal/projection"
)

// Coverage aggregates declarations across a corpus.
type Coverage struct {
	Declarations []extract.Declaration
	Undocumented []extract.Declaration
	Documented   int
	FilesScanned int

	// Unreadable lists sources that could not be read and were skipped.
	Unreadable []string
}

// NewCoverage builds a coverage report. decls must already be in discovery
// order; the undocumented subset keeps that order.
func NewCoverage(decls []extract.Declaration, filesScanned int, unreadable []string) *Coverage {
	c := &Coverage{
		Declarations: decls,
		FilesScanned: filesScanned,
		Unreadable:   unreadable,
	}
	for _, d := range decls {
		if d.HasDoc {
			c.Documented++
		} else {
			c.Undocumented = append(c.Undocumented, d)
		}
	}
	return c
}

// Total is the number of declarations found.
func (c *Coverage) Total() int { return len(c.Declarations) }

// Percent is documented/total*100, or 0 when nothing was found.
func (c *Coverage) Percent() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.Documented) / float64(c.Total()) * 100
}

// Pristine reports that no declarations were found at all.
func (c *Coverage) Pristine() bool { return c.Total() == 0 }

// CoverageDocument is the json shape of a coverage report.
type CoverageDocument struct {
	Total        int                   `json:"total"`
	Documented   int                   `json:"documented"`
	Undocumented int                   `json:"undocumented"`
	Coverage     float64               `json:"coverage"`
	FilesScanned int                   `json:"files_scanned"`
	Unreadable   []string              `json:"unreadable"`
	APIs         []extract.Declaration `json:"apis"`
}

func (c *Coverage) Document() any {
	doc := CoverageDocument{
		Total:        c.Total(),
		Documented:   c.Documented,
		Undocumented: len(c.Undocumented),
		Coverage:     c.Percent(),
		FilesScanned: c.FilesScanned,
		Unreadable:   c.Unreadable,
		APIs:         c.Declarations,
	}
	if doc.Unreadable == nil {
		doc.Unreadable = []string{}
	}
	if doc.APIs == nil {
		doc.APIs = []extract.Declaration{}
	}
	return doc
}

func (c *Coverage) Text() string {
	if c.Pristine() {
		return "No public APIs found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Total public APIs: %d\n", c.Total())
	fmt.Fprintf(&b, "Documented: %d\n", c.Documented)
	fmt.Fprintf(&b, "Undocumented: %d\n", len(c.Undocumented))
	fmt.Fprintf(&b, "Coverage: %.1f%%\n", c.Percent())

	if len(c.Undocumented) > 0 {
		b.WriteString("\nUndocumented APIs:\n")
		shown, rest := sample(len(c.Undocumented))
		for _, d := range c.Undocumented[:shown] {
			fmt.Fprintf(&b, "  %s: %s in %s:%d\n", d.Kind, d.Name, d.Source, d.Line)
		}
		if rest > 0 {
			fmt.Fprintf(&b, "  ... and %d more\n", rest)
		}
	}

	if len(c.Unreadable) > 0 {
		fmt.Fprintf(&b, "\nSkipped %d unreadable file(s)\n", len(c.Unreadable))
	}
	return b.String()
}

func (c *Coverage) Markdown() string {
	var b strings.Builder
	b.WriteString(projection.RenderHeader(1, "API Documentation Coverage Report"))

	if c.Pristine() {
		b.WriteString("No public APIs found.\n")
		return b.String()
	}

	b.WriteString(projection.RenderList([]string{
		fmt.Sprintf("**Total APIs**: %d", c.Total()),
		fmt.Sprintf("**Documented**: %d", c.Documented),
		fmt.Sprintf("**Undocumented**: %d", len(c.Undocumented)),
		fmt.Sprintf("**Coverage**: %.1f%%", c.Percent()),
	}))

	if len(c.Undocumented) > 0 {
		b.WriteString("\n")
		b.WriteString(projection.RenderHeader(2, "Undocumented APIs"))
		items := make([]string, 0, len(c.Undocumented))
		for _, d := range c.Undocumented {
			items = append(items, fmt.Sprintf("%s (%s) in %s:%d", projection.Code(d.Name), d.Kind, d.Source, d.Line))
		}
		b.WriteString(projection.RenderList(items))
	}

	if len(c.Unreadable) > 0 {
		b.WriteString("\n")
		b.WriteString(projection.RenderHeader(2, "Unreadable Files"))
		b.WriteString(projection.RenderList(c.Unreadable))
	}
	return b.String()
}
