// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bartekus/docsentry/internal/projection"
	"github.com/bartekus/docsentry/internal/structure"
)

// CategoryCount is the number of issues in one category.
type CategoryCount struct {
	Category structure.Category `json:"category"`
	Count    int                `json:"count"`
}

// Validation aggregates structural findings across a corpus.
type Validation struct {
	FilesChecked int
	Issues       []structure.Issue
	Advisories   []structure.Issue
}

// NewValidation flattens findings, preserving their order.
func NewValidation(findings []structure.Findings, filesChecked int) *Validation {
	v := &Validation{FilesChecked: filesChecked}
	for _, f := range findings {
		v.Issues = append(v.Issues, f.Issues...)
		v.Advisories = append(v.Advisories, f.Advisories...)
	}
	return v
}

// Pristine reports that no documents were checked.
func (v *Validation) Pristine() bool { return v.FilesChecked == 0 }

// ByCategory counts issues per category, in order of first appearance.
func (v *Validation) ByCategory() []CategoryCount {
	var out []CategoryCount
	idx := make(map[structure.Category]int)
	for _, i := range v.Issues {
		n, ok := idx[i.Category]
		if !ok {
			n = len(out)
			idx[i.Category] = n
			out = append(out, CategoryCount{Category: i.Category})
		}
		out[n].Count++
	}
	return out
}

// Fixable returns the subjects with at least one fixable issue, deduplicated
// and in order of first appearance.
func (v *Validation) Fixable() []string {
	var out []string
	seen := make(map[string]bool)
	for _, i := range append(append([]structure.Issue{}, v.Issues...), v.Advisories...) {
		if !i.Fixable || seen[i.Subject] {
			continue
		}
		seen[i.Subject] = true
		out = append(out, i.Subject)
	}
	return out
}

// ValidationDocument is the json shape of a validation report.
type ValidationDocument struct {
	FilesChecked int               `json:"files_checked"`
	TotalIssues  int               `json:"total_issues"`
	ByCategory   []CategoryCount   `json:"by_category"`
	Issues       []structure.Issue `json:"issues"`
	Advisories   []structure.Issue `json:"advisories"`
}

func (v *Validation) Document() any {
	doc := ValidationDocument{
		FilesChecked: v.FilesChecked,
		TotalIssues:  len(v.Issues),
		ByCategory:   v.ByCategory(),
		Issues:       v.Issues,
		Advisories:   v.Advisories,
	}
	if doc.ByCategory == nil {
		doc.ByCategory = []CategoryCount{}
	}
	if doc.Issues == nil {
		doc.Issues = []structure.Issue{}
	}
	if doc.Advisories == nil {
		doc.Advisories = []structure.Issue{}
	}
	return doc
}

func (v *Validation) Text() string {
	var b strings.Builder
	if v.Pristine() {
		return "No documents found.\n"
	}
	fmt.Fprintf(&b, "Checked %d files\n\n", v.FilesChecked)

	if len(v.Issues) == 0 {
		b.WriteString("✓ All validations passed!\n\n")
	} else {
		fmt.Fprintf(&b, "✗ Found %d issues:\n\n", len(v.Issues))
		for _, c := range v.ByCategory() {
			fmt.Fprintf(&b, "  %s: %d\n", c.Category, c.Count)
		}
		b.WriteString("\n")

		shown, rest := sample(len(v.Issues))
		for _, i := range v.Issues[:shown] {
			b.WriteString(i.String())
			b.WriteString("\n\n")
		}
		if rest > 0 {
			fmt.Fprintf(&b, "... and %d more issues\n\n", rest)
		}
	}

	if len(v.Advisories) > 0 {
		fmt.Fprintf(&b, "Advisories (non-blocking): %d\n", len(v.Advisories))
		shown, rest := sample(len(v.Advisories))
		for _, a := range v.Advisories[:shown] {
			fmt.Fprintf(&b, "  %s: %s\n", a.Subject, a.Message)
		}
		if rest > 0 {
			fmt.Fprintf(&b, "  ... and %d more\n", rest)
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func (v *Validation) Markdown() string {
	var b strings.Builder
	b.WriteString(projection.RenderHeader(1, "Documentation Structure Report"))
	if v.Pristine() {
		b.WriteString("No documents found.\n")
		return b.String()
	}
	b.WriteString(projection.RenderList([]string{
		fmt.Sprintf("**Files checked**: %d", v.FilesChecked),
		fmt.Sprintf("**Issues**: %d", len(v.Issues)),
		fmt.Sprintf("**Advisories**: %d", len(v.Advisories)),
	}))

	if len(v.Issues) > 0 {
		b.WriteString("\n")
		b.WriteString(projection.RenderHeader(2, "Issues by Category"))
		var rows [][]string
		for _, c := range v.ByCategory() {
			rows = append(rows, []string{string(c.Category), strconv.Itoa(c.Count)})
		}
		b.WriteString(projection.RenderTable([]string{"Category", "Count"}, rows))

		b.WriteString("\n")
		b.WriteString(projection.RenderHeader(2, "Issues"))
		b.WriteString(projection.RenderList(issueItems(v.Issues)))
	}

	if len(v.Advisories) > 0 {
		b.WriteString("\n")
		b.WriteString(projection.RenderHeader(2, "Advisories"))
		b.WriteString(projection.RenderList(issueItems(v.Advisories)))
	}
	return b.String()
}

func issueItems(issues []structure.Issue) []string {
	items := make([]string, 0, len(issues))
	for _, i := range issues {
		item := fmt.Sprintf("%s: %s (%s)", projection.Code(i.Subject), i.Message, i.Category)
		if i.Fixable {
			item += " [fixable]"
		}
		items = append(items, item)
	}
	return items
}
