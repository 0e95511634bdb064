// SPDX-License-Identifier: AGPL-3.0-or-later

package llmstxt

import (
	"sort"
	"strings"
)

// OtherSection collects pages that belong to no named section.
const OtherSection = "Other"

// DefaultSections are the named sections of a just-the-docs site, in
// output order.
func DefaultSections() []string {
	return []string{"Getting Started", "CLI Reference", "Tutorials", "For Contributors"}
}

// Site describes the index header and how links are built.
type Site struct {
	Name    string
	Summary string // rendered as a blockquote
	Details string
	BaseURL string

	// Sections are the named sections in output order. Empty means
	// DefaultSections.
	Sections []string
}

func (s Site) sections() []string {
	if len(s.Sections) == 0 {
		return DefaultSections()
	}
	return s.Sections
}

// Section is one named group of pages, sorted by nav order then title.
type Section struct {
	Name  string
	Pages []Page
}

// Organize groups pages by their parent. A page is placed in the section
// named by its parent, or by its grandparent when the parent is another
// page. A page whose own title names a section is that section's index.
// The "Home" page is left out; everything else lands in OtherSection, which
// is always last.
func (s Site) Organize(pages []Page) []Section {
	names := s.sections()
	bySection := make(map[string][]Page, len(names)+1)
	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	byTitle := make(map[string]Page, len(pages))
	for _, p := range pages {
		if _, dup := byTitle[p.Title]; !dup {
			byTitle[p.Title] = p
		}
	}

	for _, p := range pages {
		section := OtherSection
		switch {
		case p.Parent != "":
			if known[p.Parent] {
				section = p.Parent
			} else if parent, ok := byTitle[p.Parent]; ok && known[parent.Parent] {
				section = parent.Parent
			}
		case known[p.Title]:
			section = p.Title
		case p.Title == "Home":
			continue
		}
		bySection[section] = append(bySection[section], p)
	}

	out := make([]Section, 0, len(names)+1)
	for _, n := range append(append([]string(nil), names...), OtherSection) {
		ps := bySection[n]
		if len(ps) == 0 {
			continue
		}
		sort.SliceStable(ps, func(i, j int) bool {
			if ps[i].NavOrder != ps[j].NavOrder {
				return ps[i].NavOrder < ps[j].NavOrder
			}
			return ps[i].Title < ps[j].Title
		})
		out = append(out, Section{Name: n, Pages: ps})
	}
	return out
}

// URL is the published address of p.
func (s Site) URL(p Page) string {
	u := s.BaseURL + "/" + p.Path
	u = strings.ReplaceAll(u, ".md", "")
	return strings.ReplaceAll(u, "/index", "/")
}

func (s Site) header() []string {
	lines := []string{"# " + s.Name, ""}
	if s.Summary != "" {
		lines = append(lines, "> "+s.Summary, "")
	}
	if s.Details != "" {
		lines = append(lines, s.Details, "")
	}
	return lines
}

// Compact renders llms.txt: one linked line per page with its description.
// Pages outside the named sections are listed under "Optional".
func (s Site) Compact(pages []Page) string {
	lines := s.header()
	for _, sec := range s.Organize(pages) {
		title := sec.Name
		if title == OtherSection {
			title = "Optional"
		}
		lines = append(lines, "## "+title, "")
		for _, p := range sec.Pages {
			link := "- [" + p.Title + "](" + s.URL(p) + ")"
			if p.Description != "" {
				link += ": " + p.Description
			}
			lines = append(lines, link)
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// Full renders llms-full.txt: every page's content inlined under its
// section.
func (s Site) Full(pages []Page) string {
	lines := append(s.header(), "---", "")
	for _, sec := range s.Organize(pages) {
		lines = append(lines, "# "+sec.Name, "")
		for _, p := range sec.Pages {
			lines = append(lines,
				"## "+p.Title,
				"Source: "+s.URL(p),
				"",
				p.Content,
				"",
				"---",
				"",
			)
		}
	}
	return strings.Join(lines, "\n")
}
