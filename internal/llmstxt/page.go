// SPDX-License-Identifier: AGPL-3.0-or-later

// Package llmstxt builds llms.txt and llms-full.txt indexes of a markdown
// documentation tree from the metadata blocks of its pages.
//
// See https://llmstxt.org/ for the format.
package llmstxt

import (
	"path"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bartekus/docsentry/internal/frontmatter"
	"github.com/bartekus/docsentry/internal/structure"
)

const (
	// DefaultNavOrder places pages without a usable nav_order last.
	DefaultNavOrder = 999

	// MaxDescriptionLen bounds Page.Description, in runes.
	MaxDescriptionLen = 200
)

var htmlComment = regexp.MustCompile(`(?s)<!--.*?-->`)

// Page is one documentation page that belongs in the index.
type Page struct {
	Title       string
	Path        string // slash-separated, relative to the docs directory
	Description string
	NavOrder    int
	Parent      string
	Content     string
}

// Listed reports whether rel (relative to the docs directory) can hold an
// indexed page. Directories starting with "_" and man pages are left out.
func Listed(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, "_") || seg == "man" {
			return false
		}
	}
	return true
}

// ParsePage reads one page. It returns false for pages outside navigation:
// no metadata, or nav_exclude set to true.
func ParsePage(rel, text string) (Page, bool) {
	block, body := frontmatter.Split(text)
	if !block.Present || len(block.Pairs) == 0 {
		return Page{}, false
	}
	if v, _ := block.Get("nav_exclude"); v == "true" {
		return Page{}, false
	}

	title, ok := block.Get("title")
	if !ok {
		title = structure.TitleFromSubject(path.Base(rel))
	}
	parent, _ := block.Get("parent")

	return Page{
		Title:       title,
		Path:        rel,
		Description: Describe(body),
		NavOrder:    block.Int("nav_order", DefaultNavOrder),
		Parent:      parent,
		Content:     strings.TrimSpace(body),
	}, true
}

// Describe returns the first prose paragraph of body, joined onto one line.
// Headings, code blocks, HTML comments, kramdown attribute lines and link
// definitions are not prose.
func Describe(body string) string {
	body = htmlComment.ReplaceAllString(body, "")

	var para []string
	inCode := false
	for _, line := range strings.Split(strings.TrimSpace(body), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "```"):
			inCode = !inCode
			continue
		case inCode,
			strings.HasPrefix(trimmed, "#"),
			strings.HasPrefix(trimmed, "{:"),
			strings.HasPrefix(trimmed, "[") && strings.Contains(line, "]: "):
			continue
		}

		if trimmed != "" {
			para = append(para, trimmed)
		} else if len(para) > 0 {
			break
		}
	}

	return truncate(strings.Join(para, " "))
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxDescriptionLen {
		return s
	}
	r := []rune(s)
	return string(r[:MaxDescriptionLen-3]) + "..."
}
