// SPDX-License-Identifier: AGPL-3.0-or-later

package structure

import (
	"path"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bartekus/docsentry/internal/frontmatter"
)

// Fix prepends a minimal metadata block to a document that has none.
// A document that already has a block is returned unchanged with false, which
// makes Fix idempotent.
func Fix(subject, text string, rules Rules) (string, bool, error) {
	block, body := frontmatter.Split(text)
	if block.Present {
		return text, false, nil
	}

	var pairs []frontmatter.Pair
	if rules.RequiredKey != "" {
		pairs = append(pairs, frontmatter.Pair{Key: rules.RequiredKey, Value: scalar(rules.RequiredValue)})
	}
	pairs = append(pairs, frontmatter.Pair{Key: rules.TitleKey, Value: deriveTitle(subject, body)})
	if rules.RecommendedKey != "" {
		pairs = append(pairs, frontmatter.Pair{Key: rules.RecommendedKey, Value: scalar(rules.RecommendedDefault)})
	}

	header, err := frontmatter.Render(pairs)
	if err != nil {
		return text, false, err
	}
	return header + "\n" + text, true, nil
}

func deriveTitle(subject, body string) string {
	for _, h := range HeadingsOutsideFences(body) {
		if h.Level == 1 {
			return h.Text
		}
	}
	return TitleFromSubject(subject)
}

// UntitledTitle names a document whose subject yields no words.
const UntitledTitle = "Untitled"

// TitleFromSubject turns "docs/getting-started.md" into "Getting Started".
// The result is never blank: a subject without a usable stem, such as
// ".md", falls back to its base name, then to UntitledTitle.
func TitleFromSubject(subject string) string {
	base := path.Base(strings.ReplaceAll(subject, "\\", "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))
	words := strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(stem))
	switch {
	case words != "":
		return cases.Title(language.English).String(words)
	case base != "." && base != "/" && strings.TrimSpace(base) != "":
		return base
	default:
		return UntitledTitle
	}
}

// scalar keeps integer-looking defaults unquoted in the rendered block.
func scalar(v string) any {
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return v
}
