// SPDX-License-Identifier: AGPL-3.0-or-later

package extract

import (
	"regexp"
	"strings"
)

// MaxSignatureLen bounds Declaration.Signature, in runes.
const MaxSignatureLen = 100

// Rule pairs a declaration kind with the pattern that recognizes it.
// The pattern's first capture group is the declaration name.
type Rule struct {
	Kind    Kind
	Pattern *regexp.Regexp
}

// Profile describes how declarations and doc comments look in one source
// language.
type Profile struct {
	Name       string
	Extensions []string

	// Rules are evaluated in order; the first match wins.
	Rules []Rule

	// ItemDoc and ModuleDoc are the comment markers that form a doc block.
	ItemDoc   string
	ModuleDoc string
}

// Rust is the default profile.
var Rust = &Profile{
	Name:       "rust",
	Extensions: []string{".rs"},
	Rules: []Rule{
		{Kind: KindFunction, Pattern: regexp.MustCompile(`^pub\s+(?:async\s+)?fn\s+(\w+)`)},
		{Kind: KindStruct, Pattern: regexp.MustCompile(`^pub\s+struct\s+(\w+)`)},
		{Kind: KindEnum, Pattern: regexp.MustCompile(`^pub\s+enum\s+(\w+)`)},
		{Kind: KindTrait, Pattern: regexp.MustCompile(`^pub\s+trait\s+(\w+)`)},
		{Kind: KindConst, Pattern: regexp.MustCompile(`^pub\s+const\s+(\w+)`)},
		{Kind: KindStatic, Pattern: regexp.MustCompile(`^pub\s+static\s+(\w+)`)},
	},
	ItemDoc:   "///",
	ModuleDoc: "//!",
}

// SplitLines splits text into lines the way Extract expects them.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// Extract runs the Rust profile over lines.
func Extract(source string, lines []string) []Declaration {
	return Rust.Extract(source, lines)
}

// Extract returns every declaration found in lines, in line order.
// It never fails; lines that match no rule are skipped.
func (p *Profile) Extract(source string, lines []string) []Declaration {
	var decls []Declaration

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		kind, name, ok := p.classify(trimmed)
		if !ok {
			continue
		}

		lineNo := i + 1
		doc := p.docBlock(lines, lineNo)

		decls = append(decls, Declaration{
			Location:  Location{Source: source, Line: lineNo},
			Kind:      kind,
			Name:      name,
			Signature: truncate(trimmed, MaxSignatureLen),
			HasDoc:    doc != nil,
			Doc:       doc,
		})
	}

	return decls
}

func (p *Profile) classify(trimmed string) (Kind, string, bool) {
	for _, r := range p.Rules {
		m := r.Pattern.FindStringSubmatch(trimmed)
		if m == nil || len(m) < 2 {
			continue
		}
		return r.Kind, m[1], true
	}
	return "", "", false
}

// docBlock collects the contiguous marker lines directly above lineNo.
// A blank or non-marker line seals the block.
func (p *Profile) docBlock(lines []string, lineNo int) *string {
	var collected []string

	for i := lineNo - 2; i >= 0; i-- {
		text, ok := p.stripMarker(strings.TrimSpace(lines[i]))
		if !ok {
			break
		}
		collected = append(collected, text)
	}

	if len(collected) == 0 {
		return nil
	}

	// Collected bottom-up; restore source order.
	for l, r := 0, len(collected)-1; l < r; l, r = l+1, r-1 {
		collected[l], collected[r] = collected[r], collected[l]
	}

	doc := strings.Join(collected, "\n")
	return &doc
}

func (p *Profile) stripMarker(trimmed string) (string, bool) {
	if trimmed == "" {
		return "", false
	}
	for _, marker := range []string{p.ItemDoc, p.ModuleDoc} {
		if marker != "" && strings.HasPrefix(trimmed, marker) {
			return strings.TrimSpace(trimmed[len(marker):]), true
		}
	}
	return "", false
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
