// SPDX-License-Identifier: AGPL-3.0-or-later

package structure

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bartekus/docsentry/internal/frontmatter"
)

var headingRegex = regexp.MustCompile(`^(#{1,6})\s+(\S.*)$`)

// Heading is one markdown heading line.
type Heading struct {
	Level int
	Text  string
	Line  int // 1-based, relative to the body
}

// Headings returns the body's heading lines in order. Every line is
// classified, including lines inside fenced code blocks.
func Headings(body string) []Heading {
	return headings(body, false)
}

// HeadingsOutsideFences is Headings without the lines inside ``` or ~~~
// fenced code blocks.
func HeadingsOutsideFences(body string) []Heading {
	return headings(body, true)
}

func headings(body string, skipFences bool) []Heading {
	var out []Heading
	inFence := false

	for i, line := range strings.Split(body, "\n") {
		if skipFences {
			trimmed := strings.TrimSpace(line)
			if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
				inFence = !inFence
				continue
			}
			if inFence {
				continue
			}
		}

		m := headingRegex.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		out = append(out, Heading{
			Level: len(m[1]),
			Text:  strings.TrimSpace(m[2]),
			Line:  i + 1,
		})
	}

	return out
}

// Findings holds everything Check reports for one document.
type Findings struct {
	Subject    string
	Issues     []Issue
	Advisories []Issue
}

// Check splits text into metadata and body and runs Validate and Advise.
func Check(subject, text string, rules Rules) Findings {
	block, body := frontmatter.Split(text)
	return Findings{
		Subject:    subject,
		Issues:     Validate(subject, block, body, rules),
		Advisories: Advise(subject, block, rules),
	}
}

// Validate returns the blocking structural issues of one document.
func Validate(subject string, block frontmatter.Block, body string, rules Rules) []Issue {
	var issues []Issue
	issues = append(issues, validateMetadata(subject, block, body, rules)...)
	issues = append(issues, validateHeadings(subject, body, rules)...)
	return issues
}

// Advise returns non-blocking recommendations for one document.
func Advise(subject string, block frontmatter.Block, rules Rules) []Issue {
	if !block.Present || rules.RecommendedKey == "" {
		return nil
	}
	if _, ok := block.Get(rules.RecommendedKey); ok {
		return nil
	}

	adv := newIssue(subject, MissingRecommendedKey,
		fmt.Sprintf("Metadata missing '%s' field (recommended for navigation ordering)", rules.RecommendedKey))
	adv.Severity = SeverityWarning
	return []Issue{adv}
}

func validateMetadata(subject string, block frontmatter.Block, body string, rules Rules) []Issue {
	if !block.Present {
		return []Issue{newIssue(subject, MissingMetadataBlock, "File is missing a metadata block (---)")}
	}

	var issues []Issue

	if rules.RequiredKey != "" {
		v, ok := block.Get(rules.RequiredKey)
		switch {
		case !ok:
			issues = append(issues, newIssue(subject, MissingRequiredKey,
				fmt.Sprintf("Metadata missing '%s: %s' field", rules.RequiredKey, rules.RequiredValue)))
		case v != rules.RequiredValue:
			issues = append(issues, newIssue(subject, InvalidKeyValue,
				fmt.Sprintf("'%s' should be '%s', found: %s", rules.RequiredKey, rules.RequiredValue, v)))
		}
	}

	if !hasTitle(block, body, rules) {
		issues = append(issues, newIssue(subject, MissingTitle,
			fmt.Sprintf("File needs '%s' in metadata or an H1 heading", rules.TitleKey)))
	}

	return issues
}

// hasTitle accepts a non-empty title value, or an H1 as the first non-blank
// line of the body.
func hasTitle(block frontmatter.Block, body string, rules Rules) bool {
	if v, ok := block.Get(rules.TitleKey); ok && v != "" {
		return true
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		m := headingRegex.FindStringSubmatch(trimmed)
		return m != nil && len(m[1]) == 1
	}
	return false
}

func validateHeadings(subject, body string, rules Rules) []Issue {
	var issues []Issue

	hs := Headings(body)
	if rules.SkipFencedCode {
		hs = HeadingsOutsideFences(body)
	}

	prev := 0
	topLevel := 0
	for _, h := range hs {
		if h.Level == 1 {
			topLevel++
		}
		if prev > 0 && h.Level > prev+1 {
			issues = append(issues, newIssue(subject, HeadingLevelSkip,
				fmt.Sprintf("Heading level jumps from H%d to H%d (line %d)", prev, h.Level, h.Line)))
		}
		prev = h.Level
	}

	if topLevel > rules.MaxTopLevelHeadings {
		issues = append(issues, newIssue(subject, ExcessiveTopLevelHeadings,
			fmt.Sprintf("File has %d H1 headings (should have at most %d)", topLevel, rules.MaxTopLevelHeadings)))
	}

	return issues
}
