// SPDX-License-Identifier: AGPL-3.0-or-later

// Package structure validates the logical structure of markdown documents:
// their metadata block, title, and heading hierarchy.
package structure

import "fmt"

// Category is the kind of a structural issue.
type Category string

const (
	MissingMetadataBlock      Category = "missing-metadata-block"
	MissingRequiredKey        Category = "missing-required-key"
	InvalidKeyValue           Category = "invalid-key-value"
	MissingTitle              Category = "missing-title"
	HeadingLevelSkip          Category = "heading-level-skip"
	ExcessiveTopLevelHeadings Category = "excessive-top-level-headings"
	UnreadableInput           Category = "unreadable-input"
	MissingRecommendedKey     Category = "missing-recommended-key"
)

// Categories lists every category in the order reports present them.
func Categories() []Category {
	return []Category{
		MissingMetadataBlock,
		MissingRequiredKey,
		InvalidKeyValue,
		MissingTitle,
		HeadingLevelSkip,
		ExcessiveTopLevelHeadings,
		UnreadableInput,
		MissingRecommendedKey,
	}
}

// Fixable reports whether an automatic remediation exists for c.
func (c Category) Fixable() bool {
	switch c {
	case MissingMetadataBlock, MissingRequiredKey, InvalidKeyValue, MissingRecommendedKey:
		return true
	default:
		return false
	}
}

// Severity separates blocking issues from advisories.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one detected violation.
type Issue struct {
	Subject  string   `json:"subject"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
	Fixable  bool     `json:"fixable"`
	Severity Severity `json:"severity"`
}

func (i Issue) String() string {
	fix := ""
	if i.Fixable {
		fix = " [FIXABLE]"
	}
	return fmt.Sprintf("%s: %s\n  %s%s", i.Category, i.Subject, i.Message, fix)
}

func newIssue(subject string, c Category, msg string) Issue {
	return Issue{
		Subject:  subject,
		Category: c,
		Message:  msg,
		Fixable:  c.Fixable(),
		Severity: SeverityError,
	}
}

// Unreadable maps an input-access failure to its single issue.
func Unreadable(subject string, err error) Issue {
	return newIssue(subject, UnreadableInput, fmt.Sprintf("Could not read file: %v", err))
}
