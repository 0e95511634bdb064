// SPDX-License-Identifier: AGPL-3.0-or-later

package structure

// Rules parameterizes validation and remediation.
type Rules struct {
	// RequiredKey must be present with exactly RequiredValue.
	RequiredKey   string
	RequiredValue string

	TitleKey string

	// RecommendedKey is advisory; RecommendedDefault is what Fix writes.
	RecommendedKey     string
	RecommendedDefault string

	MaxTopLevelHeadings int

	// SkipFencedCode keeps lines inside fenced code blocks out of the
	// heading rules. Off by default: a "# comment" in a shell fence counts.
	SkipFencedCode bool
}

// DefaultRules matches a Jekyll just-the-docs site.
func DefaultRules() Rules {
	return Rules{
		RequiredKey:         "layout",
		RequiredValue:       "default",
		TitleKey:            "title",
		RecommendedKey:      "nav_order",
		RecommendedDefault:  "1",
		MaxTopLevelHeadings: 2,
	}
}
