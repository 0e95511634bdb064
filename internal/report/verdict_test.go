// SPDX-License-Identifier: AGPL-3.0-or-later
package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/docsentry/internal/extract"
	"github.com/bartekus/docsentry/internal/structure"
)

func TestCoveragePolicy_Evaluate(t *testing.T) {
	tests := []struct {
		name    string
		policy  CoveragePolicy
		pass    bool
		reasons int
	}{
		{name: "no policy", policy: CoveragePolicy{}, pass: true},
		{name: "below threshold", policy: CoveragePolicy{Threshold: 50}, pass: false, reasons: 1},
		{name: "at or above threshold", policy: CoveragePolicy{Threshold: 33}, pass: true},
		{name: "strict", policy: CoveragePolicy{Strict: true}, pass: false, reasons: 1},
		{name: "strict and threshold", policy: CoveragePolicy{Threshold: 90, Strict: true}, pass: false, reasons: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.policy.Evaluate(sampleCoverage())
			assert.Equal(t, tt.pass, v.Pass)
			assert.Len(t, v.Reasons, tt.reasons)
		})
	}
}

func TestCoveragePolicy_ReasonText(t *testing.T) {
	v := CoveragePolicy{Threshold: 50, Strict: true}.Evaluate(sampleCoverage())
	require.Len(t, v.Reasons, 2)
	assert.Equal(t, "Coverage 33.3% is below threshold of 50%", v.Reasons[0])
	assert.Equal(t, "Found 2 undocumented public APIs", v.Reasons[1])
}

func TestCoveragePolicy_PristinePasses(t *testing.T) {
	v := CoveragePolicy{Threshold: 100, Strict: true}.Evaluate(NewCoverage(nil, 0, nil))
	assert.True(t, v.Pass)
	assert.Equal(t, []string{"no public APIs found"}, v.Reasons)
}

func TestCoveragePolicy_FullyDocumented(t *testing.T) {
	c := NewCoverage([]extract.Declaration{decl("a.rs", 1, extract.KindConst, "MAX", "Limit.")}, 1, nil)
	v := CoveragePolicy{Threshold: 100, Strict: true}.Evaluate(c)
	assert.True(t, v.Pass)
}

func TestEvaluateValidation(t *testing.T) {
	assert.False(t, EvaluateValidation(sampleValidation()).Pass)

	advisoryOnly := NewValidation([]structure.Findings{{
		Subject:    "a.md",
		Advisories: []structure.Issue{{Subject: "a.md", Category: structure.MissingRecommendedKey}},
	}}, 1)
	assert.True(t, EvaluateValidation(advisoryOnly).Pass)
}
