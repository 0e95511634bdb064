// SPDX-License-Identifier: AGPL-3.0-or-later

package report

import (
	"fmt"
	"strconv"
)

// Verdict is the pass/fail outcome of a report under a policy.
type Verdict struct {
	Pass    bool
	Reasons []string
}

func (v *Verdict) fail(format string, args ...any) {
	v.Pass = false
	v.Reasons = append(v.Reasons, fmt.Sprintf(format, args...))
}

// CoveragePolicy decides when a coverage report fails.
type CoveragePolicy struct {
	// Threshold is the minimum coverage percentage, 0..100. Zero disables it.
	Threshold float64
	// Strict fails on any undocumented declaration.
	Strict bool
}

// Evaluate applies p to c. A pristine report always passes.
func (p CoveragePolicy) Evaluate(c *Coverage) Verdict {
	v := Verdict{Pass: true}
	if c.Pristine() {
		v.Reasons = append(v.Reasons, "no public APIs found")
		return v
	}

	if p.Threshold > 0 && c.Percent() < p.Threshold {
		v.fail("Coverage %.1f%% is below threshold of %s%%", c.Percent(), strconv.FormatFloat(p.Threshold, 'f', -1, 64))
	}
	if p.Strict && len(c.Undocumented) > 0 {
		v.fail("Found %d undocumented public APIs", len(c.Undocumented))
	}
	return v
}

// EvaluateValidation fails on any issue. Advisories never fail.
func EvaluateValidation(r *Validation) Verdict {
	v := Verdict{Pass: true}
	if len(r.Issues) > 0 {
		v.fail("Found %d structural issues", len(r.Issues))
	}
	return v
}
