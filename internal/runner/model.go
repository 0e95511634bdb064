// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

// Status represents the outcome of a check.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Result represents the result of a single check.
// Stored as <state-dir>/checks/<check>.json.
type Result struct {
	Check    string `json:"check"`
	Status   Status `json:"status"`
	ExitCode int    `json:"exit_code"`
	Note     string `json:"note,omitempty"`
}

// LastRun summarizes the most recent run.
// Stored as <state-dir>/last-run.json.
type LastRun struct {
	Status Status   `json:"status"`
	Checks []string `json:"checks"` // in run order
	Failed []string `json:"failed"`
}
