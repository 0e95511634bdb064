// SPDX-License-Identifier: AGPL-3.0-or-later

package runner

import (
	"context"
	"io"

	"charm.land/log/v2"

	"github.com/bartekus/docsentry/internal/config"
	"github.com/bartekus/docsentry/internal/scanner"
)

// Deps contains dependencies injected into checks.
type Deps struct {
	Root     string
	StateDir string
	Config   config.Config
	Scanner  *scanner.Scanner
	Logger   *log.Logger

	// Out receives the human-readable output of a run.
	Out io.Writer
}

// Check is one unit of work the runner executes.
type Check interface {
	// ID returns the unique identifier (e.g. "docs:structure").
	ID() string

	// Run executes the check. Failures are reported in the Result, never
	// returned.
	Run(ctx context.Context, deps *Deps) Result
}
