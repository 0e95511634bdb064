// SPDX-License-Identifier: AGPL-3.0-or-later

// Package runner executes checks in order, records each result under a state
// directory, and can re-run only what failed last time.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bartekus/docsentry/internal/logging"
)

var (
	// ErrRunFailed is returned when at least one check failed.
	ErrRunFailed = errors.New("run failed")
	// ErrUnknownCheck is returned for a check ID that is not registered.
	ErrUnknownCheck = errors.New("check not found")
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// Runner manages the execution of checks.
type Runner struct {
	checks []Check
	store  *StateStore
	deps   *Deps
}

// NewRunner creates a new runner with the given checks and dependencies.
func NewRunner(checks []Check, store *StateStore, deps *Deps) *Runner {
	if deps.Out == nil {
		deps.Out = io.Discard
	}
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	return &Runner{
		checks: checks,
		store:  store,
		deps:   deps,
	}
}

// RunAll executes all checks in order.
// It keeps going after a failure and returns ErrRunFailed if any check failed.
func (r *Runner) RunAll(ctx context.Context) error {
	return r.executeSequence(ctx, r.checks)
}

// Resume re-runs only the checks that failed in the last run.
// With nothing to resume it does nothing and succeeds.
func (r *Runner) Resume(ctx context.Context) error {
	failed, err := r.store.LoadFailedChecks()
	if err != nil {
		return fmt.Errorf("loading failed checks: %w", err)
	}

	if len(failed) == 0 {
		fmt.Fprintln(r.deps.Out, "No failed checks to resume.")
		return nil
	}

	var toRun []Check
	for _, id := range failed {
		if c := r.findCheck(id); c != nil {
			toRun = append(toRun, c)
		}
	}

	return r.executeSequence(ctx, toRun)
}

// RunList executes the given checks in the given order.
func (r *Runner) RunList(ctx context.Context, ids []string) error {
	var toRun []Check
	for _, id := range ids {
		c := r.findCheck(id)
		if c == nil {
			return fmt.Errorf("%w: %s", ErrUnknownCheck, id)
		}
		toRun = append(toRun, c)
	}
	return r.executeSequence(ctx, toRun)
}

func (r *Runner) findCheck(id string) Check {
	for _, c := range r.checks {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

// executeSequence runs checks one after another, recording every result and
// then the run summary.
func (r *Runner) executeSequence(ctx context.Context, checks []Check) error {
	out := r.deps.Out
	var failed []string
	var ids []string

	for _, c := range checks {
		if err := ctx.Err(); err != nil {
			return err
		}

		id := c.ID()
		ids = append(ids, id)

		fmt.Fprintf(out, "\n%s\nCHECK: %s\n%s\n\n", rule, id, rule)

		start := time.Now()
		res := c.Run(ctx, r.deps)
		res.Check = id
		r.deps.Logger.Debug("check finished", "check", id, "status", res.Status, "elapsed", time.Since(start))

		if err := r.store.WriteResult(res); err != nil {
			return fmt.Errorf("writing result for %s: %w", id, err)
		}

		switch res.Status {
		case StatusSkip:
			fmt.Fprintf(out, "SKIP: %s\n", id)
		case StatusPass:
			fmt.Fprintf(out, "PASS: %s\n", id)
		default:
			failed = append(failed, id)
			fmt.Fprintf(out, "FAIL: %s (exit %d)\n", id, res.ExitCode)
		}
		if res.Note != "" {
			fmt.Fprintln(out, res.Note)
		}
	}

	last := LastRun{
		Status: StatusPass,
		Checks: ids,
		Failed: failed,
	}
	if len(failed) > 0 {
		last.Status = StatusFail
	}

	if err := r.store.WriteLastRun(last); err != nil {
		return fmt.Errorf("writing last run: %w", err)
	}

	if len(failed) > 0 {
		return fmt.Errorf("%w: %s", ErrRunFailed, strings.Join(failed, ", "))
	}
	return nil
}
