// SPDX-License-Identifier: AGPL-3.0-or-later

// Package checks holds the checks the runner knows about.
package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bartekus/docsentry/internal/projection"
	"github.com/bartekus/docsentry/internal/report"
	"github.com/bartekus/docsentry/internal/runner"
)

// Exit codes recorded in check results.
const (
	exitVerdict     = 1
	exitOperational = 2
)

// Registry defines the canonical order of checks.
func Registry() []runner.Check {
	return []runner.Check{
		NewAPICoverage(),
		NewDocsStructure(),
	}
}

// IDs returns the registered check IDs in order.
func IDs() []string {
	var ids []string
	for _, c := range Registry() {
		ids = append(ids, c.ID())
	}
	return ids
}

// missingDir reports whether rel, below root, is absent.
func missingDir(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, rel))
	return os.IsNotExist(err)
}

func operational(id string, err error) runner.Result {
	return runner.Result{
		Check:    id,
		Status:   runner.StatusFail,
		ExitCode: exitOperational,
		Note:     err.Error(),
	}
}

// emit renders r in the configured format and writes it to the run output.
func emit(ctx context.Context, deps *runner.Deps, r report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	format, err := projection.ParseFormat(deps.Config.Format)
	if err != nil {
		return err
	}
	out, err := report.Render(r, format)
	if err != nil {
		return err
	}
	if err := (projection.WriterSink{W: deps.Out}).Write(out, format); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func verdictResult(id string, v report.Verdict, passNote string) runner.Result {
	if v.Pass {
		return runner.Result{Check: id, Status: runner.StatusPass, Note: passNote}
	}
	return runner.Result{
		Check:    id,
		Status:   runner.StatusFail,
		ExitCode: exitVerdict,
		Note:     strings.Join(v.Reasons, "\n"),
	}
}
