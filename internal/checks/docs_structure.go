// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"fmt"

	"github.com/bartekus/docsentry/internal/audit"
	"github.com/bartekus/docsentry/internal/corpus"
	"github.com/bartekus/docsentry/internal/report"
	"github.com/bartekus/docsentry/internal/runner"
)

// DocsStructure validates the metadata and heading structure of the docs.
type DocsStructure struct {
	id string
}

func NewDocsStructure() runner.Check {
	return &DocsStructure{id: "docs:structure"}
}

func (c *DocsStructure) ID() string { return c.id }

func (c *DocsStructure) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	docs := deps.Config.Docs
	if missingDir(deps.Root, docs.Path) {
		return runner.Result{
			Check:  c.id,
			Status: runner.StatusSkip,
			Note:   fmt.Sprintf("docs directory %s not found", docs.Path),
		}
	}

	supplier := corpus.NewFS(deps.Scanner, corpus.Options{
		Target:     docs.Path,
		Extensions: docs.Extensions,
	})
	v, _, err := audit.New(deps.Logger, deps.Config.Jobs).Structure(ctx, supplier, deps.Config.Rules())
	if err != nil {
		return operational(c.id, err)
	}
	if err := emit(ctx, deps, v); err != nil {
		return operational(c.id, err)
	}

	note := fmt.Sprintf("%d files checked, %d advisories", v.FilesChecked, len(v.Advisories))
	return verdictResult(c.id, report.EvaluateValidation(v), note)
}
