// SPDX-License-Identifier: AGPL-3.0-or-later

package checks

import (
	"context"
	"fmt"

	"github.com/bartekus/docsentry/internal/audit"
	"github.com/bartekus/docsentry/internal/corpus"
	"github.com/bartekus/docsentry/internal/extract"
	"github.com/bartekus/docsentry/internal/runner"
)

// APICoverage measures doc-comment coverage of the public API.
type APICoverage struct {
	id string
}

func NewAPICoverage() runner.Check {
	return &APICoverage{id: "api:coverage"}
}

func (c *APICoverage) ID() string { return c.id }

func (c *APICoverage) Run(ctx context.Context, deps *runner.Deps) runner.Result {
	src := deps.Config.Source
	if missingDir(deps.Root, src.Path) {
		return runner.Result{
			Check:  c.id,
			Status: runner.StatusSkip,
			Note:   fmt.Sprintf("source directory %s not found", src.Path),
		}
	}

	supplier := corpus.NewFS(deps.Scanner, corpus.Options{
		Target:       src.Path,
		Extensions:   src.Extensions,
		SkipSegments: src.SkipSegments,
	})
	cov, err := audit.New(deps.Logger, deps.Config.Jobs).Coverage(ctx, supplier, extract.Rust)
	if err != nil {
		return operational(c.id, err)
	}
	if err := emit(ctx, deps, cov); err != nil {
		return operational(c.id, err)
	}

	note := fmt.Sprintf("%d/%d public APIs documented (%.1f%%)", cov.Documented, cov.Total(), cov.Percent())
	return verdictResult(c.id, deps.Config.Policy().Evaluate(cov), note)
}
