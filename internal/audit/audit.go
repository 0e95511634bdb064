// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audit runs the per-input analyzers over a corpus and aggregates
// their results into reports.
//
// Inputs are analyzed in parallel, but every result lands in the slot of its
// input, so reports come out in corpus order regardless of scheduling.
package audit

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"charm.land/log/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bartekus/docsentry/internal/corpus"
	"github.com/bartekus/docsentry/internal/extract"
	"github.com/bartekus/docsentry/internal/llmstxt"
	"github.com/bartekus/docsentry/internal/logging"
	"github.com/bartekus/docsentry/internal/projection"
	"github.com/bartekus/docsentry/internal/report"
	"github.com/bartekus/docsentry/internal/structure"
)

// Auditor holds what every audit needs.
type Auditor struct {
	Logger *log.Logger
	// Jobs bounds parallel analysis. Values below 1 mean 1.
	Jobs int
}

// New returns an Auditor. A nil logger discards diagnostics.
func New(logger *log.Logger, jobs int) *Auditor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Auditor{Logger: logger, Jobs: jobs}
}

func (a *Auditor) limit() int {
	if a.Jobs < 1 {
		return 1
	}
	return a.Jobs
}

// each calls fn for every index below n with at most a.Jobs calls running.
func (a *Auditor) each(ctx context.Context, n int, fn func(i int)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.limit())
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	return g.Wait()
}

// Coverage extracts declarations from every entry and aggregates them.
// Unreadable entries are logged and skipped.
func (a *Auditor) Coverage(ctx context.Context, src corpus.Supplier, profile *extract.Profile) (*report.Coverage, error) {
	entries, err := src.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	a.Logger.Debug("scanning sources", "files", len(entries), "jobs", a.limit())

	slots := make([][]extract.Declaration, len(entries))
	err = a.each(ctx, len(entries), func(i int) {
		e := entries[i]
		if e.Err != nil {
			return
		}
		slots[i] = profile.Extract(e.ID, extract.SplitLines(e.Text))
	})
	if err != nil {
		return nil, err
	}

	var decls []extract.Declaration
	var unreadable []string
	for i, e := range entries {
		if e.Err != nil {
			a.Logger.Warn("skipping unreadable source", "file", e.ID, "err", e.Err)
			unreadable = append(unreadable, e.ID)
			continue
		}
		decls = append(decls, slots[i]...)
	}

	c := report.NewCoverage(decls, len(entries), unreadable)
	a.Logger.Info("coverage computed",
		"files", len(entries), "total", c.Total(), "documented", c.Documented,
		"coverage", fmt.Sprintf("%.1f", c.Percent()))
	return c, nil
}

// Structure validates every entry and aggregates the findings. It also
// returns the entries so a caller can remediate them afterwards.
func (a *Auditor) Structure(ctx context.Context, src corpus.Supplier, rules structure.Rules) (*report.Validation, []corpus.Entry, error) {
	entries, err := src.Entries(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing documents: %w", err)
	}
	a.Logger.Debug("validating documents", "files", len(entries), "jobs", a.limit())

	slots := make([]structure.Findings, len(entries))
	err = a.each(ctx, len(entries), func(i int) {
		e := entries[i]
		if e.Err != nil {
			slots[i] = structure.Findings{
				Subject: e.ID,
				Issues:  []structure.Issue{structure.Unreadable(e.ID, e.Err)},
			}
			return
		}
		slots[i] = structure.Check(e.ID, e.Text, rules)
	})
	if err != nil {
		return nil, nil, err
	}

	for _, e := range entries {
		a.Logger.Debug("checked", "file", e.ID)
	}
	v := report.NewValidation(slots, len(entries))
	a.Logger.Info("validation finished",
		"files", len(entries), "issues", len(v.Issues), "advisories", len(v.Advisories))
	return v, entries, nil
}

// Pages reads the documentation pages below base (the slash-separated docs
// directory, relative to the root) that belong in an llms.txt index.
// Unreadable entries are logged and skipped.
func (a *Auditor) Pages(ctx context.Context, src corpus.Supplier, base string) ([]llmstxt.Page, error) {
	entries, err := src.Entries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	type slot struct {
		page llmstxt.Page
		ok   bool
	}
	slots := make([]slot, len(entries))
	err = a.each(ctx, len(entries), func(i int) {
		e := entries[i]
		rel := relativeTo(base, e.ID)
		if e.Err != nil || !llmstxt.Listed(rel) {
			return
		}
		slots[i].page, slots[i].ok = llmstxt.ParsePage(rel, e.Text)
	})
	if err != nil {
		return nil, err
	}

	var pages []llmstxt.Page
	for i, e := range entries {
		if e.Err != nil {
			a.Logger.Warn("skipping unreadable page", "file", e.ID, "err", e.Err)
			continue
		}
		if slots[i].ok {
			pages = append(pages, slots[i].page)
		}
	}
	a.Logger.Debug("collected pages", "files", len(entries), "pages", len(pages))
	return pages, nil
}

func relativeTo(base, id string) string {
	switch {
	case base == "" || base == ".":
		return id
	case id == base:
		return path.Base(id)
	default:
		return strings.TrimPrefix(id, base+"/")
	}
}

// FixResult lists what ApplyFixes changed.
type FixResult struct {
	Fixed  []string
	Failed []string
}

// ApplyFixes remediates every readable entry that has no metadata block and
// writes it back in place. In-memory entries (no Path) are never written.
// Failures are logged and collected; they do not stop the remaining fixes.
func (a *Auditor) ApplyFixes(ctx context.Context, entries []corpus.Entry, rules structure.Rules) (FixResult, error) {
	var res FixResult
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if e.Err != nil || e.Path == "" {
			continue
		}

		fixed, changed, err := structure.Fix(e.ID, e.Text, rules)
		if err != nil {
			a.Logger.Error("fix failed", "file", e.ID, "err", err)
			res.Failed = append(res.Failed, e.ID)
			continue
		}
		if !changed {
			continue
		}
		if err := writeInPlace(e.Path, fixed); err != nil {
			a.Logger.Error("writing fix failed", "file", e.ID, "err", err)
			res.Failed = append(res.Failed, e.ID)
			continue
		}
		a.Logger.Info("fixed", "file", e.ID)
		res.Fixed = append(res.Fixed, e.ID)
	}
	return res, nil
}

// writeInPlace replaces path atomically and keeps its permission bits.
func writeInPlace(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := projection.AtomicWrite(path, []byte(content)); err != nil {
		return err
	}
	return os.Chmod(path, info.Mode().Perm())
}
