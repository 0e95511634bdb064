// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/bartekus/docsentry/cmd/docsentry/internal/clierr"
	"github.com/bartekus/docsentry/internal/audit"
	"github.com/bartekus/docsentry/internal/corpus"
	"github.com/bartekus/docsentry/internal/extract"
)

// NewCoverageCommand returns the `docsentry coverage` command.
func NewCoverageCommand(g *globalOptions) *cobra.Command {
	var (
		rf        reportFlags
		path      string
		strict    bool
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Measure doc-comment coverage of the public API",
		Long: `Scan source files for public declarations (functions, structs, enums,
traits, constants and statics) and report which carry a doc comment.

Files under a "test" or "example" directory are skipped.
Fails with exit code 1 when coverage is below --threshold, or when --strict is
set and any declaration is undocumented.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}

			rf.apply(cmd, s)
			if cmd.Flags().Changed("path") {
				s.cfg.Source.Path = path
			}
			if cmd.Flags().Changed("strict") {
				s.cfg.Coverage.Strict = strict
			}
			if cmd.Flags().Changed("threshold") {
				s.cfg.Coverage.Threshold = threshold
			}
			format, err := validated(s)
			if err != nil {
				return err
			}

			supplier := corpus.NewFS(s.scanner, corpus.Options{
				Target:       s.cfg.Source.Path,
				Extensions:   s.cfg.Source.Extensions,
				SkipSegments: s.cfg.Source.SkipSegments,
			})
			cov, err := audit.New(s.logger, s.cfg.Jobs).Coverage(cmd.Context(), supplier, extract.Rust)
			if err != nil {
				return clierr.Wrap(clierr.ExitOperational, "coverage", err)
			}

			if err := rf.emit(cmd, format, cov); err != nil {
				return err
			}

			verdict := s.cfg.Policy().Evaluate(cov)
			if !verdict.Pass {
				return clierr.New(clierr.ExitVerdict, strings.Join(verdict.Reasons, "; "))
			}
			return nil
		},
	}

	rf.register(cmd)
	cmd.Flags().StringVar(&path, "path", "", "source directory or file to scan (default from config, else crates)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail if any public API is undocumented")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum coverage percentage, 0 to 100")

	return cmd
}
