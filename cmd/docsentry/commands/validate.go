// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/bartekus/docsentry/cmd/docsentry/internal/clierr"
	"github.com/bartekus/docsentry/internal/audit"
	"github.com/bartekus/docsentry/internal/corpus"
	"github.com/bartekus/docsentry/internal/report"
)

// NewValidateCommand returns the `docsentry validate` command.
func NewValidateCommand(g *globalOptions) *cobra.Command {
	var (
		rf      reportFlags
		fix     bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate metadata and heading structure of markdown docs",
		Long: `Check every markdown file under path (default from config, else docs) for:

  - a metadata block delimited by --- lines
  - the required layout key and value
  - a title, in metadata or as a leading H1
  - heading levels that never skip (H2 to H4)
  - at most two H1 headings

A missing nav_order is reported as a non-blocking advisory.

With --fix, files without a metadata block get a generated one. The verdict
still reflects the state before fixing, so a run that fixed anything exits 1.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			if verbose {
				s.logger.SetLevel(log.DebugLevel)
			}

			rf.apply(cmd, s)
			if len(args) == 1 {
				s.cfg.Docs.Path = args[0]
			}
			format, err := validated(s)
			if err != nil {
				return err
			}

			supplier := corpus.NewFS(s.scanner, corpus.Options{
				Target:     s.cfg.Docs.Path,
				Extensions: s.cfg.Docs.Extensions,
			})
			a := audit.New(s.logger, s.cfg.Jobs)
			rules := s.cfg.Rules()

			v, entries, err := a.Structure(cmd.Context(), supplier, rules)
			if err != nil {
				return clierr.Wrap(clierr.ExitOperational, "validate", err)
			}

			if err := rf.emit(cmd, format, v); err != nil {
				return err
			}

			if fix && len(v.Issues) > 0 {
				res, err := a.ApplyFixes(cmd.Context(), entries, rules)
				if err != nil {
					return clierr.Wrap(clierr.ExitOperational, "applying fixes", err)
				}
				errOut := cmd.ErrOrStderr()
				for _, id := range res.Fixed {
					_, _ = fmt.Fprintf(errOut, "Fixed: %s\n", id)
				}
				_, _ = fmt.Fprintf(errOut, "Fixed %d file(s)\n", len(res.Fixed))
				if len(res.Failed) > 0 {
					_, _ = fmt.Fprintf(errOut, "Could not fix %d file(s)\n", len(res.Failed))
				}
			}

			verdict := report.EvaluateValidation(v)
			if !verdict.Pass {
				return clierr.New(clierr.ExitVerdict, verdict.Reasons[0])
			}
			return nil
		},
	}

	rf.register(cmd)
	cmd.Flags().BoolVar(&fix, "fix", false, "add a metadata block to files that lack one")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every checked file")

	return cmd
}
