// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"github.com/spf13/cobra"

	"github.com/bartekus/docsentry/cmd/docsentry/internal/clierr"
	"github.com/bartekus/docsentry/internal/projection"
	"github.com/bartekus/docsentry/internal/report"
)

// reportFlags are the output flags shared by coverage and validate.
type reportFlags struct {
	format string
	output string
	jobs   int
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.format, "format", "", "report format: text, json or markdown (default from config, else text)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().IntVar(&f.jobs, "jobs", 0, "inputs analyzed in parallel (default from config)")

	_ = cmd.RegisterFlagCompletionFunc("format",
		cobra.FixedCompletions(projection.FormatStrings(), cobra.ShellCompDirectiveNoFileComp))
}

// apply overrides config values with the flags the user actually set.
func (f *reportFlags) apply(cmd *cobra.Command, s *session) {
	if cmd.Flags().Changed("format") {
		s.cfg.Format = f.format
	}
	if cmd.Flags().Changed("jobs") {
		s.cfg.Jobs = f.jobs
	}
}

// emit renders r and hands it to the selected sink.
func (f *reportFlags) emit(cmd *cobra.Command, format projection.Format, r report.Report) error {
	rendered, err := report.Render(r, format)
	if err != nil {
		return clierr.Wrap(clierr.ExitOperational, "rendering report", err)
	}
	sink := projection.NewSink(f.output, cmd.OutOrStdout())
	if err := sink.Write(rendered, format); err != nil {
		return clierr.Wrap(clierr.ExitOperational, "writing report", err)
	}
	return nil
}

// validated re-checks the config after flag overrides and parses the format.
func validated(s *session) (projection.Format, error) {
	if err := s.cfg.Validate(); err != nil {
		return "", clierr.Wrap(clierr.ExitOperational, "invalid options", err)
	}
	format, err := projection.ParseFormat(s.cfg.Format)
	if err != nil {
		return "", clierr.Wrap(clierr.ExitOperational, "invalid options", err)
	}
	return format, nil
}
