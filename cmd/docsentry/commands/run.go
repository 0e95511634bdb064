// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bartekus/docsentry/cmd/docsentry/internal/clierr"
	"github.com/bartekus/docsentry/internal/checks"
	"github.com/bartekus/docsentry/internal/projectroot"
	"github.com/bartekus/docsentry/internal/runner"
)

type runOptions struct {
	*globalOptions
	json     bool
	stateDir string
}

// store resolves the state directory against the root. The flag wins over
// the config value.
func (o *runOptions) store(cmd *cobra.Command, s *session) *runner.StateStore {
	dir := s.cfg.StateDir
	if cmd.Flags().Changed("state-dir") {
		dir = o.stateDir
	}
	return runner.NewStateStore(projectroot.Under(s.root, dir))
}

func (o *runOptions) setup(cmd *cobra.Command) (*runner.Runner, error) {
	s, err := o.open(cmd)
	if err != nil {
		return nil, err
	}
	store := o.store(cmd, s)
	deps := &runner.Deps{
		Root:     s.root,
		StateDir: store.Dir(),
		Config:   s.cfg,
		Scanner:  s.scanner,
		Logger:   s.logger,
		Out:      cmd.OutOrStdout(),
	}
	return runner.NewRunner(checks.Registry(), store, deps), nil
}

// runExit maps runner errors onto process exit codes.
func runExit(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, runner.ErrRunFailed):
		return clierr.Wrap(clierr.ExitVerdict, "run", err)
	default:
		return clierr.Wrap(clierr.ExitOperational, "run", err)
	}
}

// NewRunCommand returns the `docsentry run` command group.
func NewRunCommand(g *globalOptions) *cobra.Command {
	o := &runOptions{globalOptions: g}

	cmd := &cobra.Command{
		Use:   "run [check...]",
		Short: "Run the registered checks and record their results",
		Long: `Run checks in order and record each result under the state directory,
so a later "run resume" re-runs only what failed.

With check IDs as arguments, only those checks run. See "run list".`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return checks.IDs(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			r, err := o.setup(cmd)
			if err != nil {
				return err
			}
			return runExit(r.RunList(cmd.Context(), args))
		},
	}

	cmd.PersistentFlags().BoolVar(&o.json, "json", false, "print list and report output as JSON")
	cmd.PersistentFlags().StringVar(&o.stateDir, "state-dir", "", "directory holding run state, relative to the root (default from config, else .docsentry/run)")

	cmd.AddCommand(
		newRunListCmd(o),
		newRunAllCmd(o),
		newRunResumeCmd(o),
		newRunReportCmd(o),
		newRunResetCmd(o),
	)
	return cmd
}

func newRunListCmd(o *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := checks.IDs()
			out := cmd.OutOrStdout()
			if o.json {
				return writeJSON(out, map[string][]string{"checks": ids})
			}
			for _, id := range ids {
				_, _ = fmt.Fprintln(out, id)
			}
			return nil
		},
	}
}

func newRunAllCmd(o *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run every check",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := o.setup(cmd)
			if err != nil {
				return err
			}
			return runExit(r.RunAll(cmd.Context()))
		},
	}
}

func newRunResumeCmd(o *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Re-run the checks that failed last time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := o.setup(cmd)
			if err != nil {
				return err
			}
			return runExit(r.Resume(cmd.Context()))
		},
	}
}

func newRunResetCmd(o *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear run state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd)
			if err != nil {
				return err
			}
			if err := o.store(cmd, s).Reset(); err != nil {
				return clierr.Wrap(clierr.ExitOperational, "resetting run state", err)
			}
			return nil
		},
	}
}

func newRunReportCmd(o *runOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show the last run status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.open(cmd)
			if err != nil {
				return err
			}
			store := o.store(cmd, s)
			last, err := store.ReadLastRun()
			if err != nil {
				return clierr.Wrap(clierr.ExitOperational, "reading run state", err)
			}

			out := cmd.OutOrStdout()
			if o.json {
				return writeJSON(out, last)
			}
			if last == nil {
				_, _ = fmt.Fprintln(out, "No run state found.")
				return nil
			}

			_, _ = fmt.Fprintf(out, "Status: %s\n", last.Status)
			for _, id := range last.Checks {
				res, err := store.ReadCheck(id)
				if err != nil {
					return clierr.Wrap(clierr.ExitOperational, "reading run state", err)
				}
				if res == nil {
					continue
				}
				_, _ = fmt.Fprintf(out, "  %-16s %s\n", id, res.Status)
			}
			if len(last.Failed) > 0 {
				_, _ = fmt.Fprintln(out, "Failed:")
				for _, f := range last.Failed {
					_, _ = fmt.Fprintf(out, "  - %s\n", f)
				}
			} else {
				_, _ = fmt.Fprintln(out, "All passed.")
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return clierr.Wrap(clierr.ExitOperational, "encoding JSON", err)
	}
	return nil
}
