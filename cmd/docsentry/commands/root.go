// SPDX-License-Identifier: AGPL-3.0-or-later

/*
docsentry - documentation quality gates for source trees.
It measures doc-comment coverage of a public API and validates the structure
of a markdown documentation site.

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package commands contains the Cobra commands of the docsentry CLI.
package commands

import (
	"fmt"
	"os"

	"charm.land/log/v2"
	"github.com/spf13/cobra"

	"github.com/bartekus/docsentry/cmd/docsentry/internal/clierr"
	"github.com/bartekus/docsentry/internal/config"
	"github.com/bartekus/docsentry/internal/logging"
	"github.com/bartekus/docsentry/internal/projectroot"
	"github.com/bartekus/docsentry/internal/scanner"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	root       string
	configPath string
	log        *logging.Config
}

// session is everything a command needs once flags are parsed.
type session struct {
	root    string
	cfg     config.Config
	logger  *log.Logger
	scanner *scanner.Scanner
}

// open resolves the root, loads the config and builds the logger.
// Every failure here is operational.
func (o *globalOptions) open(cmd *cobra.Command) (*session, error) {
	logger, err := o.log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitOperational, "invalid logging flags", err)
	}

	root, err := projectroot.Resolve(o.root)
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitOperational, "invalid root", err)
	}

	cfg, err := config.Load(root, o.configPath)
	if err != nil {
		return nil, clierr.Wrap(clierr.ExitOperational, "loading config", err)
	}
	logger.Debug("session opened", "root", root, "jobs", cfg.Jobs)

	return &session{
		root:    root,
		cfg:     cfg,
		logger:  logger,
		scanner: scanner.New(root),
	}, nil
}

// NewRootCmd constructs the docsentry root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("DOCSENTRY_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	opts := &globalOptions{log: logging.NewConfig()}

	cmd := &cobra.Command{
		Use:   "docsentry",
		Short: "docsentry - documentation quality gates",
		Long: `docsentry measures doc-comment coverage of a public API and validates the
metadata and heading structure of a markdown documentation tree.

Reports go to stdout (or --output); diagnostics go to stderr.
Exit codes: 0 pass, 1 policy failure, 2 operational error.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.root, "root", ".", "project root; inputs and identifiers are relative to it")
	flags.StringVar(&opts.configPath, "config", "", fmt.Sprintf("config file (default <root>/%s if present)", config.FileName))
	opts.log.RegisterFlags(flags)
	if err := opts.log.RegisterCompletions(cmd); err != nil {
		panic(err)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of docsentry",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "docsentry version %s\n", version)
		},
	})

	cmd.AddCommand(NewCoverageCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewLLMsCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSchemaCommand())

	return cmd
}
