// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bartekus/docsentry/cmd/docsentry/internal/clierr"
	"github.com/bartekus/docsentry/internal/audit"
	"github.com/bartekus/docsentry/internal/corpus"
	"github.com/bartekus/docsentry/internal/projection"
	"github.com/bartekus/docsentry/internal/projectroot"
)

const (
	compactFile = "llms.txt"
	fullFile    = "llms-full.txt"
)

// NewLLMsCommand returns the `docsentry llms` command.
func NewLLMsCommand(g *globalOptions) *cobra.Command {
	var (
		outputDir   string
		baseURL     string
		name        string
		compactOnly bool
		fullOnly    bool
	)

	cmd := &cobra.Command{
		Use:   "llms [path]",
		Short: "Generate llms.txt and llms-full.txt from the docs",
		Long: `Build a machine-readable index of the documentation tree (see llmstxt.org).

Only pages with a metadata block are indexed; nav_exclude: true leaves a page
out, as do directories starting with "_" and man pages. Pages are grouped by
their parent key and ordered by nav_order, then title.

  llms.txt       one linked line per page with its first paragraph
  llms-full.txt  every page's content inlined`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				s.cfg.Docs.Path = args[0]
			}
			if cmd.Flags().Changed("output-dir") {
				s.cfg.LLMs.OutputDir = outputDir
			}
			if cmd.Flags().Changed("base-url") {
				s.cfg.LLMs.BaseURL = baseURL
			}
			if cmd.Flags().Changed("name") {
				s.cfg.LLMs.Name = name
			}

			base, err := corpus.Relative(s.root, s.cfg.Docs.Path)
			if err != nil {
				return clierr.Wrap(clierr.ExitOperational, "llms", err)
			}
			supplier := corpus.NewFS(s.scanner, corpus.Options{
				Target:     s.cfg.Docs.Path,
				Extensions: s.cfg.Docs.Extensions,
			})
			pages, err := audit.New(s.logger, s.cfg.Jobs).Pages(cmd.Context(), supplier, base)
			if err != nil {
				return clierr.Wrap(clierr.ExitOperational, "llms", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Found %d documentation pages\n", len(pages))

			site := s.cfg.Site()
			dir := projectroot.Under(s.root, s.cfg.LLMsOutputDir())
			outputs := []struct {
				file   string
				render func() string
				skip   bool
			}{
				{file: compactFile, render: func() string { return site.Compact(pages) }, skip: fullOnly},
				{file: fullFile, render: func() string { return site.Full(pages) }, skip: compactOnly},
			}
			for _, o := range outputs {
				if o.skip {
					continue
				}
				path := filepath.Join(dir, o.file)
				text := o.render()
				if err := (projection.FileSink{Path: path}).Write(text, projection.FormatText); err != nil {
					return clierr.Wrap(clierr.ExitOperational, "llms", err)
				}
				_, _ = fmt.Fprintf(out, "Generated %s (%d bytes)\n", path, len(text))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory for the generated files (default from config, else the docs path)")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base URL of the published docs, used in links")
	cmd.Flags().StringVar(&name, "name", "", "project name for the index header (default from config)")
	cmd.Flags().BoolVar(&compactOnly, "compact-only", false, "generate only "+compactFile)
	cmd.Flags().BoolVar(&fullOnly, "full-only", false, "generate only "+fullFile)
	cmd.MarkFlagsMutuallyExclusive("compact-only", "full-only")

	return cmd
}
