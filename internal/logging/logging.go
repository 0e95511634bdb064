// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging builds the diagnostic logger from CLI flags.
//
// Diagnostics always go to stderr so that reports written to stdout stay
// machine readable.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"charm.land/log/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// Format is the log output format.
type Format string

const (
	FormatText   Format = "text"
	FormatLogfmt Format = "logfmt"
	FormatJSON   Format = "json"
	// FormatAuto is text on a terminal and logfmt otherwise.
	FormatAuto Format = "auto"
)

var (
	// ErrUnknownLevel indicates an unrecognized log level string.
	ErrUnknownLevel = errors.New("unknown log level")
	// ErrUnknownFormat indicates an unrecognized log format string.
	ErrUnknownFormat = errors.New("unknown log format")
)

var levels = map[string]log.Level{
	"debug":   log.DebugLevel,
	"info":    log.InfoLevel,
	"warn":    log.WarnLevel,
	"warning": log.WarnLevel,
	"error":   log.ErrorLevel,
}

// LevelStrings returns the accepted level names, for help and completion.
func LevelStrings() []string {
	return []string{"debug", "info", "warn", "error"}
}

// FormatStrings returns the accepted format names.
func FormatStrings() []string {
	return []string{string(FormatAuto), string(FormatText), string(FormatLogfmt), string(FormatJSON)}
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (log.Level, error) {
	lvl, ok := levels[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
	return lvl, nil
}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if slices.Contains(FormatStrings(), string(f)) {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Flags holds the CLI flag names for log configuration.
type Flags struct {
	Level  string
	Format string
}

// Config holds CLI flag values for log configuration.
type Config struct {
	Level  string
	Format string
	Flags  Flags
}

// NewConfig returns a Config using the --log-level and --log-format flags.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Level:  "log-level",
			Format: "log-format",
		},
	}
}

// RegisterFlags adds the logging flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, "warn",
		fmt.Sprintf("log level, one of: %s", strings.Join(LevelStrings(), ", ")))
	flags.StringVar(&c.Format, c.Flags.Format, string(FormatAuto),
		fmt.Sprintf("log format, one of: %s", strings.Join(FormatStrings(), ", ")))
}

// RegisterCompletions registers shell completions for the logging flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Level,
		cobra.FixedCompletions(LevelStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering log-level completion: %w", err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.Format,
		cobra.FixedCompletions(FormatStrings(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering log-format completion: %w", err)
	}
	return nil
}

// NewLogger builds a logger writing to w from the configured level and format.
func (c *Config) NewLogger(w io.Writer) (*log.Logger, error) {
	level := c.Level
	if level == "" {
		level = "warn"
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	format := c.Format
	if format == "" {
		format = string(FormatAuto)
	}
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	return New(w, lvl, f), nil
}

// New returns a logger writing to w.
func New(w io.Writer, lvl log.Level, f Format) *log.Logger {
	if f == FormatAuto {
		f = FormatLogfmt
		if isTerminal(w) {
			f = FormatText
		}
	}

	opts := log.Options{
		Level:  lvl,
		Prefix: "docsentry",
	}
	switch f {
	case FormatJSON:
		opts.Formatter = log.JSONFormatter
	case FormatLogfmt:
		opts.Formatter = log.LogfmtFormatter
	default:
		opts.Formatter = log.TextFormatter
		opts.ReportTimestamp = true
	}
	return log.NewWithOptions(w, opts)
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
