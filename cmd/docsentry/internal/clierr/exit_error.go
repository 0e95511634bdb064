// SPDX-License-Identifier: AGPL-3.0-or-later

// Package clierr carries process exit codes through command errors.
package clierr

import (
	"errors"
	"fmt"
)

// Exit codes shared by every command.
const (
	// ExitVerdict means the run completed and its policy failed.
	ExitVerdict = 1
	// ExitOperational means the run could not complete.
	ExitOperational = 2
)

// ExitCoder is implemented by errors that choose their exit code.
type ExitCoder interface {
	error
	ExitCode() int
}

// ExitError is an error that carries an explicit process exit code.
// It supports wrapping via Unwrap so errors.Is/As work as expected.
type ExitError struct {
	code  int
	msg   string
	cause error
}

func (e *ExitError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *ExitError) ExitCode() int { return e.code }

// Unwrap enables errors.Is/As to traverse the underlying cause.
func (e *ExitError) Unwrap() error { return e.cause }

// Message returns the top-level message.
func (e *ExitError) Message() string { return e.msg }

// New creates an ExitError with a message.
func New(code int, msg string) error {
	return &ExitError{code: normalize(code), msg: msg}
}

// Wrap creates an ExitError that wraps an underlying cause.
func Wrap(code int, msg string, cause error) error {
	if cause == nil {
		return New(code, msg)
	}
	return &ExitError{code: normalize(code), msg: msg, cause: cause}
}

// Wrapf is a formatted variant that wraps.
func Wrapf(code int, cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return Wrap(code, msg, cause)
}

// ExitCodeOf extracts an exit code from any error. Errors that carry no code
// are operational failures (flag parsing, unknown commands).
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return ExitOperational
}

func normalize(code int) int {
	// Exit code 0 means success; errors should never be 0.
	if code <= 0 {
		return 1
	}
	return code
}
