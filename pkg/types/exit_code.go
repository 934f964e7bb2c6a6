// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared between buildcomp packages.
package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitOK reports a completed run, including one with nothing to collect.
	ExitOK ExitCode = 0
	// ExitFailure reports a fatal error such as a dependency cycle or an
	// unwritable output file.
	ExitFailure ExitCode = 1
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode is a process exit status in the POSIX range 0-255.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside 0-255.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is().
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if c is outside 0-255.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether c is ExitOK.
func (c ExitCode) IsSuccess() bool { return c == ExitOK }

// String returns the decimal form.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
