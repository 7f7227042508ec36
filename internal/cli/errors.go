// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jeranaias/ragplay-tui/internal/ragapi"
)

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitError is returned for every failure
	ExitError = 1
)

// UsageError reports invalid command-line usage.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

// IsUsageError reports whether err is a UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// jsonReported marks an error whose JSON envelope was already written to
// stdout, so HandleError only sets the exit code.
type jsonReported struct {
	err error
}

func (e *jsonReported) Error() string { return e.err.Error() }
func (e *jsonReported) Unwrap() error { return e.err }

// HandleError prints err to stderr and returns the process exit code.
func HandleError(err error, jsonMode bool) int {
	return handleError(os.Stderr, err, jsonMode)
}

func handleError(w io.Writer, err error, jsonMode bool) int {
	if err == nil {
		return ExitSuccess
	}

	var reported *jsonReported
	if jsonMode && errors.As(err, &reported) {
		return ExitError
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error: ")+err.Error())
	if IsUsageError(err) {
		fmt.Fprintln(w, DimStyle.Render("Run 'ragplay help' for usage."))
	}
	return ExitError
}

// describeError returns the user-visible message for err plus, for remote
// failures, a diagnostic line suitable for --verbose output.
func describeError(err error) (message, diagnostic string) {
	var re *ragapi.RemoteError
	if errors.As(err, &re) {
		return re.Error(), re.Diagnostic()
	}
	return err.Error(), ""
}
