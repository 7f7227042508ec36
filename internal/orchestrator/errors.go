// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"errors"
)

// ValidationError is a local precondition failure. It never reaches the
// network and is fixed by correcting the input.
type ValidationError struct {
	Reason string
	Detail string // optional, e.g. the offending extension
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return e.Reason + ": " + e.Detail
	}
	return e.Reason
}

// Is matches another ValidationError with the same Reason, so
// errors.Is(err, ErrUnsupportedType) holds whatever the Detail.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Reason == e.Reason
}

// Sentinel validation errors.
var (
	ErrNoFile          = &ValidationError{Reason: "no file selected"}
	ErrUploadInFlight  = &ValidationError{Reason: "upload already in progress"}
	ErrUnsupportedType = &ValidationError{Reason: "unsupported file type"}
	ErrEmptyFile       = &ValidationError{Reason: "file is empty"}
	ErrFileTooLarge    = &ValidationError{Reason: "file too large"}
	ErrEmptyQuestion   = &ValidationError{Reason: "empty question"}
	ErrChatInFlight    = &ValidationError{Reason: "question already in progress"}
)

// ErrStaleResult is returned by Complete for a result that does not match
// the outstanding call.
var ErrStaleResult = errors.New("result does not match the outstanding call")

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// failureMessage is the text shown for a failed remote call.
func failureMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
