// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ragapi

import (
	"errors"
	"fmt"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// Fallback messages used when the server supplies no detail.
const (
	MsgUploadFailed = "Upload failed."
	MsgChatError    = "Chat error."
)

// Operation names carried by RemoteError.
const (
	OpUpload = "upload"
	OpChat   = "chat"
)

// ErrorKind categorizes remote errors for handling.
type ErrorKind int

const (
	KindUnknown   ErrorKind = iota
	KindTransport           // request never got a response
	KindStatus              // non-2xx response
	KindDecode              // 2xx response with an unreadable body
)

// String returns a short name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// RemoteError represents a failed call to the backend.
type RemoteError struct {
	Op         string
	Kind       ErrorKind
	StatusCode int // 0 unless Kind == KindStatus
	Message    string
	Cause      error
}

// Error returns the user-visible message.
func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// Diagnostic returns the message together with the status and cause, for logs.
func (e *RemoteError) Diagnostic() string {
	s := fmt.Sprintf("%s %s error", e.Op, e.Kind)
	if e.StatusCode != 0 {
		s += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	s += ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func fallbackMessage(op string) string {
	if op == OpUpload {
		return MsgUploadFailed
	}
	return MsgChatError
}

// IsRemoteError reports whether err is or wraps a *RemoteError.
func IsRemoteError(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Kind == KindTransport
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.StatusCode
	}
	return 0
}
