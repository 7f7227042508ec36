// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/ragplay-tui/internal/orchestrator"
)

// Capabilities selects which controller features are enabled.
type Capabilities struct {
	// SupportsMode enables the document/web/general selector. When false
	// requests carry no mode and history records the backend default.
	SupportsMode bool

	// KeepsHistory appends every answer to the history. When false only the
	// latest exchange is kept.
	KeepsHistory bool
}

// DefaultCapabilities enables every feature.
func DefaultCapabilities() Capabilities {
	return Capabilities{SupportsMode: true, KeepsHistory: true}
}

type options struct {
	caps   Capabilities
	logger *zap.Logger
	policy orchestrator.UploadPolicy
	now    func() time.Time
}

// Option configures a Controller.
type Option func(*options)

// WithCapabilities sets the capability set.
func WithCapabilities(caps Capabilities) Option {
	return func(o *options) { o.caps = caps }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithUploadPolicy sets the upload policy.
func WithUploadPolicy(policy orchestrator.UploadPolicy) Option {
	return func(o *options) { o.policy = policy }
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
