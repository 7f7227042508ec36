// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/ragplay-tui/internal/model"
)

// Indexer sends a document to the backend for indexing.
type Indexer interface {
	IndexDocument(ctx context.Context, doc model.Document) error
}

// =============================================================================
// UPLOAD POLICY
// =============================================================================

// UploadPolicy restricts which documents may be submitted.
type UploadPolicy struct {
	// AllowedExtensions lists accepted lower-case extensions such as ".txt".
	// Empty accepts any extension.
	AllowedExtensions []string

	// MaxBytes caps the document size; 0 means unlimited.
	MaxBytes int64
}

// DefaultUploadPolicy accepts plain-text files up to 10 MiB.
func DefaultUploadPolicy() UploadPolicy {
	return UploadPolicy{AllowedExtensions: []string{".txt"}, MaxBytes: 10 << 20}
}

// Check validates doc against the policy.
func (p UploadPolicy) Check(doc *model.Document) error {
	if doc == nil {
		return ErrNoFile
	}
	if len(p.AllowedExtensions) > 0 {
		ext := doc.Ext()
		allowed := false
		for _, a := range p.AllowedExtensions {
			if strings.EqualFold(a, ext) {
				allowed = true
				break
			}
		}
		if !allowed {
			detail := ext
			if detail == "" {
				detail = doc.Name
			}
			return &ValidationError{Reason: ErrUnsupportedType.Reason, Detail: detail}
		}
	}
	if doc.Size() == 0 {
		return ErrEmptyFile
	}
	if p.MaxBytes > 0 && int64(doc.Size()) > p.MaxBytes {
		return &ValidationError{
			Reason: ErrFileTooLarge.Reason,
			Detail: fmt.Sprintf("%d bytes, limit %d", doc.Size(), p.MaxBytes),
		}
	}
	return nil
}

// =============================================================================
// UPLOAD ORCHESTRATOR
// =============================================================================

// Upload drives the index operation. It is not safe for concurrent use.
type Upload struct {
	indexer Indexer
	policy  UploadPolicy
	logger  *zap.Logger

	status model.OperationStatus
	seq    uint64
}

// NewUpload creates an idle upload orchestrator.
func NewUpload(indexer Indexer, policy UploadPolicy, logger *zap.Logger) *Upload {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Upload{
		indexer: indexer,
		policy:  policy,
		logger:  logger.Named("upload"),
		status:  model.Idle(),
	}
}

// Status returns the current status.
func (u *Upload) Status() model.OperationStatus {
	return u.status
}

// Policy returns the active upload policy.
func (u *Upload) Policy() UploadPolicy {
	return u.policy
}

// UploadCall is one dispatched index operation.
type UploadCall struct {
	Seq      uint64
	Document model.Document

	indexer Indexer
}

// UploadResult is the outcome of an UploadCall.
type UploadResult struct {
	Seq      uint64
	Document model.Document
	Err      error
}

// Begin validates doc and marks the orchestrator in_flight.
// On error the status is unchanged and no call is made.
func (u *Upload) Begin(doc *model.Document) (*UploadCall, error) {
	if doc == nil {
		return nil, ErrNoFile
	}
	if u.status.IsInFlight() {
		return nil, ErrUploadInFlight
	}
	if err := u.policy.Check(doc); err != nil {
		return nil, err
	}

	u.seq++
	u.status = model.InFlight()
	u.logger.Debug("upload dispatched",
		zap.Uint64("seq", u.seq),
		zap.String("file", doc.Name),
		zap.Int("bytes", doc.Size()))

	return &UploadCall{Seq: u.seq, Document: *doc.Clone(), indexer: u.indexer}, nil
}

// Run performs the remote call.
func (c *UploadCall) Run(ctx context.Context) UploadResult {
	err := c.indexer.IndexDocument(ctx, c.Document)
	return UploadResult{Seq: c.Seq, Document: c.Document, Err: err}
}

// Complete applies res: idle on success, failed(message) otherwise.
func (u *Upload) Complete(res UploadResult) error {
	if !u.status.IsInFlight() || res.Seq != u.seq {
		return ErrStaleResult
	}

	if res.Err != nil {
		u.status = model.Failed(failureMessage(res.Err, "Upload failed."))
		u.logger.Info("upload failed", zap.Uint64("seq", res.Seq), zap.Error(res.Err))
		return nil
	}

	u.status = model.Idle()
	u.logger.Info("document indexed", zap.Uint64("seq", res.Seq), zap.String("file", res.Document.Name))
	return nil
}
