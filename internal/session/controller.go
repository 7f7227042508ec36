// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/ragplay-tui/internal/history"
	"github.com/jeranaias/ragplay-tui/internal/model"
	"github.com/jeranaias/ragplay-tui/internal/orchestrator"
)

// NoticeIndexed is shown after a document is indexed.
const NoticeIndexed = "Document indexed successfully!"

// ErrModeUnsupported is returned by SetMode when the mode selector is disabled.
var ErrModeUnsupported = errors.New("mode selection is not supported")

// Dispatched work. Run it anywhere, then hand the result back to the
// controller's ApplyUpload or ApplyChat.
type (
	UploadTask   = orchestrator.UploadCall
	UploadResult = orchestrator.UploadResult
	ChatTask     = orchestrator.ChatCall
	ChatResult   = orchestrator.ChatResult
)

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the single writer of session state.
type Controller struct {
	id        string
	startedAt time.Time
	caps      Capabilities
	logger    *zap.Logger
	now       func() time.Time

	upload  *orchestrator.Upload
	chat    *orchestrator.Chat
	history *history.Store

	mode     model.Mode
	question string

	pending    *model.Document
	pendingGen uint64 // bumped by every SelectFile
	uploadGen  uint64 // pendingGen at the last upload dispatch

	last   *model.HistoryItem
	errMsg string
	notice string
}

// New creates a controller with Mode=document, empty history and idle
// statuses.
func New(indexer orchestrator.Indexer, asker orchestrator.Asker, opts ...Option) *Controller {
	o := options{
		caps:   DefaultCapabilities(),
		logger: zap.NewNop(),
		policy: orchestrator.DefaultUploadPolicy(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger.Named("session")
	c := &Controller{
		id:        uuid.New().String(),
		startedAt: o.now(),
		caps:      o.caps,
		logger:    logger,
		now:       o.now,
		upload:    orchestrator.NewUpload(indexer, o.policy, logger),
		chat:      orchestrator.NewChat(asker, logger),
		history:   history.NewStore(history.WithClock(o.now)),
		mode:      model.ModeDocument,
	}
	logger.Debug("session started",
		zap.String("session_id", c.id),
		zap.Bool("supports_mode", c.caps.SupportsMode),
		zap.Bool("keeps_history", c.caps.KeepsHistory))
	return c
}

// ID returns the session identifier.
func (c *Controller) ID() string {
	return c.id
}

// Capabilities returns the active capability set.
func (c *Controller) Capabilities() Capabilities {
	return c.caps
}

// UploadPolicy returns the policy documents are checked against.
func (c *Controller) UploadPolicy() orchestrator.UploadPolicy {
	return c.upload.Policy()
}

// =============================================================================
// SETTERS
// =============================================================================

// SetMode changes the mode used by future questions. A question already in
// flight keeps the mode it was dispatched with.
func (c *Controller) SetMode(m model.Mode) error {
	if !c.caps.SupportsMode {
		return ErrModeUnsupported
	}
	if !m.Valid() {
		return fmt.Errorf("invalid mode %q", m)
	}
	c.mode = m
	return nil
}

// Mode returns the current mode.
func (c *Controller) Mode() model.Mode {
	return c.mode
}

// SelectFile replaces the pending upload. nil clears it.
func (c *Controller) SelectFile(doc *model.Document) {
	c.pending = doc.Clone()
	c.pendingGen++
}

// PendingFile returns a copy of the pending upload, or nil.
func (c *Controller) PendingFile() *model.Document {
	return c.pending.Clone()
}

// SetPendingQuestion replaces the question buffer.
func (c *Controller) SetPendingQuestion(text string) {
	c.question = text
}

// DismissNotice clears the confirmation notice.
func (c *Controller) DismissNotice() {
	c.notice = ""
}

// =============================================================================
// UPLOAD
// =============================================================================

// SubmitUpload selects doc (when non-nil) and dispatches it for indexing.
// Validation failures are written to the error slot and returned; the
// backend is not contacted.
func (c *Controller) SubmitUpload(doc *model.Document) (*UploadTask, error) {
	c.notice = ""
	if doc != nil {
		c.SelectFile(doc)
	}

	task, err := c.upload.Begin(doc)
	if err != nil {
		c.errMsg = err.Error()
		c.logger.Debug("upload rejected", zap.Error(err))
		return nil, err
	}
	c.uploadGen = c.pendingGen
	return task, nil
}

// SubmitPendingUpload dispatches the file chosen with SelectFile.
func (c *Controller) SubmitPendingUpload() (*UploadTask, error) {
	c.notice = ""
	task, err := c.upload.Begin(c.pending)
	if err != nil {
		c.errMsg = err.Error()
		c.logger.Debug("upload rejected", zap.Error(err))
		return nil, err
	}
	c.uploadGen = c.pendingGen
	return task, nil
}

// ApplyUpload merges the outcome of an upload task. It returns the remote
// error for a failed upload, or ErrStaleResult for a result that does not
// belong to the outstanding task.
func (c *Controller) ApplyUpload(res UploadResult) error {
	if err := c.upload.Complete(res); err != nil {
		c.logger.Warn("discarding upload result", zap.Uint64("seq", res.Seq), zap.Error(err))
		return err
	}

	if res.Err != nil {
		c.errMsg = c.upload.Status().Message
		return res.Err
	}

	c.errMsg = ""
	c.notice = NoticeIndexed
	// A file picked while the upload was in flight stays selected.
	if c.pendingGen == c.uploadGen {
		c.pending = nil
	}
	return nil
}

// Upload submits doc and waits for the backend.
func (c *Controller) Upload(ctx context.Context, doc *model.Document) error {
	task, err := c.SubmitUpload(doc)
	if err != nil {
		return err
	}
	return c.ApplyUpload(task.Run(ctx))
}

// =============================================================================
// CHAT
// =============================================================================

// SubmitQuestion stores text as the pending question and dispatches it with
// the current mode. Validation failures are written to the error slot and
// returned; the backend is not contacted.
func (c *Controller) SubmitQuestion(text string) (*ChatTask, error) {
	c.question = text
	return c.SubmitPendingQuestion()
}

// SubmitPendingQuestion dispatches the current question buffer.
func (c *Controller) SubmitPendingQuestion() (*ChatTask, error) {
	c.notice = ""

	mode := model.ModeUnset
	if c.caps.SupportsMode {
		mode = c.mode
	}

	task, err := c.chat.Begin(c.question, mode)
	if err != nil {
		c.errMsg = err.Error()
		c.logger.Debug("question rejected", zap.Error(err))
		return nil, err
	}
	c.errMsg = ""
	return task, nil
}

// ApplyChat merges the outcome of a chat task. On success the exchange is
// recorded with the mode it was dispatched with and returned.
func (c *Controller) ApplyChat(res ChatResult) (model.HistoryItem, error) {
	if err := c.chat.Complete(res); err != nil {
		c.logger.Warn("discarding chat result", zap.Uint64("seq", res.Seq), zap.Error(err))
		return model.HistoryItem{}, err
	}

	if res.Err != nil {
		c.errMsg = c.chat.Status().Message
		return model.HistoryItem{}, res.Err
	}

	item := model.HistoryItem{
		Question: res.Question,
		Answer:   res.Answer.Text,
		Mode:     res.Mode.Effective(),
	}
	if c.caps.KeepsHistory {
		item = c.history.Append(item)
	} else {
		item.ID = uuid.New().String()
		item.AnsweredAt = c.now()
	}
	c.last = &item

	// Edits made while the question was in flight are kept.
	if c.question == res.Question {
		c.question = ""
	}
	c.errMsg = ""
	return item, nil
}

// Ask submits text and waits for the answer.
func (c *Controller) Ask(ctx context.Context, text string) (model.HistoryItem, error) {
	task, err := c.SubmitQuestion(text)
	if err != nil {
		return model.HistoryItem{}, err
	}
	return c.ApplyChat(task.Run(ctx))
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		SessionID:       c.id,
		StartedAt:       c.startedAt,
		Mode:            c.mode,
		PendingQuestion: c.question,
		History:         c.history.Items(),
		UploadStatus:    c.upload.Status(),
		ChatStatus:      c.chat.Status(),
		ErrorMessage:    c.errMsg,
		Notice:          c.notice,
		Capabilities:    c.caps,
	}
	if c.pending != nil {
		s.PendingFileName = c.pending.Name
	}
	if c.last != nil {
		last := *c.last
		s.LastExchange = &last
	}
	return s
}
