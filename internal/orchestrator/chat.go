// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package orchestrator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/ragplay-tui/internal/model"
)

// Asker sends a question to the backend.
type Asker interface {
	AskQuestion(ctx context.Context, question string, mode model.Mode) (model.Answer, error)
}

// Chat drives the ask operation. It is not safe for concurrent use.
type Chat struct {
	asker  Asker
	logger *zap.Logger

	status model.OperationStatus
	seq    uint64
}

// NewChat creates an idle chat orchestrator.
func NewChat(asker Asker, logger *zap.Logger) *Chat {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chat{
		asker:  asker,
		logger: logger.Named("chat"),
		status: model.Idle(),
	}
}

// Status returns the current status.
func (c *Chat) Status() model.OperationStatus {
	return c.status
}

// ChatCall is one dispatched ask operation. Mode is fixed at Begin.
type ChatCall struct {
	Seq      uint64
	Question string
	Mode     model.Mode

	asker Asker
}

// ChatResult is the outcome of a ChatCall.
type ChatResult struct {
	Seq      uint64
	Question string
	Mode     model.Mode
	Answer   model.Answer
	Err      error
}

// Begin validates question and marks the orchestrator in_flight with mode
// captured for this call. The question is sent exactly as given.
func (c *Chat) Begin(question string, mode model.Mode) (*ChatCall, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if c.status.IsInFlight() {
		return nil, ErrChatInFlight
	}

	c.seq++
	c.status = model.InFlight()
	c.logger.Debug("question dispatched",
		zap.Uint64("seq", c.seq),
		zap.String("mode", mode.String()),
		zap.Int("chars", len(question)))

	return &ChatCall{Seq: c.seq, Question: question, Mode: mode, asker: c.asker}, nil
}

// Run performs the remote call.
func (call *ChatCall) Run(ctx context.Context) ChatResult {
	ans, err := call.asker.AskQuestion(ctx, call.Question, call.Mode)
	return ChatResult{
		Seq:      call.Seq,
		Question: call.Question,
		Mode:     call.Mode,
		Answer:   ans,
		Err:      err,
	}
}

// Complete applies res: idle on success, failed(message) otherwise.
func (c *Chat) Complete(res ChatResult) error {
	if !c.status.IsInFlight() || res.Seq != c.seq {
		return ErrStaleResult
	}

	if res.Err != nil {
		c.status = model.Failed(failureMessage(res.Err, "Chat error."))
		c.logger.Info("question failed", zap.Uint64("seq", res.Seq), zap.Error(res.Err))
		return nil
	}

	c.status = model.Idle()
	c.logger.Debug("question answered", zap.Uint64("seq", res.Seq), zap.Int("chars", len(res.Answer.Text)))
	return nil
}
