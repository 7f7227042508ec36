// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ragplay-tui/internal/model"
	"github.com/jeranaias/ragplay-tui/internal/orchestrator"
	"github.com/jeranaias/ragplay-tui/internal/ragapi"
)

// =============================================================================
// FAKES
// =============================================================================

type fakeBackend struct {
	uploads []model.Document
	asks    []askCall

	uploadErr error
	askErr    error
	answer    func(q string) string
}

type askCall struct {
	Question string
	Mode     model.Mode
}

func (f *fakeBackend) IndexDocument(_ context.Context, doc model.Document) error {
	f.uploads = append(f.uploads, doc)
	return f.uploadErr
}

func (f *fakeBackend) AskQuestion(_ context.Context, q string, mode model.Mode) (model.Answer, error) {
	f.asks = append(f.asks, askCall{q, mode})
	if f.askErr != nil {
		return model.Answer{}, f.askErr
	}
	if f.answer != nil {
		return model.Answer{Text: f.answer(q)}, nil
	}
	return model.Answer{Text: "answer to " + q}, nil
}

func (f *fakeBackend) remoteCalls() int {
	return len(f.uploads) + len(f.asks)
}

var fixedNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func newController(backend *fakeBackend, opts ...Option) *Controller {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(backend, backend, opts...)
}

func notes() *model.Document {
	return model.NewDocument("notes.txt", []byte("Project X notes."), "text/plain; charset=utf-8")
}

// =============================================================================
// INITIAL STATE
// =============================================================================

func TestNew_InitialState(t *testing.T) {
	c := newController(&fakeBackend{})
	s := c.Snapshot()

	assert.NotEmpty(t, s.SessionID)
	assert.Equal(t, fixedNow, s.StartedAt)
	assert.Equal(t, model.ModeDocument, s.Mode)
	assert.Empty(t, s.History)
	assert.Nil(t, s.LastExchange)
	assert.True(t, s.UploadStatus.IsIdle())
	assert.True(t, s.ChatStatus.IsIdle())
	assert.Empty(t, s.ErrorMessage)
	assert.Empty(t, s.PendingFileName)
	assert.Empty(t, s.PendingQuestion)
	assert.Equal(t, DefaultCapabilities(), s.Capabilities)
}

// =============================================================================
// NO REMOTE CALL ON INVALID INPUT
// =============================================================================

func TestInvalidInputNeverCallsRemote(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend)

	_, err := c.SubmitUpload(nil)
	assert.ErrorIs(t, err, orchestrator.ErrNoFile)
	assert.Equal(t, "no file selected", c.Snapshot().ErrorMessage)

	_, err = c.SubmitPendingUpload()
	assert.ErrorIs(t, err, orchestrator.ErrNoFile)

	for _, q := range []string{"", " ", "\t\n"} {
		_, err := c.SubmitQuestion(q)
		assert.ErrorIs(t, err, orchestrator.ErrEmptyQuestion)
		assert.Equal(t, "empty question", c.Snapshot().ErrorMessage)
	}

	_, err = c.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, orchestrator.ErrEmptyQuestion)

	assert.Zero(t, backend.remoteCalls())
	s := c.Snapshot()
	assert.True(t, s.UploadStatus.IsIdle())
	assert.True(t, s.ChatStatus.IsIdle())
}

func TestUploadPolicyRejectionNeverCallsRemote(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend)

	err := c.Upload(context.Background(), model.NewDocument("slides.pdf", []byte("%PDF"), "application/pdf"))

	assert.ErrorIs(t, err, orchestrator.ErrUnsupportedType)
	assert.Equal(t, "unsupported file type: .pdf", c.Snapshot().ErrorMessage)
	assert.Empty(t, backend.uploads)
}

// =============================================================================
// ORDERING AND MODE CAPTURE
// =============================================================================

func TestHistoryMatchesSuccessesInOrder(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend)

	modes := []model.Mode{model.ModeDocument, model.ModeWeb, model.ModeGeneral, model.ModeWeb}
	for i, m := range modes {
		require.NoError(t, c.SetMode(m))
		_, err := c.Ask(context.Background(), fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}

	history := c.Snapshot().History
	require.Len(t, history, len(modes))
	for i, item := range history {
		assert.Equal(t, fmt.Sprintf("question %d", i), item.Question)
		assert.Equal(t, fmt.Sprintf("answer to question %d", i), item.Answer)
		assert.Equal(t, modes[i], item.Mode)
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, fixedNow, item.AnsweredAt)
	}
}

func TestScenario_ModeIsolation(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend)

	require.NoError(t, c.SetMode(model.ModeWeb))
	task, err := c.SubmitQuestion("latest news on X?")
	require.NoError(t, err)

	require.NoError(t, c.SetMode(model.ModeGeneral))
	assert.Equal(t, model.ModeGeneral, c.Snapshot().Mode)

	item, err := c.ApplyChat(task.Run(context.Background()))
	require.NoError(t, err)

	assert.Equal(t, model.ModeWeb, item.Mode)
	assert.Equal(t, model.ModeWeb, c.Snapshot().History[0].Mode)
	assert.Equal(t, []askCall{{"latest news on X?", model.ModeWeb}}, backend.asks)
}

func TestPastEntriesUnaffectedByModeChange(t *testing.T) {
	c := newController(&fakeBackend{})

	_, err := c.Ask(context.Background(), "first")
	require.NoError(t, err)
	require.NoError(t, c.SetMode(model.ModeGeneral))

	assert.Equal(t, model.ModeDocument, c.Snapshot().History[0].Mode)
}

// =============================================================================
// RE-ENTRANCY
// =============================================================================

func TestReentrantQuestionRejected(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend)

	task, err := c.SubmitQuestion("first")
	require.NoError(t, err)

	_, err = c.SubmitQuestion("second")
	assert.ErrorIs(t, err, orchestrator.ErrChatInFlight)
	assert.Equal(t, "question already in progress", c.Snapshot().ErrorMessage)
	assert.Empty(t, c.Snapshot().History)
	assert.Empty(t, backend.asks, "no second remote call")
	assert.True(t, c.Snapshot().ChatStatus.IsInFlight())

	_, err = c.ApplyChat(task.Run(context.Background()))
	require.NoError(t, err)
	assert.Len(t, backend.asks, 1)
	assert.Len(t, c.Snapshot().History, 1)
}

func TestReentrantUploadRejected(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend)

	_, err := c.SubmitUpload(notes())
	require.NoError(t, err)

	_, err = c.SubmitPendingUpload()
	assert.ErrorIs(t, err, orchestrator.ErrUploadInFlight)
	assert.Equal(t, "upload already in progress", c.Snapshot().ErrorMessage)
	assert.Empty(t, backend.uploads)
}

func TestUploadAndChatMayOverlap(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend)

	up, err := c.SubmitUpload(notes())
	require.NoError(t, err)
	chat, err := c.SubmitQuestion("hello")
	require.NoError(t, err)

	assert.True(t, c.Snapshot().Busy())
	require.NoError(t, c.ApplyUpload(up.Run(context.Background())))
	_, err = c.ApplyChat(chat.Run(context.Background()))
	require.NoError(t, err)
	assert.False(t, c.Snapshot().Busy())
}

// =============================================================================
// FAILURE AND RETRY
// =============================================================================

func TestFailedQuestionIsPreservedAndRetriedIdentically(t *testing.T) {
	backend := &fakeBackend{askErr: &ragapi.RemoteError{Op: ragapi.OpChat, Kind: ragapi.KindTransport, Message: ragapi.MsgChatError}}
	c := newController(backend)
	require.NoError(t, c.SetMode(model.ModeWeb))

	_, err := c.Ask(context.Background(), "What is X?")
	require.Error(t, err)

	s := c.Snapshot()
	assert.Equal(t, "What is X?", s.PendingQuestion)
	assert.Equal(t, model.Failed("Chat error."), s.ChatStatus)
	assert.Equal(t, "Chat error.", s.ErrorMessage)

	backend.askErr = nil
	task, err := c.SubmitPendingQuestion()
	require.NoError(t, err)
	assert.Empty(t, c.Snapshot().ErrorMessage, "dispatch clears the error slot")

	_, err = c.ApplyChat(task.Run(context.Background()))
	require.NoError(t, err)

	require.Len(t, backend.asks, 2)
	assert.Equal(t, backend.asks[0], backend.asks[1])
}

func TestScenario_ChatFailure(t *testing.T) {
	backend := &fakeBackend{askErr: &ragapi.RemoteError{
		Op: ragapi.OpChat, Kind: ragapi.KindStatus, StatusCode: 400, Message: "index is empty",
	}}
	c := newController(backend)

	_, err := c.Ask(context.Background(), "Summarize the doc")
	require.Error(t, err)

	s := c.Snapshot()
	assert.Equal(t, "index is empty", s.ErrorMessage)
	assert.Equal(t, "Summarize the doc", s.PendingQuestion)
	assert.Empty(t, s.History)
	assert.Nil(t, s.LastExchange)
}

func TestFailedUploadKeepsPendingFile(t *testing.T) {
	backend := &fakeBackend{uploadErr: &ragapi.RemoteError{Op: ragapi.OpUpload, Kind: ragapi.KindStatus, Message: ragapi.MsgUploadFailed}}
	c := newController(backend)

	err := c.Upload(context.Background(), notes())
	require.Error(t, err)

	s := c.Snapshot()
	assert.Equal(t, "notes.txt", s.PendingFileName)
	assert.Equal(t, "Upload failed.", s.ErrorMessage)
	assert.Equal(t, model.Failed("Upload failed."), s.UploadStatus)
	assert.Empty(t, s.Notice)

	backend.uploadErr = nil
	task, err := c.SubmitPendingUpload()
	require.NoError(t, err)
	require.NoError(t, c.ApplyUpload(task.Run(context.Background())))
	assert.Equal(t, backend.uploads[0], backend.uploads[1])
}

// =============================================================================
// SUCCESS SCENARIOS
// =============================================================================

func TestScenario_UploadSuccess(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend)

	// A previous error is cleared by a successful upload.
	_, _ = c.SubmitQuestion("")
	require.NotEmpty(t, c.Snapshot().ErrorMessage)

	c.SelectFile(notes())
	assert.Equal(t, "notes.txt", c.Snapshot().PendingFileName)

	task, err := c.SubmitPendingUpload()
	require.NoError(t, err)
	assert.True(t, c.Snapshot().UploadStatus.IsInFlight())
	assert.NotEmpty(t, c.Snapshot().ErrorMessage, "upload dispatch keeps the error")

	require.NoError(t, c.ApplyUpload(task.Run(context.Background())))

	s := c.Snapshot()
	assert.True(t, s.UploadStatus.IsIdle())
	assert.Empty(t, s.History)
	assert.Empty(t, s.ErrorMessage)
	assert.Equal(t, NoticeIndexed, s.Notice)
	assert.Empty(t, s.PendingFileName)
	require.Len(t, backend.uploads, 1)
	assert.Equal(t, "Project X notes.", string(backend.uploads[0].Content))

	c.DismissNotice()
	assert.Empty(t, c.Snapshot().Notice)
}

func TestUploadSuccessKeepsFilePickedMeanwhile(t *testing.T) {
	c := newController(&fakeBackend{})

	task, err := c.SubmitUpload(notes())
	require.NoError(t, err)
	c.SelectFile(model.NewDocument("next.txt", []byte("more"), "text/plain"))

	require.NoError(t, c.ApplyUpload(task.Run(context.Background())))
	assert.Equal(t, "next.txt", c.Snapshot().PendingFileName)
}

func TestScenario_ChatSuccess(t *testing.T) {
	backend := &fakeBackend{answer: func(string) string { return "It is about X." }}
	c := newController(backend)

	c.SetPendingQuestion("Summarize the doc")
	task, err := c.SubmitPendingQuestion()
	require.NoError(t, err)
	assert.True(t, c.Snapshot().ChatStatus.IsInFlight())

	item, err := c.ApplyChat(task.Run(context.Background()))
	require.NoError(t, err)

	s := c.Snapshot()
	require.Len(t, s.History, 1)
	assert.Equal(t, "Summarize the doc", s.History[0].Question)
	assert.Equal(t, "It is about X.", s.History[0].Answer)
	assert.Equal(t, model.ModeDocument, s.History[0].Mode)
	assert.Equal(t, item, *s.LastExchange)
	assert.Empty(t, s.PendingQuestion)
	assert.Empty(t, s.ErrorMessage)
	assert.True(t, s.ChatStatus.IsIdle())
}

func TestEditsDuringFlightAreKept(t *testing.T) {
	c := newController(&fakeBackend{})

	task, err := c.SubmitQuestion("first")
	require.NoError(t, err)
	c.SetPendingQuestion("follow-up draft")

	_, err = c.ApplyChat(task.Run(context.Background()))
	require.NoError(t, err)
	assert.Equal(t, "follow-up draft", c.Snapshot().PendingQuestion)
}

func TestSubmitClearsNotice(t *testing.T) {
	c := newController(&fakeBackend{})
	require.NoError(t, c.Upload(context.Background(), notes()))
	require.Equal(t, NoticeIndexed, c.Snapshot().Notice)

	_, err := c.SubmitQuestion("next")
	require.NoError(t, err)
	assert.Empty(t, c.Snapshot().Notice)
}

// =============================================================================
// STALE RESULTS
// =============================================================================

func TestStaleResultsIgnored(t *testing.T) {
	c := newController(&fakeBackend{})

	_, err := c.ApplyChat(ChatResult{Seq: 7, Question: "ghost"})
	assert.ErrorIs(t, err, orchestrator.ErrStaleResult)
	assert.ErrorIs(t, c.ApplyUpload(UploadResult{Seq: 7}), orchestrator.ErrStaleResult)

	s := c.Snapshot()
	assert.Empty(t, s.History)
	assert.True(t, s.ChatStatus.IsIdle())
	assert.Empty(t, s.ErrorMessage)
}

// =============================================================================
// CAPABILITIES
// =============================================================================

func TestWithoutModeSupport(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend, WithCapabilities(Capabilities{SupportsMode: false, KeepsHistory: true}))

	assert.ErrorIs(t, c.SetMode(model.ModeWeb), ErrModeUnsupported)

	item, err := c.Ask(context.Background(), "q")
	require.NoError(t, err)

	assert.Equal(t, model.ModeUnset, backend.asks[0].Mode, "no mode sent")
	assert.Equal(t, model.ModeDocument, item.Mode, "backend default recorded")
}

func TestWithoutHistory(t *testing.T) {
	c := newController(&fakeBackend{}, WithCapabilities(Capabilities{SupportsMode: true, KeepsHistory: false}))

	_, err := c.Ask(context.Background(), "one")
	require.NoError(t, err)
	_, err = c.Ask(context.Background(), "two")
	require.NoError(t, err)

	s := c.Snapshot()
	assert.Empty(t, s.History)
	require.NotNil(t, s.LastExchange)
	assert.Equal(t, "two", s.LastExchange.Question)
	assert.NotEmpty(t, s.LastExchange.ID)
	require.Len(t, s.Exchanges(), 1)
}

func TestSetModeRejectsInvalid(t *testing.T) {
	c := newController(&fakeBackend{})
	assert.Error(t, c.SetMode(model.Mode("doc")))
	assert.Equal(t, model.ModeDocument, c.Mode())
}

func TestWithUploadPolicy(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend, WithUploadPolicy(orchestrator.UploadPolicy{}))

	require.NoError(t, c.Upload(context.Background(), model.NewDocument("data.csv", []byte("a,b"), "text/csv")))
	assert.Len(t, backend.uploads, 1)
}

// =============================================================================
// SNAPSHOT ISOLATION
// =============================================================================

func TestSnapshotIsACopy(t *testing.T) {
	c := newController(&fakeBackend{})
	_, err := c.Ask(context.Background(), "q")
	require.NoError(t, err)

	s := c.Snapshot()
	s.History[0].Answer = "tampered"
	s.LastExchange.Answer = "tampered"

	fresh := c.Snapshot()
	assert.Equal(t, "answer to q", fresh.History[0].Answer)
	assert.Equal(t, "answer to q", fresh.LastExchange.Answer)
}

func TestSelectFileCopiesDocument(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(backend)

	doc := notes()
	c.SelectFile(doc)
	doc.Name = "renamed.txt"

	assert.Equal(t, "notes.txt", c.PendingFile().Name)
}
