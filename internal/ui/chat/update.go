// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jeranaias/ragplay-tui/internal/document"
	"github.com/jeranaias/ragplay-tui/internal/export"
	"github.com/jeranaias/ragplay-tui/internal/orchestrator"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case UploadDoneMsg:
		return m.handleUploadDone(msg)

	case ChatDoneMsg:
		return m.handleChatDone(msg)

	case FileChangedMsg:
		return m.handleFileChanged(msg)

	case ExportDoneMsg:
		if msg.Err != nil {
			m.statusMsg = "Export failed: " + msg.Err.Error()
		} else {
			m.statusMsg = "Exported to " + msg.Path
		}
		return m.refresh(), nil

	case CopyDoneMsg:
		if msg.Err != nil {
			m.statusMsg = "Clipboard unavailable: " + msg.Err.Error()
		} else {
			m.statusMsg = "Answer copied to clipboard"
		}
		return m.refresh(), nil

	case spinner.TickMsg:
		if !m.ctl.Snapshot().Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(m.width, m.height)

	// Layout: header + viewport + feedback line + file line + input box + status bar
	const (
		headerHeight   = 1
		feedbackHeight = 1
		fileHeight     = 1
		inputHeight    = 3
		statusHeight   = 1
	)
	vpHeight := m.height - headerHeight - feedbackHeight - fileHeight - inputHeight - statusHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = max(m.width, 1)
	m.viewport.Height = vpHeight

	m.input.Width = max(m.width-8, 10)
	m.fileInput.Width = max(m.width-12, 10)
	m.renderer = m.newRenderer(max(m.width-4, 20))
	m.ready = true

	return m.refresh(), nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.Close()
		m.watcher = nil
		return m, tea.Quit
	}

	if m.focus == focusFilePath {
		return m.handleFileInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitQuestion()

	case key.Matches(msg, m.keys.CycleMode):
		if m.ctl.Capabilities().SupportsMode {
			if err := m.ctl.SetMode(m.ctl.Mode().Next()); err != nil {
				m.statusMsg = err.Error()
			}
		}
		return m.refresh(), nil

	case key.Matches(msg, m.keys.OpenFile):
		m.focus = focusFilePath
		m.input.Blur()
		m.fileInput.SetValue("")
		if doc := m.ctl.PendingFile(); doc != nil && doc.Path != "" {
			m.fileInput.SetValue(doc.Path)
			m.fileInput.CursorEnd()
		}
		return m, m.fileInput.Focus()

	case key.Matches(msg, m.keys.Upload):
		return m.submitUpload()

	case key.Matches(msg, m.keys.Copy):
		last := m.ctl.Snapshot().LastExchange
		if last == nil {
			m.statusMsg = "Nothing to copy yet"
			return m.refresh(), nil
		}
		return m, copyToClipboard(last.Answer)

	case key.Matches(msg, m.keys.Export):
		t := export.FromSnapshot(m.ctl.Snapshot())
		if len(t.Items) == 0 {
			m.statusMsg = "Nothing to export yet"
			return m.refresh(), nil
		}
		return m, exportTranscript(t, m.exportDir)

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.ctl.DismissNotice()
		m.statusMsg = ""
		return m.refresh(), nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.ctl.SetPendingQuestion(m.input.Value())
	return m, cmd
}

// handleFileInputKey edits the file path field. Enter loads the file.
func (m Model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Dismiss):
		return m.focusQuestion(), nil

	case key.Matches(msg, m.keys.Submit):
		path := strings.TrimSpace(m.fileInput.Value())
		if path == "" {
			return m.focusQuestion(), nil
		}
		next, cmd := m.selectFile(path)
		return next.focusQuestion(), cmd
	}

	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)
	return m, cmd
}

func (m Model) focusQuestion() Model {
	m.focus = focusQuestion
	m.fileInput.Blur()
	m.input.Focus()
	return m.refresh()
}

// selectFile loads path into the pending upload and starts watching it.
func (m Model) selectFile(path string) (Model, tea.Cmd) {
	doc, err := document.Load(path)
	if err != nil {
		m.statusMsg = err.Error()
		return m, nil
	}
	m.ctl.SelectFile(doc)
	m.statusMsg = fmt.Sprintf("Selected %s (%d bytes)", doc.Name, doc.Size())

	if !m.watch {
		return m, nil
	}
	if m.watcher != nil && m.watcher.Path() == doc.Path {
		return m, nil
	}
	m.Close()
	m.watcher = nil

	w, err := document.NewWatcher(doc.Path, document.DefaultDebounce, m.logger)
	if err != nil {
		m.logger.Warn("cannot watch file", zap.String("path", doc.Path), zap.Error(err))
		return m, nil
	}
	m.watcher = w
	return m, waitForChange(w.Changes())
}

func (m Model) submitQuestion() (tea.Model, tea.Cmd) {
	m.ctl.SetPendingQuestion(m.input.Value())
	task, err := m.ctl.SubmitPendingQuestion()
	m.statusMsg = ""
	if err != nil {
		return m.refresh(), nil
	}
	m = m.refresh()
	m.viewport.GotoBottom()
	return m, tea.Batch(runChat(m.ctx, task), m.spinner.Tick)
}

func (m Model) submitUpload() (tea.Model, tea.Cmd) {
	task, err := m.ctl.SubmitPendingUpload()
	m.statusMsg = ""
	if err != nil {
		return m.refresh(), nil
	}
	return m.refresh(), tea.Batch(runUpload(m.ctx, task), m.spinner.Tick)
}

func (m Model) handleUploadDone(msg UploadDoneMsg) (tea.Model, tea.Cmd) {
	if err := m.ctl.ApplyUpload(msg.Result); errors.Is(err, orchestrator.ErrStaleResult) {
		m.logger.Warn("stale upload result", zap.Uint64("seq", msg.Result.Seq))
	}
	return m.refresh(), nil
}

func (m Model) handleChatDone(msg ChatDoneMsg) (tea.Model, tea.Cmd) {
	if _, err := m.ctl.ApplyChat(msg.Result); errors.Is(err, orchestrator.ErrStaleResult) {
		m.logger.Warn("stale chat result", zap.Uint64("seq", msg.Result.Seq))
	}

	snap := m.ctl.Snapshot()
	if m.input.Value() != snap.PendingQuestion {
		m.input.SetValue(snap.PendingQuestion)
		m.input.CursorEnd()
	}
	m = m.refresh()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleFileChanged(msg FileChangedMsg) (tea.Model, tea.Cmd) {
	var next tea.Cmd
	if m.watcher != nil && m.watcher.Path() == msg.Change.Path {
		next = waitForChange(m.watcher.Changes())
	} else {
		return m, nil
	}

	if msg.Change.Removed {
		m.statusMsg = "Selected file was removed from disk"
		return m.refresh(), next
	}

	doc, err := document.Load(msg.Change.Path)
	if err != nil {
		m.statusMsg = err.Error()
		return m.refresh(), next
	}
	m.ctl.SelectFile(doc)
	m.statusMsg = doc.Name + " changed on disk; press ctrl+u to re-index"
	return m.refresh(), next
}

// refresh re-renders the conversation into the viewport.
func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderConversation())
	if atBottom {
		m.viewport.GotoBottom()
	}
	return m
}
