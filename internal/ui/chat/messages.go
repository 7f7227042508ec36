// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ragplay-tui/internal/document"
	"github.com/jeranaias/ragplay-tui/internal/export"
	"github.com/jeranaias/ragplay-tui/internal/session"
)

// =============================================================================
// MESSAGES
// =============================================================================

// UploadDoneMsg carries the result of an upload task.
type UploadDoneMsg struct {
	Result session.UploadResult
}

// ChatDoneMsg carries the result of a chat task.
type ChatDoneMsg struct {
	Result session.ChatResult
}

// FileChangedMsg reports an edit to the selected file.
type FileChangedMsg struct {
	Change document.Change
}

// ExportDoneMsg reports a finished transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// CopyDoneMsg reports a finished clipboard write.
type CopyDoneMsg struct {
	Err error
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// runUpload performs the remote part of an upload off the update loop.
func runUpload(ctx context.Context, task *session.UploadTask) tea.Cmd {
	return func() tea.Msg {
		return UploadDoneMsg{Result: task.Run(ctx)}
	}
}

// runChat performs the remote part of a question off the update loop.
func runChat(ctx context.Context, task *session.ChatTask) tea.Cmd {
	return func() tea.Msg {
		return ChatDoneMsg{Result: task.Run(ctx)}
	}
}

// waitForChange blocks until the watcher reports a change.
func waitForChange(changes <-chan document.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-changes
		if !ok {
			return nil
		}
		return FileChangedMsg{Change: c}
	}
}

// exportTranscript writes t as Markdown into dir.
func exportTranscript(t *export.Transcript, dir string) tea.Cmd {
	return func() tea.Msg {
		opts := export.DefaultOptions()
		if dir != "" {
			opts.OutputDir = dir
		}
		path, err := export.ExportToFile(t, export.NewMarkdownExporter(opts), opts)
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// copyToClipboard copies text to the system clipboard.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return CopyDoneMsg{Err: clipboard.WriteAll(text)}
	}
}
