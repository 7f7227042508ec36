// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragplay-tui/internal/session"
	"github.com/jeranaias/ragplay-tui/internal/ui/styles"
	"github.com/jeranaias/ragplay-tui/internal/util"
)

const appTitle = "RAG Agent Playground"

// View renders the model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	snap := m.ctl.Snapshot()

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(snap),
		m.viewport.View(),
		m.renderFeedback(snap),
		m.renderFileLine(snap),
		m.renderInput(snap),
		m.renderStatusBar(snap),
	)
}

// =============================================================================
// SECTIONS
// =============================================================================

func (m Model) renderHeader(snap session.Snapshot) string {
	left := m.theme.HeaderTitle.Render(appTitle)
	if snap.Capabilities.SupportsMode {
		left += " " + m.theme.ModeBadge(snap.Mode)
	}

	right := ""
	if m.theme.GetLayoutMode() != styles.LayoutNarrow {
		right = m.theme.HeaderInfo.Render(fmt.Sprintf("%d answered", len(snap.Exchanges())))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderConversation lists the exchanges in order, oldest first.
func (m Model) renderConversation() string {
	snap := m.ctl.Snapshot()
	items := snap.Exchanges()
	if len(items) == 0 {
		hint := "Choose a .txt file with ctrl+o, upload it with ctrl+u, then ask a question."
		if !snap.Capabilities.SupportsMode {
			hint = "Choose a file with ctrl+o, upload it with ctrl+u, then ask a question."
		}
		return m.theme.EmptyState.Render(hint)
	}

	width := max(m.viewport.Width-2, 10)
	var sb strings.Builder
	for i, item := range items {
		label := "Q:"
		if snap.Capabilities.SupportsMode {
			label = fmt.Sprintf("Q (%s):", item.Mode.Label())
		}
		sb.WriteString(m.theme.QuestionLabel.Render(label))
		sb.WriteString(" ")
		sb.WriteString(m.theme.Question.Width(width - lipgloss.Width(label) - 1).Render(item.Question))
		sb.WriteString("\n")
		sb.WriteString(m.theme.AnswerLabel.Render("A:"))
		sb.WriteString("\n")
		sb.WriteString(m.renderAnswer(item.Answer))
		sb.WriteString("\n")
		if i < len(items)-1 {
			sb.WriteString(m.theme.Separator.Render(strings.Repeat("─", width)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderFeedback shows, in priority order, the error slot, the notice, or
// the local status line.
func (m Model) renderFeedback(snap session.Snapshot) string {
	width := max(m.width-4, 10)
	switch {
	case snap.ErrorMessage != "":
		return m.theme.ErrorBox.Render(util.TruncateWidth(styles.StatusIndicators.Error+" "+snap.ErrorMessage, width))
	case snap.Notice != "":
		return m.theme.Notice.Render(util.TruncateWidth(styles.StatusIndicators.Success+" "+snap.Notice, width))
	case m.statusMsg != "":
		return m.theme.Muted.Render(util.TruncateWidth(m.statusMsg, width))
	}
	return ""
}

func (m Model) renderFileLine(snap session.Snapshot) string {
	if m.focus == focusFilePath {
		return m.fileInput.View()
	}

	name := snap.PendingFileName
	if name == "" {
		name = "no file selected"
	}
	line := m.theme.FileLabel.Render("File: ") +
		m.theme.FileName.Render(util.TruncateWidth(name, max(m.width/2, 10)))

	if snap.UploadStatus.IsInFlight() {
		line += "  " + m.spinner.View() + m.theme.Muted.Render(" Indexing...")
	}
	return line
}

func (m Model) renderInput(snap session.Snapshot) string {
	content := m.input.View()
	if snap.ChatStatus.IsInFlight() {
		content = m.spinner.View() + m.theme.Muted.Render(" Thinking...") + "  " + m.theme.Muted.Render(util.TruncateWidth(m.input.Value(), max(m.width-24, 10)))
	}
	return m.theme.InputContainer.Width(max(m.width-2, 10)).Render(content)
}

func (m Model) renderStatusBar(snap session.Snapshot) string {
	m.statusBar.Update(snap)
	m.statusBar.SetWidth(m.width)
	return m.statusBar.View()
}
