// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ragplay-tui/internal/model"
	"github.com/jeranaias/ragplay-tui/internal/session"
	"github.com/jeranaias/ragplay-tui/internal/ui/styles"
	"github.com/jeranaias/ragplay-tui/internal/util"
)

// =============================================================================
// STATUS
// =============================================================================

// Status summarizes what the session is doing.
type Status int

const (
	StatusReady Status = iota
	StatusIndexing
	StatusThinking
	StatusError
)

// String returns the display string for the status
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusIndexing:
		return "Indexing..."
	case StatusThinking:
		return "Thinking..."
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Icon returns a shape for the status so it reads without color.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusIndexing, StatusThinking:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	default:
		return "?"
	}
}

// StatusFromSnapshot derives the bar status. A question in flight wins over
// an upload in flight; both win over a failure.
func StatusFromSnapshot(snap session.Snapshot) Status {
	switch {
	case snap.ChatStatus.IsInFlight():
		return StatusThinking
	case snap.UploadStatus.IsInFlight():
		return StatusIndexing
	case snap.ErrorMessage != "":
		return StatusError
	default:
		return StatusReady
	}
}

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar is the bottom line of the playground.
type StatusBar struct {
	Mode         model.Mode
	ShowMode     bool
	Answered     int
	Backend      string // host shown on wide terminals
	Status       Status
	Width        int
	Shortcuts    []key.Binding
	ShowShortcut bool
}

// NewStatusBar creates a status bar with shortcuts enabled.
func NewStatusBar(shortcuts []key.Binding) *StatusBar {
	return &StatusBar{
		Mode:         model.ModeDocument,
		ShowMode:     true,
		Status:       StatusReady,
		Width:        80,
		Shortcuts:    shortcuts,
		ShowShortcut: true,
	}
}

// Update copies the session fields the bar displays.
func (s *StatusBar) Update(snap session.Snapshot) {
	s.Mode = snap.Mode
	s.ShowMode = snap.Capabilities.SupportsMode
	s.Answered = len(snap.Exchanges())
	s.Status = StatusFromSnapshot(snap)
}

// SetWidth updates the status bar width
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow: [D] [OK] ctrl+c quit
func (s *StatusBar) viewNarrow() string {
	parts := []string{}
	if s.ShowMode {
		first := []rune(s.Mode.Effective().Label())[0]
		parts = append(parts, s.modeStyle().Render("["+string(first)+"]"))
	}
	parts = append(parts, s.statusStyle().Render(s.Status.Icon()))
	parts = append(parts, s.renderShortcuts(2))

	return s.frame().Render(strings.Join(parts, " "))
}

// viewMedium: Document RAG | 3 answered | Ready | shortcuts
func (s *StatusBar) viewMedium() string {
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	parts := []string{}
	if s.ShowMode {
		parts = append(parts, s.modeStyle().Render(s.Mode.Effective().Label()))
	}
	parts = append(parts,
		lipgloss.NewStyle().Foreground(styles.TextMuted).Render(fmt.Sprintf("%d answered", s.Answered)),
		s.statusStyle().Render(s.Status.String()),
	)
	if s.ShowShortcut {
		parts = append(parts, s.renderShortcuts(4))
	}

	return s.frame().Padding(0, 1).Render(strings.Join(parts, sep))
}

// viewWide puts session info on the left and shortcuts on the right.
func (s *StatusBar) viewWide() string {
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	left := []string{s.statusStyle().Render(s.Status.Icon() + " " + s.Status.String())}
	if s.ShowMode {
		left = append(left, s.modeStyle().Render(s.Mode.Effective().Label()))
	}
	left = append(left, lipgloss.NewStyle().Foreground(styles.TextMuted).Render(fmt.Sprintf("%d answered", s.Answered)))
	if s.Backend != "" {
		left = append(left, lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(util.TruncateWidth(s.Backend, 30)))
	}
	leftSection := strings.Join(left, sep)

	rightSection := ""
	if s.ShowShortcut {
		rightSection = s.renderShortcuts(len(s.Shortcuts))
	}

	gap := s.Width - lipgloss.Width(leftSection) - lipgloss.Width(rightSection) - 2
	if gap < 1 {
		gap = 1
	}
	return s.frame().Padding(0, 1).Render(leftSection + strings.Repeat(" ", gap) + rightSection)
}

// renderShortcuts shows at most n enabled bindings. The mode binding is
// hidden when modes are unsupported.
func (s *StatusBar) renderShortcuts(n int) string {
	keyStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	parts := make([]string, 0, n)
	for _, b := range s.Shortcuts {
		if len(parts) == n {
			break
		}
		if !b.Enabled() || (!s.ShowMode && b.Help().Desc == "mode") {
			continue
		}
		parts = append(parts, keyStyle.Render(b.Help().Key)+" "+descStyle.Render(b.Help().Desc))
	}
	return strings.Join(parts, "  ")
}

func (s *StatusBar) frame() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Width(s.Width)
}

func (s *StatusBar) modeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(styles.ModeColor(s.Mode.Effective())).Bold(true)
}

func (s *StatusBar) statusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast)
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.Amber)
	}
}
