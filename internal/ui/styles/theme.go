// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/ragplay-tui/internal/model"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderInfo  lipgloss.Style

	// ==========================================================================
	// CONVERSATION STYLES
	// ==========================================================================

	QuestionLabel lipgloss.Style
	Question      lipgloss.Style
	AnswerLabel   lipgloss.Style
	Answer        lipgloss.Style
	Separator     lipgloss.Style
	EmptyState    lipgloss.Style

	// ==========================================================================
	// FOOTER STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	FileLabel      lipgloss.Style
	FileName       lipgloss.Style
	StatusBar      lipgloss.Style
	ShortcutKey    lipgloss.Style
	ShortcutDesc   lipgloss.Style
	Spinner        lipgloss.Style

	// ==========================================================================
	// FEEDBACK STYLES
	// ==========================================================================

	ErrorBox lipgloss.Style
	Notice   lipgloss.Style
	Muted    lipgloss.Style
}

// NewTheme creates a theme. name is "dark", "light" or "auto"; anything
// else behaves like "auto".
func NewTheme(name string) *Theme {
	var isDark bool
	switch strings.ToLower(name) {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.HeaderInfo = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.QuestionLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.Question = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.AnswerLabel = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.Answer = lipgloss.NewStyle().
		Foreground(TextPrimary).
		PaddingLeft(2)

	t.Separator = lipgloss.NewStyle().
		Foreground(Overlay)

	t.EmptyState = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Padding(1, 2)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.FileLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FileName = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.ErrorBox = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Rose).
		PaddingLeft(1)

	t.Notice = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.Muted = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// ModeBadge renders the mode label on its mode color.
func (t *Theme) ModeBadge(m model.Mode) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(ModeColor(m)).
		Padding(0, 1).
		Render(m.Label())
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
