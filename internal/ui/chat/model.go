// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/jeranaias/ragplay-tui/internal/document"
	"github.com/jeranaias/ragplay-tui/internal/session"
	"github.com/jeranaias/ragplay-tui/internal/ui/components"
	"github.com/jeranaias/ragplay-tui/internal/ui/styles"
)

// focus selects which text field receives key presses.
type focus int

const (
	focusQuestion focus = iota
	focusFilePath
)

// Config holds the dependencies of the playground model.
type Config struct {
	// Controller owns all session state. Required.
	Controller *session.Controller

	// Theme styles the view (default: auto-detected).
	Theme *styles.Theme

	// Logger receives UI diagnostics (default: no-op).
	Logger *zap.Logger

	// RenderMarkdown renders answers with glamour.
	RenderMarkdown bool

	// ExportDir is where ctrl+e writes transcripts (default: current directory).
	ExportDir string

	// Watch reloads the selected file when it changes on disk.
	Watch bool

	// Context is passed to remote calls (default: context.Background()).
	Context context.Context

	// Backend is the base URL shown in the status bar.
	Backend string
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the playground screen.
type Model struct {
	ctl    *session.Controller
	theme  *styles.Theme
	logger *zap.Logger
	ctx    context.Context
	keys   KeyMap

	// Dimensions
	width  int
	height int
	ready  bool

	// UI Components
	viewport  viewport.Model
	input     textinput.Model
	fileInput textinput.Model
	spinner   spinner.Model
	focus     focus
	statusBar *components.StatusBar

	renderMarkdown bool
	renderer       *glamour.TermRenderer

	exportDir string
	watch     bool
	watcher   *document.Watcher

	// statusMsg is a local, transient line (copy, export, file load).
	statusMsg string
}

// New creates the playground model.
func New(cfg Config) Model {
	if cfg.Theme == nil {
		cfg.Theme = styles.NewTheme("auto")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}

	input := textinput.New()
	input.Placeholder = "Ask a question..."
	input.Prompt = "> "
	input.PromptStyle = cfg.Theme.InputPrompt
	input.CharLimit = 4000
	input.Focus()

	fileInput := textinput.New()
	fileInput.Placeholder = "path/to/notes.txt"
	fileInput.Prompt = "file: "
	fileInput.PromptStyle = cfg.Theme.InputPrompt

	keys := DefaultKeyMap()
	bar := components.NewStatusBar(keys.ShortHelp())
	bar.Backend = strings.TrimPrefix(strings.TrimPrefix(cfg.Backend, "https://"), "http://")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Theme.Spinner

	return Model{
		ctl:            cfg.Controller,
		theme:          cfg.Theme,
		logger:         cfg.Logger.Named("tui"),
		ctx:            cfg.Context,
		keys:           keys,
		viewport:       viewport.New(80, 20),
		input:          input,
		fileInput:      fileInput,
		spinner:        sp,
		statusBar:      bar,
		renderMarkdown: cfg.RenderMarkdown,
		exportDir:      cfg.ExportDir,
		watch:          cfg.Watch,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Close releases the file watcher, if any.
func (m Model) Close() {
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.logger.Debug("closing watcher", zap.Error(err))
		}
	}
}

// Snapshot exposes the controller state for callers and tests.
func (m Model) Snapshot() session.Snapshot {
	return m.ctl.Snapshot()
}

// =============================================================================
// RENDERING HELPERS
// =============================================================================

// newRenderer builds a glamour renderer wrapping at width.
func (m Model) newRenderer(width int) *glamour.TermRenderer {
	if !m.renderMarkdown {
		return nil
	}
	style := "light"
	if m.theme.IsDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.logger.Warn("markdown renderer unavailable", zap.Error(err))
		return nil
	}
	return r
}

// renderAnswer renders an answer with glamour when enabled.
func (m Model) renderAnswer(text string) string {
	if m.renderer != nil {
		if out, err := m.renderer.Render(text); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return m.theme.Answer.Width(max(m.viewport.Width-2, 10)).Render(text)
}
