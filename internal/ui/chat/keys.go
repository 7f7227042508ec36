// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the playground.
type KeyMap struct {
	Submit    key.Binding
	CycleMode key.Binding
	OpenFile  key.Binding
	Upload    key.Binding
	Copy      key.Binding
	Export    key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Dismiss   key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "ask"),
		),
		CycleMode: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "mode"),
		),
		OpenFile: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "choose file"),
		),
		Upload: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("C-u", "upload"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy answer"),
		),
		Export: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "export"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "dismiss"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.CycleMode, k.OpenFile, k.Upload, k.Copy, k.Export, k.Quit}
}

// FullHelp returns every binding, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.CycleMode},
		{k.OpenFile, k.Upload},
		{k.Copy, k.Export},
		{k.PageUp, k.PageDown, k.Dismiss, k.Quit},
	}
}
