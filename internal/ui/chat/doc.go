// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive TUI for ragplay.
//
// The Model renders a session.Snapshot and turns key presses into
// controller commands. Remote calls run as tea.Cmds; their results return
// as UploadDoneMsg and ChatDoneMsg and are applied inside Update, so every
// state change happens on Bubble Tea's single update loop.
//
// # Key Types
//
//   - Model: Bubble Tea model for the playground screen
//   - Config: dependencies and presentation options for New
//   - KeyMap: keyboard bindings
//
// # Usage
//
//	m := chat.New(chat.Config{Controller: ctl, Theme: styles.NewTheme("auto")})
//	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
//	if fm, ok := final.(chat.Model); ok {
//	    fm.Close()
//	}
package chat
