// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for ragplay.
//
// All colors are Lip Gloss AdaptiveColors so they follow the terminal
// background. A Theme bundles the styles the TUI renders with; NewTheme
// accepts "dark", "light" or "auto".
//
// Status helpers (RenderSuccess, RenderError, ...) prefix messages with
// ASCII indicators so states do not rely on color alone.
package styles
