// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across ragplay.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth: truncation by terminal display width
//   - SingleLine: collapse newlines for one-line previews
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - ExpandHome: resolve a leading ~ to the user's home directory
//
// # Usage
//
//	preview := util.TruncateWidth(util.SingleLine(question), 40)
//	err := util.AtomicWriteFile(path, data, 0644)
package util
