// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes the in-memory conversation to a file.
//
// Export is user-initiated. Nothing is read back; sessions are not resumed
// from an export.
//
// # Key Types
//
//   - Transcript: the exchanges of one session plus its identity
//   - Exporter: converts a Transcript to bytes (Markdown, JSON)
//   - Options: metadata and mode labels on or off, output directory
//
// # Usage
//
//	t := export.FromSnapshot(ctl.Snapshot())
//	path, err := export.ExportToFile(t, export.NewMarkdownExporter(nil), nil)
package export
