// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package document turns local files into uploadable documents and watches
// the selected file for edits.
package document
