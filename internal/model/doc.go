// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the session layer,
// the remote client and the presentation layer.
//
// # Key Types
//
//   - Mode: retrieval strategy selector (document, web, general)
//   - Document: a locally selected file waiting to be indexed
//   - Answer: the text returned by the chat endpoint
//   - HistoryItem: one resolved question/answer exchange plus its mode
//   - OperationStatus: idle, in-flight or failed(message)
//
// # Usage
//
//	mode, err := model.ParseMode("web")
//	item := model.HistoryItem{Question: "Summarize", Answer: "It is about X.", Mode: mode}
//	status := model.Failed("index is empty")
package model
