// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the session controller.
//
// A Controller owns everything a user session has: the current mode, the
// file selected for upload, the question being typed, the conversation
// history, both operation statuses, one shared error message and the upload
// confirmation notice. It is the only writer of that state. Renderers read
// it through Snapshot.
//
// Remote calls are split so an event loop can stay responsive:
//
//	task, err := ctl.SubmitQuestion(text) // synchronous; may be rejected
//	res := task.Run(ctx)                  // remote call, safe off the loop
//	item, err := ctl.ApplyChat(res)       // back on the loop
//
// Non-interactive callers use Upload and Ask, which do all three steps.
//
// The controller is not safe for concurrent use.
package session
