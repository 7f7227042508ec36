// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package orchestrator drives the two remote operations of a session.
//
// Each orchestrator owns a tri-state status (idle, in_flight, failed) and a
// single-flight guard. Work is split into three steps so that all state
// changes happen on the caller's event loop:
//
//	call, err := up.Begin(doc)     // validate, guard, mark in_flight
//	res := call.Run(ctx)           // remote call only, touches no state
//	err = up.Complete(res)         // back to idle or failed(message)
//
// Begin never contacts the backend when it returns an error. Complete
// rejects results that do not belong to the outstanding call.
package orchestrator
