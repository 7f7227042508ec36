// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"time"

	"github.com/jeranaias/ragplay-tui/internal/model"
)

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	SessionID string
	StartedAt time.Time

	Mode            model.Mode
	PendingFileName string
	PendingQuestion string

	// History is the full log when KeepsHistory is set, otherwise empty.
	History []model.HistoryItem
	// LastExchange is the most recent answered item, if any.
	LastExchange *model.HistoryItem

	UploadStatus model.OperationStatus
	ChatStatus   model.OperationStatus

	ErrorMessage string
	Notice       string

	Capabilities Capabilities
}

// Busy reports whether either operation is in flight.
func (s Snapshot) Busy() bool {
	return s.UploadStatus.IsInFlight() || s.ChatStatus.IsInFlight()
}

// Exchanges returns what a renderer should list: the history, or just the
// last exchange when history is off.
func (s Snapshot) Exchanges() []model.HistoryItem {
	if s.Capabilities.KeepsHistory {
		return s.History
	}
	if s.LastExchange != nil {
		return []model.HistoryItem{*s.LastExchange}
	}
	return nil
}
