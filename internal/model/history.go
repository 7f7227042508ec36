// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// HistoryItem records one resolved question/answer exchange together with
// the mode that was active when the question was dispatched.
//
// Items are values; holders receive copies and never share backing state.
type HistoryItem struct {
	ID         string    `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Mode       Mode      `json:"mode"`
	AnsweredAt time.Time `json:"answered_at"`
}
