// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history holds the in-memory conversation log.
//
// Store is append-only: items are kept in insertion order and there is no
// API to edit or remove them. Callers always receive copies.
package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/ragplay-tui/internal/model"
)

// Store is an ordered, append-only log of HistoryItems.
// It is not safe for concurrent use.
type Store struct {
	items []model.HistoryItem
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used to stamp items.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds item to the end of the log and returns the stored copy.
// A missing ID or timestamp is filled in.
func (s *Store) Append(item model.HistoryItem) model.HistoryItem {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.AnsweredAt.IsZero() {
		item.AnsweredAt = s.now()
	}
	s.items = append(s.items, item)
	return item
}

// Items returns a copy of the log in insertion order.
func (s *Store) Items() []model.HistoryItem {
	out := make([]model.HistoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items in the log.
func (s *Store) Len() int {
	return len(s.items)
}

// Last returns the most recently appended item.
func (s *Store) Last() (model.HistoryItem, bool) {
	if len(s.items) == 0 {
		return model.HistoryItem{}, false
	}
	return s.items[len(s.items)-1], true
}
