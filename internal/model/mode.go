// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
)

// =============================================================================
// MODE TYPE
// =============================================================================

// Mode selects the retrieval strategy the backend applies to a question.
type Mode string

const (
	// ModeUnset means no mode is sent; backends treat it as ModeDocument.
	ModeUnset Mode = ""

	ModeDocument Mode = "document" // answer from the uploaded text
	ModeWeb      Mode = "web"      // answer augmented by web retrieval
	ModeGeneral  Mode = "general"  // unconstrained chat
)

// AllModes returns the selectable modes in display order.
func AllModes() []Mode {
	return []Mode{ModeDocument, ModeWeb, ModeGeneral}
}

// ParseMode converts user input to a Mode. Matching is case-insensitive and
// accepts the legacy "doc" spelling.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "document", "doc", "docs":
		return ModeDocument, nil
	case "web":
		return ModeWeb, nil
	case "general", "chat":
		return ModeGeneral, nil
	default:
		return ModeUnset, fmt.Errorf("invalid mode %q, must be one of: document, web, general", s)
	}
}

// String returns the wire value of the mode.
func (m Mode) String() string {
	return string(m)
}

// Valid reports whether m is one of the selectable modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeDocument, ModeWeb, ModeGeneral:
		return true
	}
	return false
}

// Next returns the mode after m in display order, wrapping around.
func (m Mode) Next() Mode {
	switch m {
	case ModeDocument:
		return ModeWeb
	case ModeWeb:
		return ModeGeneral
	default:
		return ModeDocument
	}
}

// Label returns the human-readable name shown in selectors.
func (m Mode) Label() string {
	switch m {
	case ModeDocument, ModeUnset:
		return "Document RAG"
	case ModeWeb:
		return "Web RAG"
	case ModeGeneral:
		return "General Chat"
	default:
		return string(m)
	}
}

// Effective resolves ModeUnset to the backend default.
func (m Mode) Effective() Mode {
	if m == ModeUnset {
		return ModeDocument
	}
	return m
}
