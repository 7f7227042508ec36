// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jeranaias/ragplay-tui/internal/model"
)

// =============================================================================
// JSON EXPORTER
// =============================================================================

// JSONExporter exports transcripts to JSON format.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

type jsonItem struct {
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Mode       model.Mode `json:"mode,omitempty"`
	ID         string     `json:"id,omitempty"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
}

type jsonTranscript struct {
	SessionID  string     `json:"session_id,omitempty"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	ExportedAt *time.Time `json:"exported_at,omitempty"`
	Items      []jsonItem `json:"items"`
}

// Export converts a transcript to indented JSON. An empty transcript
// exports as an empty item list.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("transcript is nil")
	}

	out := jsonTranscript{Items: make([]jsonItem, 0, len(t.Items))}
	if e.options.IncludeMetadata {
		out.SessionID = t.SessionID
		out.StartedAt = timePtr(t.StartedAt)
		out.ExportedAt = timePtr(t.ExportedAt)
	}

	for _, item := range t.Items {
		ji := jsonItem{Question: item.Question, Answer: item.Answer}
		if e.options.IncludeModes {
			ji.Mode = item.Mode
		}
		if e.options.IncludeMetadata {
			ji.ID = item.ID
		}
		if e.options.IncludeTimestamps {
			ji.AnsweredAt = timePtr(item.AnsweredAt)
		}
		out.Items = append(out.Items, ji)
	}

	return json.MarshalIndent(out, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
