// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/ragplay-tui/internal/model"
	"github.com/jeranaias/ragplay-tui/internal/session"
	"github.com/jeranaias/ragplay-tui/internal/util"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is the exportable view of a session.
type Transcript struct {
	SessionID  string              `json:"session_id,omitempty"`
	StartedAt  time.Time           `json:"started_at"`
	ExportedAt time.Time           `json:"exported_at"`
	Items      []model.HistoryItem `json:"items"`
}

// FromSnapshot builds a transcript from a session snapshot.
func FromSnapshot(s session.Snapshot) *Transcript {
	return &Transcript{
		SessionID:  s.SessionID,
		StartedAt:  s.StartedAt,
		ExportedAt: time.Now(),
		Items:      s.Exchanges(),
	}
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters.
type Exporter interface {
	// Export converts a transcript to the target format.
	Export(t *Transcript) ([]byte, error)

	// FileExtension returns the file extension (e.g. ".md").
	FileExtension() string

	// MimeType returns the MIME type for the format.
	MimeType() string
}

// Format names an export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts "markdown", "md" and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (use markdown or json)", s)
	}
}

// New returns the exporter for format.
func New(format Format, opts *Options) (Exporter, error) {
	switch format {
	case FormatMarkdown:
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is where ExportToFile writes. Default: current directory.
	OutputDir string

	// IncludeMetadata adds a header with session and export information.
	IncludeMetadata bool

	// IncludeModes labels each exchange with the mode it was asked in.
	IncludeModes bool

	// IncludeTimestamps adds the answer time to each exchange.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeMetadata:   true,
		IncludeModes:      true,
		IncludeTimestamps: true,
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile writes t to a generated filename in opts.OutputDir and
// returns the path.
func ExportToFile(t *Transcript, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	dir := opts.OutputDir
	if dir == "" {
		dir = "."
	}
	dir, err := util.ExpandHome(dir)
	if err != nil {
		return "", err
	}

	exported := t.ExportedAt
	if exported.IsZero() {
		exported = time.Now()
	}
	filename := fmt.Sprintf("ragplay_%s_%s%s",
		sanitizeFilename(title(t)),
		exported.Format("20060102_150405"),
		exporter.FileExtension(),
	)

	path := filepath.Join(dir, filename)
	if err := WriteFile(path, t, exporter); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFile writes t to path atomically.
func WriteFile(path string, t *Transcript, exporter Exporter) error {
	content, err := exporter.Export(t)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := util.AtomicWriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// title is the first question, used to name files and headings.
func title(t *Transcript) string {
	if t == nil || len(t.Items) == 0 {
		return "conversation"
	}
	return util.SingleLine(t.Items[0].Question)
}

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	s = util.TruncateRunes(s, 40)

	var b strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			b.WriteRune('-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune('_')
		case r < 32 || r == 127:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}

	if b.Len() == 0 {
		return "conversation"
	}
	return b.String()
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
