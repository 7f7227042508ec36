// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a transcript to Markdown format.
func (e *MarkdownExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("transcript is nil")
	}
	if len(t.Items) == 0 {
		return nil, fmt.Errorf("nothing to export: no questions answered yet")
	}

	exported := t.ExportedAt
	if exported.IsZero() {
		exported = time.Now()
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(title(t))))
		if t.SessionID != "" {
			sb.WriteString(fmt.Sprintf("session: %s\n", t.SessionID))
		}
		if !t.StartedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("date: %s\n", t.StartedAt.Format(time.RFC3339)))
		}
		sb.WriteString(fmt.Sprintf("exchanges: %d\n", len(t.Items)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", exported.Format(time.RFC3339)))
		sb.WriteString("generator: ragplay\n")
		sb.WriteString("---\n\n")
	}

	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(title(t))))

	for i, item := range t.Items {
		heading := fmt.Sprintf("Q%d", i+1)
		if e.options.IncludeModes {
			heading += " · " + item.Mode.Label()
		}
		if e.options.IncludeTimestamps && !item.AnsweredAt.IsZero() {
			heading += fmt.Sprintf(" <sub>%s</sub>", formatShortTimestamp(item.AnsweredAt))
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", heading))

		sb.WriteString(quote(item.Question))
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(item.Answer))
		sb.WriteString("\n\n")

		if i < len(t.Items)-1 {
			sb.WriteString("---\n\n")
		}
	}

	if e.options.IncludeMetadata {
		sb.WriteString("\n---\n\n")
		sb.WriteString(fmt.Sprintf("*Exported from ragplay on %s*\n", formatTimestamp(exported)))
	}

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// quote renders text as a Markdown blockquote.
func quote(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only characters that would break headings.
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML quotes a YAML scalar when it contains special characters.
func escapeYAML(s string) string {
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
