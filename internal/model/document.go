// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"path/filepath"
	"strings"
)

// Document is a locally selected file waiting to be indexed.
type Document struct {
	// Name is the filename sent to the server.
	Name string

	// Path is where the file was read from (empty for in-memory documents).
	Path string

	// Content is the raw file bytes.
	Content []byte

	// ContentType is the declared MIME type (e.g. "text/plain; charset=utf-8").
	ContentType string
}

// NewDocument creates an in-memory document.
func NewDocument(name string, content []byte, contentType string) *Document {
	return &Document{Name: name, Content: content, ContentType: contentType}
}

// Size returns the content length in bytes.
func (d *Document) Size() int {
	return len(d.Content)
}

// Ext returns the lower-cased filename extension including the dot.
func (d *Document) Ext() string {
	return strings.ToLower(filepath.Ext(d.Name))
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	c.Content = append([]byte(nil), d.Content...)
	return &c
}

// Answer is the text returned by a successful chat exchange.
type Answer struct {
	Text string `json:"answer"`
}
