// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jeranaias/ragplay-tui/internal/model"
	"github.com/jeranaias/ragplay-tui/internal/util"
)

// genericType is what mimetype reports when it recognizes nothing.
const genericType = "application/octet-stream"

// Load reads the file at path into a Document. A leading "~" is expanded.
// The content type is sniffed from the bytes and falls back to the
// extension's registered type.
func Load(path string) (*model.Document, error) {
	expanded, err := util.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc := model.NewDocument(filepath.Base(abs), content, DetectContentType(abs, content))
	doc.Path = abs
	return doc, nil
}

// DetectContentType returns the MIME type of content, using name's
// extension when the bytes are not recognized.
func DetectContentType(name string, content []byte) string {
	detected := mimetype.Detect(content)
	if !detected.Is(genericType) {
		return detected.String()
	}
	if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
		return byExt
	}
	return genericType
}
