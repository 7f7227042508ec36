// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// LOADER TESTS
// =============================================================================

func TestLoad_TextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("Project X is a retrieval playground.\n"), 0644))

	doc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", doc.Name)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, ".txt", doc.Ext())
	assert.True(t, strings.HasPrefix(doc.ContentType, "text/plain"), doc.ContentType)
	assert.Equal(t, "Project X is a retrieval playground.\n", string(doc.Content))
}

func TestLoad_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "a.txt"), []byte("hi there"), 0644))

	doc, err := Load("~/a.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "a.txt"), doc.Path)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	_, err = Load(dir)
	assert.ErrorContains(t, err, "is a directory")
}

func TestDetectContentType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	assert.Equal(t, "image/png", DetectContentType("x.bin", png))

	binary := []byte{0x00, 0x01, 0x02, 0x03, 0xfe, 0xff}
	assert.Equal(t, genericType, DetectContentType("blob", binary))
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func waitChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c := <-w.Changes():
		return c
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change")
		return Change{}
	}
}

func TestWatcher_ReportsWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	w, err := NewWatcher(path, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("v3"), 0644))

	c := waitChange(t, w)
	assert.Equal(t, path, c.Path)
	assert.False(t, c.Removed)
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	select {
	case c := <-w.Changes():
		t.Fatalf("unexpected change %+v", c)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_ReportsRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.Remove(path))

	c := waitChange(t, w)
	assert.True(t, c.Removed)
}

func TestWatcher_CloseClosesChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0644))

	w, err := NewWatcher(path, 0, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, ok := <-w.Changes()
	assert.False(t, ok)
}
