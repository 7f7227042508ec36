// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period before a change is reported.
const DefaultDebounce = 300 * time.Millisecond

// Change reports that the watched file was written or removed.
type Change struct {
	Path    string
	Removed bool
}

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// Watcher reports debounced changes to one file. The parent directory is
// watched so editors that save by rename are still seen.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   *zap.Logger
	changes  chan Change

	mu      sync.Mutex
	pending *Change
	last    time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher starts watching path. Call Close to stop.
func NewWatcher(path string, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		watcher:  fsw,
		debounce: debounce,
		logger:   logger.Named("watcher"),
		changes:  make(chan Change, 1),
		ctx:      ctx,
		cancel:   cancel,
	}

	w.wg.Add(2)
	go w.processEvents()
	go w.processPending()
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Changes delivers debounced changes. It is closed by Close.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Close stops watching and closes the Changes channel.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	close(w.changes)
	return err
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}

			switch {
			case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
				w.mark(Change{Path: w.path})
			case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				w.mark(Change{Path: w.path, Removed: true})
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.String("path", w.path), zap.Error(err))
		}
	}
}

// mark records a change; a later event replaces an earlier one.
func (w *Watcher) mark(c Change) {
	w.mu.Lock()
	w.pending = &c
	w.last = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) processPending() {
	defer w.wg.Done()

	tick := w.debounce / 3
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			var ready *Change
			if w.pending != nil && time.Since(w.last) >= w.debounce {
				ready = w.pending
				w.pending = nil
			}
			w.mu.Unlock()

			if ready == nil {
				continue
			}
			w.logger.Debug("file changed", zap.String("path", ready.Path), zap.Bool("removed", ready.Removed))

			select {
			case w.changes <- *ready:
			case <-w.ctx.Done():
				return
			}
		}
	}
}
