// Package watcher provides file watching and automatic registry rebuilds for
// dev mode.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lencelabs/lence/internal/registry"
)

// Watcher monitors the pages directory and rebuilds the query registry when
// markdown files change. A rebuild constructs a fresh snapshot and swaps it
// in wholesale; a rebuild that fails (e.g. a duplicate query key introduced
// while editing) leaves the previous snapshot serving traffic.
type Watcher struct {
	pagesDir string
	store    *registry.Store
	logger   *slog.Logger

	debounceDelay time.Duration

	fsWatcher *fsnotify.Watcher
	mu        sync.Mutex
	pending   time.Time

	// OnRebuild is an optional callback invoked after each rebuild attempt.
	OnRebuild func(snap *registry.Snapshot, err error)
}

// Config holds configuration options for the Watcher.
type Config struct {
	PagesDir      string
	Store         *registry.Store
	Logger        *slog.Logger
	DebounceDelay time.Duration // Default: 100ms
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.PagesDir == "" {
		return nil, fmt.Errorf("pages directory is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("registry store is required")
	}

	debounce := cfg.DebounceDelay
	if debounce == 0 {
		debounce = 100 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	return &Watcher{
		pagesDir:      cfg.PagesDir,
		store:         cfg.Store,
		logger:        logger,
		debounceDelay: debounce,
	}, nil
}

// Start begins watching the pages directory. It blocks until the context is
// cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatchRecursive(w.pagesDir); err != nil {
		return fmt.Errorf("failed to watch pages directory: %w", err)
	}

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// Rebuild rescans the corpus and swaps in a new snapshot. It can be called
// directly without starting the watcher.
func (w *Watcher) Rebuild() error {
	snap, err := registry.BuildFromDir(w.pagesDir)
	if err == nil {
		w.store.Replace(snap)
		w.logger.Info("registry rebuilt", "queries", snap.Len())
	} else {
		w.logger.Warn("registry rebuild failed, keeping previous snapshot", "error", err)
	}
	if w.OnRebuild != nil {
		w.OnRebuild(snap, err)
	}
	return err
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if !strings.HasSuffix(path, ".md") {
		// Watch directories as they appear.
		if event.Op&fsnotify.Create != 0 {
			if info, err := os.Stat(path); err == nil && info.IsDir() {
				w.addWatchRecursive(path)
			}
		}
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
		w.scheduleRebuild()
	}
}

// scheduleRebuild marks the corpus dirty; the debounce loop does the rebuild.
func (w *Watcher) scheduleRebuild() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = time.Now()
}

// processDebounced rebuilds once the corpus has been quiet for the debounce
// delay.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.mu.Lock()
			ready := !w.pending.IsZero() && time.Since(w.pending) >= w.debounceDelay
			if ready {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if ready {
				w.Rebuild()
			}
		}
	}
}

// addWatchRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addWatchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if d.IsDir() {
			if shouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			if err := w.fsWatcher.Add(path); err != nil {
				w.logger.Warn("failed to watch directory", "path", path, "error", err)
			}
		}
		return nil
	})
}

// shouldIgnoreDir returns true if the directory should not be watched.
func shouldIgnoreDir(path string) bool {
	base := filepath.Base(path)
	return base == ".git" || base == "node_modules"
}
