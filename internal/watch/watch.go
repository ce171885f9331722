// Package watch notifies about files that appear or change below a set of
// directories.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long a file must stay untouched before it is handed
// to the handler.
const DefaultSettle = 500 * time.Millisecond

// minTick bounds how often pending files are checked.
const minTick = time.Millisecond

// Handler is called with the path of a file that was created or written.
type Handler func(path string)

// Watcher recursively watches directories. Files are reported once they
// stop changing for the settle duration, so a file being copied is seen
// only when complete.
type Watcher struct {
	w       *fsnotify.Watcher
	settle  time.Duration
	logger  *slog.Logger
	pending map[string]time.Time
}

func New(settle time.Duration, logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if settle <= 0 {
		settle = DefaultSettle
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Watcher{
		w:       w,
		settle:  settle,
		logger:  logger,
		pending: make(map[string]time.Time),
	}, nil
}

// Add watches root and every directory below it.
func (w *Watcher) Add(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("unable to watch subtree", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.w.Add(path); err != nil {
			return fmt.Errorf("failed to watch %q: %w", path, err)
		}
		return nil
	})
}

// Run dispatches settled files to handle until ctx is done. handle is
// always called from the goroutine running Run. The watcher is closed when
// Run returns.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer w.w.Close()

	ticker := time.NewTicker(max(w.settle/2, minTick))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", "err", err)
		case now := <-ticker.C:
			w.flush(now, handle)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(event.Name)
		if err != nil {
			return
		}
		if info.IsDir() {
			w.addDir(event.Name)
			return
		}
		w.pending[event.Name] = time.Now()
	case event.Has(fsnotify.Write):
		w.pending[event.Name] = time.Now()
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		delete(w.pending, event.Name)
	}
}

// addDir watches a newly created directory and schedules the files that
// were written into it before the watch was in place.
func (w *Watcher) addDir(dir string) {
	now := time.Now()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.w.Add(path); err != nil {
				w.logger.Warn("unable to watch directory", "path", path, "err", err)
			}
			return nil
		}
		if d.Type().IsRegular() {
			w.pending[path] = now
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		w.logger.Warn("unable to scan new directory", "path", dir, "err", err)
	}
}

func (w *Watcher) flush(now time.Time, handle Handler) {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.settle {
			ready = append(ready, path)
		}
	}
	slices.Sort(ready)

	for _, path := range ready {
		delete(w.pending, path)

		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		handle(path)
	}
}

// Close stops the watcher without waiting for Run.
func (w *Watcher) Close() error {
	return w.w.Close()
}
