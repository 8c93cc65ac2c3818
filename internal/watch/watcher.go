// Package watch re-runs a callback whenever a program file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/thruflo/tape/internal/logging"
)

// Watcher watches one file for writes, creates and renames.
//
// The parent directory is watched rather than the file itself so that
// editors which save by writing a temp file and renaming it over the
// original keep triggering events.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
	path     string
	debounce time.Duration
}

// New creates a watcher for path. Events closer together than debounce are
// collapsed into one callback.
func New(path string, debounce time.Duration, logger *logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve watch path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		watcher:  fsw,
		logger:   logger.With("path", abs),
		path:     abs,
		debounce: debounce,
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Watch blocks until ctx is cancelled, calling onChange after each
// debounced change to the file. Callbacks run on the calling goroutine, one
// at a time; a callback error is logged and watching continues.
// The underlying fsnotify watcher is closed when Watch returns.
func (w *Watcher) Watch(ctx context.Context, onChange func() error) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	w.logger.Info("watching for changes", "debounce_ms", w.debounce.Milliseconds())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", "op", event.Op.String())

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			if err := onChange(); err != nil {
				w.logger.Error("run after change failed", "error", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == w.path
}
