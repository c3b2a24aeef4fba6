// Package watcher runs a handler when matching files in a directory are
// created or rewritten.
package watcher

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ytkit/ytkit/internal/utils"
)

// DefaultDebounce is how long a file must stay quiet before it is handled.
const DefaultDebounce = 500 * time.Millisecond

// Handler processes one settled file.
type Handler func(ctx context.Context, path string) error

// Watcher debounces filesystem events for one directory and hands settled
// files to its handler, one at a time.
type Watcher struct {
	dir      string
	match    func(path string) bool
	handler  Handler
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New watches dir. match selects the files of interest; a non-positive
// debounce uses DefaultDebounce.
func New(dir string, match func(path string) bool, handler Handler, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		if cerr := fsw.Close(); cerr != nil {
			utils.LogWarning("Failed to close watcher: %v", cerr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, match: match, handler: handler, debounce: debounce, fsw: fsw}, nil
}

// Start blocks until ctx is done or the watcher is closed. Handler errors
// are logged and do not stop the loop.
func (w *Watcher) Start(ctx context.Context) error {
	utils.LogInfo("Watching %s (Ctrl+C to stop)", w.dir)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := map[string]bool{}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.match(event.Name) {
				utils.LogDebug("Ignoring %s", event.Name)
				continue
			}
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			pending = map[string]bool{}

			for _, path := range paths {
				utils.LogInfo("Detected %s", path)
				if err := w.handler(ctx, path); err != nil {
					utils.LogError("Failed to process %s: %v", path, err)
				}
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			utils.LogError("Watcher error: %v", err)
		}
	}
}

// Stop closes the underlying watcher.
func (w *Watcher) Stop() error {
	return w.fsw.Close()
}
