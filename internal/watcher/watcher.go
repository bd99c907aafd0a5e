// Package watcher re-runs a callback when watched files change.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event represents a file change event.
type Event struct {
	Path string
	Op   string // "create", "write", "remove", "rename"
}

// DefaultDebounce is the delay used to batch bursts of file events.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches a set of files and reports batched changes. Parent
// directories are watched rather than the files themselves so editors that
// save by rename-and-replace keep being observed.
type Watcher struct {
	files    map[string]bool
	dirs     []string
	debounce time.Duration
	onChange func(events []Event)

	mu      sync.Mutex
	pending []Event
	timer   *time.Timer
	stopCh  chan struct{}
	once    sync.Once
}

// New creates a watcher for paths. A non-positive debounce uses
// DefaultDebounce.
func New(paths []string, debounce time.Duration, onChange func(events []Event)) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		files:    make(map[string]bool, len(paths)),
		debounce: debounce,
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}
	seen := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %s: %w", p, err)
		}
		w.files[abs] = true
		dir := filepath.Dir(abs)
		if !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Watch blocks until ctx is canceled or Stop is called.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			w.cancelTimer()
			return nil
		case <-w.stopCh:
			w.cancelTimer()
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if e, ok := w.translate(ev); ok {
				w.enqueue(e)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher: %w", err)
		}
	}
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.once.Do(func() { close(w.stopCh) })
}

func (w *Watcher) translate(ev fsnotify.Event) (Event, bool) {
	path := filepath.Clean(ev.Name)
	if !w.files[path] {
		return Event{}, false
	}
	switch {
	case ev.Has(fsnotify.Create):
		return Event{Path: path, Op: "create"}, true
	case ev.Has(fsnotify.Write):
		return Event{Path: path, Op: "write"}, true
	case ev.Has(fsnotify.Remove):
		return Event{Path: path, Op: "remove"}, true
	case ev.Has(fsnotify.Rename):
		return Event{Path: path, Op: "rename"}, true
	}
	return Event{}, false
}

func (w *Watcher) enqueue(e Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, e)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()
	if len(pending) > 0 {
		w.onChange(pending)
	}
}

func (w *Watcher) cancelTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = nil
}
