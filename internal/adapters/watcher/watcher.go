// Package watcher adapts fsnotify to the raw directory watcher the watch registry builds on.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FSWatcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements ports.FSWatcher using fsnotify.
// Watches are not recursive: each added directory reports events for its direct children.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	log       ports.Logger
	events    chan ports.WatchEvent

	mu     sync.Mutex
	closed bool
}

// NewWatcher creates a watcher and starts converting fsnotify events.
func NewWatcher(log ports.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	w := &Watcher{
		fsWatcher: fsw,
		log:       log,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}
	go w.processEvents()
	return w, nil
}

// Add starts watching the directory at dir.
func (w *Watcher) Add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return zerr.With(zerr.Wrap(domain.ErrWatcherClosed, "cannot add watch"), "path", dir)
	}
	if err := w.fsWatcher.Add(filepath.FromSlash(dir)); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrWatchFailed, err.Error()), "path", dir)
	}
	return nil
}

// Remove stops watching the directory at dir. Removing an unwatched or deleted directory is not an error.
func (w *Watcher) Remove(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	err := w.fsWatcher.Remove(filepath.FromSlash(dir))
	if err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
		return zerr.With(zerr.Wrap(err, "failed to remove watch"), "path", dir)
	}
	return nil
}

// Events returns the converted event stream. It is closed after Close.
func (w *Watcher) Events() <-chan ports.WatchEvent {
	return w.events
}

// Close stops the watcher and releases all resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsWatcher.Close()
}

// processEvents converts fsnotify events until the fsnotify channels close.
func (w *Watcher) processEvents() {
	defer close(w.events)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if watchEvent, ok := convertEvent(event); ok {
				w.events <- watchEvent
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.log != nil {
				w.log.Warn("watcher: file system error: " + err.Error())
			}
		}
	}
}

// convertEvent maps an fsnotify event to a ports.WatchEvent. Chmod-only events are dropped.
func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	path := filepath.ToSlash(event.Name)

	switch {
	case event.Has(fsnotify.Remove):
		return ports.WatchEvent{Path: path, Operation: ports.OpRemove}, true
	case event.Has(fsnotify.Rename):
		return ports.WatchEvent{Path: path, Operation: ports.OpRename}, true
	case event.Has(fsnotify.Create):
		return ports.WatchEvent{Path: path, Operation: ports.OpCreate}, true
	case event.Has(fsnotify.Write):
		return ports.WatchEvent{Path: path, Operation: ports.OpWrite}, true
	default:
		return ports.WatchEvent{}, false
	}
}
