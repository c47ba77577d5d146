// Package watcher reports workspace changes so uids can be recomputed as files are edited.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/stamp/internal/core/domain"
	"go.trai.ch/stamp/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// skipDirectories are never watched.
var skipDirectories = map[string]bool{
	".git":                 true,
	".jj":                  true,
	domain.DefaultCacheDir: true,
}

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
type Watcher struct {
	logger ports.Logger

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	events    chan ports.WatchEvent
}

// NewWatcher creates a watcher. The underlying notifier is only acquired by Start.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{logger: logger}
}

// Start watches every directory below root and keeps following new directories.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher != nil {
		return zerr.With(zerr.New("watcher already started"), "root", root)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return zerr.Wrap(err, "failed to create file watcher")
	}
	for dir := range directories(root) {
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
		}
	}

	w.fsWatcher = fsWatcher
	w.events = make(chan ports.WatchEvent, eventChannelBuffer)
	go w.processEvents(ctx, fsWatcher, w.events)
	return nil
}

// Stop releases the notifier. The watcher can be started again afterwards.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsWatcher == nil {
		return nil
	}
	err := w.fsWatcher.Close()
	w.fsWatcher = nil
	if err != nil {
		return zerr.Wrap(err, "failed to close file watcher")
	}
	return nil
}

// Events yields changes until the watcher stops or its context is done.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	w.mu.Lock()
	events := w.events
	w.mu.Unlock()

	return func(yield func(ports.WatchEvent) bool) {
		if events == nil {
			return
		}
		for event := range events {
			if !yield(event) {
				return
			}
		}
	}
}

// directories yields root and every directory below it that is not skipped.
func directories(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // Unreadable directories are not watched.
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skipDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Watcher) processEvents(ctx context.Context, fsWatcher *fsnotify.Watcher, out chan<- ports.WatchEvent) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}
			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			select {
			case out <- watchEvent:
			case <-ctx.Done():
				return
			}

			if watchEvent.Operation == ports.OpCreate {
				w.follow(fsWatcher, event.Name)
			}
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error: " + err.Error())
		}
	}
}

// follow adds a newly created directory and its subdirectories.
func (w *Watcher) follow(fsWatcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || skipDirectories[info.Name()] {
		return
	}
	for dir := range directories(path) {
		if err := fsWatcher.Add(dir); err != nil {
			w.logger.Warn("cannot watch " + dir + ": " + err.Error())
		}
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	var op ports.WatchOp
	switch {
	case event.Has(fsnotify.Write):
		op = ports.OpWrite
	case event.Has(fsnotify.Create):
		op = ports.OpCreate
	case event.Has(fsnotify.Remove):
		op = ports.OpRemove
	case event.Has(fsnotify.Rename):
		op = ports.OpRename
	default:
		return ports.WatchEvent{}, false
	}
	return ports.WatchEvent{Path: event.Name, Operation: op}, true
}
