package watcher

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SourceWatcher watches a tree payload file and invokes a reload callback
// when it changes, debounced so editors that write in several bursts cause
// one reload. Watching the parent directory instead of the file survives
// the rename-and-replace pattern most tools use when saving.
type SourceWatcher struct {
	path     string
	fw       *fsnotify.Watcher
	debounce *DepthDebouncer
	done     chan struct{}
}

// NewSourceWatcher creates a watcher for the payload at path. The reload
// window defaults to DefaultDebounceDuration when zero.
func NewSourceWatcher(path string, window time.Duration) (*SourceWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return &SourceWatcher{
		path:     path,
		fw:       fw,
		debounce: NewDepthDebouncer(window),
		done:     make(chan struct{}),
	}, nil
}

// Start begins delivering debounced reload callbacks. onError receives
// watcher errors; either callback may be invoked from the watcher
// goroutine.
func (w *SourceWatcher) Start(onReload func(), onError func(error)) {
	go func() {
		for {
			select {
			case <-w.done:
				return
			case ev, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
					continue
				}
				if ev.Op.Has(fsnotify.Write) || ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Rename) {
					w.debounce.Schedule(0, func(int) { onReload() })
				}
			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				if onError != nil {
					onError(err)
				}
			}
		}
	}()
}

// Close stops watching and cancels any pending reload.
func (w *SourceWatcher) Close() error {
	close(w.done)
	w.debounce.Cancel()
	return w.fw.Close()
}
