// Package watcher debounces filesystem bursts under a target root and
// serializes refresh triggers onto the indexer.
package watcher

import (
	"context"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow is the fixed settle time after the first event of a burst,
// per the live-refresh contract.
const debounceWindow = 500 * time.Millisecond

// Refresher is invoked once per debounced burst. It is awaited inline so a
// slow refresh naturally extends the next debounce window; at most one
// refresh is ever in flight.
type Refresher func(ctx context.Context) error

// Watcher forwards create/modify/delete events under one root into a
// debounce-then-refresh loop.
type Watcher struct {
	fsw     *fsnotify.Watcher
	refresh Refresher
	stop    chan struct{}
	done    chan struct{}
}

// New starts watching root recursively. Call Run to begin the debounce loop
// and Close to stop watching and release the underlying handle.
func New(root string, refresh Refresher) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := addRecursive(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		fsw:     fsw,
		refresh: refresh,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}, nil
}

// Run blocks in the debounce-then-refresh loop until ctx is cancelled or
// Close is called. Intended to be run in its own goroutine.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}

			// Start of a burst: let it settle, then drain whatever queued up.
			select {
			case <-time.After(debounceWindow):
			case <-ctx.Done():
				return
			case <-w.stop:
				return
			}
			drain(w.fsw.Events)

			if err := w.refresh(ctx); err != nil {
				log.Printf("watcher: refresh failed: %v", err)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher: fsnotify error: %v", err)
		}
	}
}

// Close stops the loop and releases the fsnotify handle. Safe to call after
// Run has returned on its own.
func (w *Watcher) Close() error {
	select {
	case <-w.stop:
	default:
		close(w.stop)
	}
	<-w.done
	return w.fsw.Close()
}

func relevant(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// drain empties whatever events arrived during the debounce window without
// blocking.
func drain(events chan fsnotify.Event) {
	for {
		select {
		case <-events:
		default:
			return
		}
	}
}

// addRecursive registers root and every subdirectory with fsw. fsnotify
// watches are not recursive on any backend, so new subdirectories created
// later are picked up lazily by the caller reacting to Create events if it
// chooses to; this call covers the tree as it exists at watch-start.
func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return walkDirs(root, func(dir string) error {
		return fsw.Add(dir)
	})
}
