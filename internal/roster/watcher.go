// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// OVERRIDE FILE WATCHER
// =============================================================================

// reloadDebounce coalesces the event bursts editors produce for a single
// save (write + chmod, or remove + create for atomic saves).
const reloadDebounce = 200 * time.Millisecond

// overrideWatcher reinstalls the override roster when the file changes.
// The parent directory is watched, not the file itself, so atomic
// rename-style saves keep working.
type overrideWatcher struct {
	svc     *Service
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

func newOverrideWatcher(svc *Service, path string) (*overrideWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &overrideWatcher{
		svc:     svc,
		path:    abs,
		watcher: watcher,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *overrideWatcher) run() {
	var pending <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = time.After(reloadDebounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(os.Stderr, "consult: roster watch error: %v\n", err)

		case <-pending:
			pending = nil
			if err := w.svc.LoadOverride(w.path); err != nil {
				fmt.Fprintf(os.Stderr, "consult: roster reload failed: %v\n", err)
			}
		}
	}
}

func (w *overrideWatcher) close() {
	close(w.done)
	w.watcher.Close()
}
