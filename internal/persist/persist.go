// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jeranaias/consult-tui/internal/model"
	"github.com/jeranaias/consult-tui/internal/util"
)

// =============================================================================
// SNAPSHOT FORMAT
// =============================================================================

// SnapshotVersion identifies the on-disk schema. Bump on incompatible
// changes; unknown versions load as absent.
const SnapshotVersion = 1

// Snapshot is the persisted projection of the store: chats only.
// Selection, loading, and the pending ledger are session state and are
// deliberately excluded, as is anything auth-related. Timestamps
// serialize as RFC 3339 text via encoding/json.
type Snapshot struct {
	Version int           `json:"version"`
	SavedAt time.Time     `json:"savedAt"`
	Chats   []*model.Chat `json:"chats"`
}

// DefaultDebounce is the write-coalescing window.
const DefaultDebounce = time.Second

// =============================================================================
// ADAPTER
// =============================================================================

// Adapter persists snapshots to one JSON file, debounced on the trailing
// edge: a burst of Save calls inside the window produces a single write
// carrying the last snapshot queued.
type Adapter struct {
	path     string
	debounce time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	queued []*model.Chat
}

// NewAdapter creates an adapter writing to path with the default window.
func NewAdapter(path string) *Adapter {
	return &Adapter{path: path, debounce: DefaultDebounce}
}

// NewAdapterWithDebounce creates an adapter with a custom window.
// A zero or negative window makes every Save write immediately.
func NewAdapterWithDebounce(path string, debounce time.Duration) *Adapter {
	return &Adapter{path: path, debounce: debounce}
}

// DefaultPath returns the snapshot location under the user's home
// directory (~/.consult/chats.json).
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".consult", "chats.json"), nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the snapshot from disk. It returns ok=false for a missing,
// corrupt, or incompatible file; startup must never fail on persistence.
func (a *Adapter) Load() ([]*model.Chat, bool) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return nil, false
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		fmt.Fprintf(os.Stderr, "consult: ignoring unreadable snapshot %s: %v\n", a.path, err)
		return nil, false
	}
	if snap.Version != SnapshotVersion {
		fmt.Fprintf(os.Stderr, "consult: ignoring snapshot with schema version %d\n", snap.Version)
		return nil, false
	}

	if snap.Chats == nil {
		snap.Chats = make([]*model.Chat, 0)
	}
	for _, chat := range snap.Chats {
		if chat.Messages == nil {
			chat.Messages = make([]*model.Message, 0)
		}
	}
	return snap.Chats, true
}

// =============================================================================
// SAVE
// =============================================================================

// Save queues a snapshot for writing. Within the debounce window, later
// calls replace the queued snapshot and the timer is reset, so only the
// final state of a burst hits the disk.
func (a *Adapter) Save(chats []*model.Chat) {
	cloned := cloneChats(chats)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.queued = cloned

	if a.debounce <= 0 {
		a.writeLocked()
		return
	}

	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.writeLocked()
	})
}

// Flush writes any queued snapshot immediately. Call on shutdown so the
// trailing edge of the last burst is not lost.
func (a *Adapter) Flush() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.writeLocked()
}

// writeLocked marshals and atomically writes the queued snapshot.
// Failures (quota, permissions) are logged and dropped: persistence is
// best-effort by contract.
func (a *Adapter) writeLocked() {
	if a.queued == nil {
		return
	}

	snap := Snapshot{
		Version: SnapshotVersion,
		SavedAt: time.Now(),
		Chats:   a.queued,
	}
	a.queued = nil

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "consult: snapshot marshal failed: %v\n", err)
		return
	}

	if err := util.AtomicWriteFile(a.path, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "consult: snapshot write failed: %v\n", err)
	}
}

// cloneChats detaches the queued snapshot from live store state.
func cloneChats(chats []*model.Chat) []*model.Chat {
	out := make([]*model.Chat, len(chats))
	for i, chat := range chats {
		out[i] = chat.Clone()
	}
	return out
}
