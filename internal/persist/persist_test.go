// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package persist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/consult-tui/internal/model"
)

func testChats() []*model.Chat {
	first := model.NewChat()
	first.Title = "Tumor board prep"
	first.Append(model.NewUserMessage("jdoe", "hello @Radiology", []string{"Radiology"}))
	first.Append(model.NewAgentMessage("srv-1", "Radiology", "Findings attached.", time.Now(), nil))

	second := model.NewChat()
	second.Append(model.NewUserMessage("jdoe", "anything on allergies?", nil))

	return []*model.Chat{first, second}
}

// =============================================================================
// ROUND TRIP
// =============================================================================

func TestAdapter_SaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	adapter := NewAdapterWithDebounce(path, 0) // immediate writes

	chats := testChats()
	adapter.Save(chats)

	loaded, ok := NewAdapter(path).Load()
	if !ok {
		t.Fatal("Load failed for freshly written snapshot")
	}
	if len(loaded) != 2 {
		t.Fatalf("Loaded %d chats, want 2", len(loaded))
	}

	if loaded[0].Title != "Tumor board prep" {
		t.Errorf("Title = %q", loaded[0].Title)
	}
	if loaded[0].MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", loaded[0].MessageCount())
	}
	if loaded[0].Messages[0].Content != "hello @Radiology" {
		t.Error("Message order not preserved")
	}

	// Temporal fields must reconstitute to the same instants.
	if !loaded[0].CreatedAt.Equal(chats[0].CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", loaded[0].CreatedAt, chats[0].CreatedAt)
	}
	if !loaded[0].Messages[1].Timestamp.Equal(chats[0].Messages[1].Timestamp) {
		t.Error("Message timestamp drifted through the round trip")
	}
}

func TestAdapter_SnapshotIsPlainJSONWithTextTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	adapter := NewAdapterWithDebounce(path, 0)
	adapter.Save(testChats())

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	var raw struct {
		Version int `json:"version"`
		Chats   []struct {
			CreatedAt string `json:"createdAt"`
			Messages  []struct {
				Timestamp string `json:"timestamp"`
			} `json:"messages"`
		} `json:"chats"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}
	if raw.Version != SnapshotVersion {
		t.Errorf("version = %d", raw.Version)
	}
	if _, err := time.Parse(time.RFC3339Nano, raw.Chats[0].CreatedAt); err != nil {
		t.Errorf("createdAt %q is not RFC 3339 text", raw.Chats[0].CreatedAt)
	}
	if _, err := time.Parse(time.RFC3339Nano, raw.Chats[0].Messages[0].Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC 3339 text", raw.Chats[0].Messages[0].Timestamp)
	}
}

// =============================================================================
// DEGENERATE LOADS
// =============================================================================

func TestAdapter_LoadMissingFile(t *testing.T) {
	adapter := NewAdapter(filepath.Join(t.TempDir(), "nope.json"))
	if _, ok := adapter.Load(); ok {
		t.Error("Load should report absent for a missing file")
	}
}

func TestAdapter_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok := NewAdapter(path).Load(); ok {
		t.Error("Load should report absent for a corrupt file")
	}
}

func TestAdapter_LoadWrongSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "chats": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok := NewAdapter(path).Load(); ok {
		t.Error("Load should report absent for an incompatible schema")
	}
}

// =============================================================================
// DEBOUNCE BEHAVIOR
// =============================================================================

func TestAdapter_DebounceCoalescesBurst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	adapter := NewAdapterWithDebounce(path, 50*time.Millisecond)

	chat := model.NewChat()
	for i := 0; i < 10; i++ {
		chat.Append(model.NewUserMessage("jdoe", "burst", nil))
		adapter.Save([]*model.Chat{chat})
	}

	// Inside the window nothing is on disk yet.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Snapshot written before the debounce window elapsed")
	}

	// After the window the final state of the burst is there.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if loaded, ok := NewAdapter(path).Load(); ok {
			if got := loaded[0].MessageCount(); got != 10 {
				t.Errorf("Persisted MessageCount = %d, want the last queued state", got)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("Debounced write never landed")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAdapter_FlushWritesImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	adapter := NewAdapterWithDebounce(path, time.Hour) // would never fire on its own

	adapter.Save(testChats())
	adapter.Flush()

	if _, ok := NewAdapter(path).Load(); !ok {
		t.Error("Flush did not force the queued write")
	}
}

func TestAdapter_FlushWithNothingQueued(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	adapter := NewAdapter(path)

	adapter.Flush() // must not create a file or panic

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Flush with empty queue should write nothing")
	}
}

func TestAdapter_SaveDetachesFromCaller(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chats.json")
	adapter := NewAdapterWithDebounce(path, 50*time.Millisecond)

	chat := model.NewChat()
	chat.Append(model.NewUserMessage("jdoe", "original", nil))
	adapter.Save([]*model.Chat{chat})

	// Mutating the caller's chat after Save must not affect the write.
	chat.Messages[0].Content = "mutated"
	adapter.Flush()

	loaded, ok := NewAdapter(path).Load()
	if !ok {
		t.Fatal("Load failed")
	}
	if loaded[0].Messages[0].Content != "original" {
		t.Error("Queued snapshot aliased live state")
	}
}
