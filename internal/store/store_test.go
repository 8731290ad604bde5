// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/consult-tui/internal/model"
)

// =============================================================================
// CHAT LIFECYCLE TESTS
// =============================================================================

func TestStore_CreateChat(t *testing.T) {
	st := New()

	id := st.CreateChat()
	if id == "" {
		t.Fatal("Expected a chat id")
	}

	snap := st.Snapshot()
	if len(snap.Chats) != 1 {
		t.Fatalf("Chats = %d, want 1", len(snap.Chats))
	}
	if snap.SelectedID != "" {
		t.Error("CreateChat must not auto-select")
	}
	if !snap.Chats[0].IsEmpty() {
		t.Error("New chat should have no messages")
	}
}

func TestStore_ChatsKeepCreationOrder(t *testing.T) {
	st := New()
	first := st.CreateChat()
	second := st.CreateChat()
	third := st.CreateChat()

	snap := st.Snapshot()
	want := []string{first, second, third}
	for i, id := range want {
		if snap.Chats[i].ID != id {
			t.Errorf("Chats[%d].ID = %q, want %q", i, snap.Chats[i].ID, id)
		}
	}
}

func TestStore_SelectChat(t *testing.T) {
	st := New()
	id := st.CreateChat()

	st.SelectChat(id)
	if got := st.Snapshot().SelectedID; got != id {
		t.Errorf("SelectedID = %q, want %q", got, id)
	}

	// Unknown id is a silent no-op.
	st.SelectChat("nope")
	if got := st.Snapshot().SelectedID; got != id {
		t.Errorf("SelectedID after unknown select = %q, want %q", got, id)
	}
}

func TestStore_DeleteChat_MovesSelection(t *testing.T) {
	st := New()
	first := st.CreateChat()
	second := st.CreateChat()
	st.SelectChat(second)

	for i := 0; i < 5; i++ {
		st.AppendMessage(second, model.NewUserMessage("jdoe", "msg", nil))
	}

	st.DeleteChat(second)

	snap := st.Snapshot()
	if len(snap.Chats) != 1 || snap.Chats[0].ID != first {
		t.Fatalf("Chats = %v, want only the first chat", snap.Chats)
	}
	if snap.SelectedID != first {
		t.Errorf("SelectedID = %q, want first remaining chat %q", snap.SelectedID, first)
	}

	st.DeleteChat(first)
	snap = st.Snapshot()
	if len(snap.Chats) != 0 {
		t.Fatal("Expected empty chat list")
	}
	if snap.SelectedID != "" {
		t.Errorf("SelectedID = %q, want no selection", snap.SelectedID)
	}
}

func TestStore_DeleteChat_UnselectedKeepsSelection(t *testing.T) {
	st := New()
	first := st.CreateChat()
	second := st.CreateChat()
	st.SelectChat(first)

	st.DeleteChat(second)
	if got := st.Snapshot().SelectedID; got != first {
		t.Errorf("SelectedID = %q, want %q", got, first)
	}
}

func TestStore_RenameChat(t *testing.T) {
	st := New()
	id := st.CreateChat()

	st.RenameChat(id, "Tumor board prep")
	if got := st.Snapshot().Chats[0].Title; got != "Tumor board prep" {
		t.Errorf("Title = %q", got)
	}

	// Unknown id is a no-op, not a panic.
	st.RenameChat("nope", "whatever")
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestStore_AppendMessage(t *testing.T) {
	st := New()
	id := st.CreateChat()

	st.AppendMessage(id, model.NewUserMessage("jdoe", "one", nil))
	st.AppendMessage(id, model.NewAgentMessage("", "Orchestrator", "two", time.Now(), nil))

	chat := st.Snapshot().ChatByID(id)
	if chat.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", chat.MessageCount())
	}
	if chat.Messages[0].Content != "one" || chat.Messages[1].Content != "two" {
		t.Error("Messages out of order")
	}
}

func TestStore_AppendMessage_UnknownChatDropped(t *testing.T) {
	st := New()
	st.CreateChat()

	st.AppendMessage("ghost", model.NewSystemMessage("lost"))

	for _, chat := range st.Snapshot().Chats {
		if chat.MessageCount() != 0 {
			t.Error("Message for unknown chat leaked into another chat")
		}
	}
}

// =============================================================================
// PENDING LEDGER TESTS
// =============================================================================

func TestStore_RegisterPending_ReplacesDuplicate(t *testing.T) {
	st := New()

	st.RegisterPending("Orchestrator")
	st.RegisterPending("Orchestrator")

	snap := st.Snapshot()
	if len(snap.Pending) != 1 {
		t.Fatalf("Pending entries = %d, want exactly 1", len(snap.Pending))
	}
	if _, ok := snap.Pending["Orchestrator"]; !ok {
		t.Error("Expected Orchestrator entry")
	}
}

func TestStore_ClearPending(t *testing.T) {
	st := New()
	st.RegisterPending("Radiology")
	st.RegisterPending("PatientHistory")

	st.ClearPending("Radiology")

	snap := st.Snapshot()
	if _, ok := snap.Pending["Radiology"]; ok {
		t.Error("Radiology entry should be cleared")
	}
	if _, ok := snap.Pending["PatientHistory"]; !ok {
		t.Error("Unrelated entry must survive")
	}

	// Clearing an absent agent is a no-op.
	st.ClearPending("Radiology")
}

func TestStore_SetLoadingFalse_ClearsPending(t *testing.T) {
	st := New()
	st.SetLoading(true)
	st.RegisterPending("Orchestrator")
	st.RegisterPending("Radiology")

	st.SetLoading(false)

	snap := st.Snapshot()
	if snap.Loading {
		t.Error("Loading should be false")
	}
	if len(snap.Pending) != 0 {
		t.Errorf("Pending = %v, want empty after loading ends", snap.Pending)
	}
}

func TestState_PendingAgents_OldestFirst(t *testing.T) {
	s := emptyState()
	base := time.Now()
	s.Pending["Radiology"] = base.Add(2 * time.Second)
	s.Pending["Orchestrator"] = base
	s.Pending["PatientHistory"] = base.Add(time.Second)

	got := s.PendingAgents()
	want := []string{"Orchestrator", "PatientHistory", "Radiology"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("PendingAgents = %v, want %v", got, want)
		}
	}
}

// =============================================================================
// HYDRATE TESTS
// =============================================================================

func TestStore_Hydrate_ResetsSessionState(t *testing.T) {
	st := New()
	st.CreateChat()
	st.SetLoading(true)
	st.RegisterPending("Orchestrator")

	restored := []*model.Chat{model.NewChat(), model.NewChat()}
	st.Hydrate(restored)

	snap := st.Snapshot()
	if len(snap.Chats) != 2 {
		t.Fatalf("Chats = %d, want 2 restored", len(snap.Chats))
	}
	if snap.Loading {
		t.Error("Loading must reset on hydrate")
	}
	if len(snap.Pending) != 0 {
		t.Error("Pending must reset on hydrate")
	}
	if snap.SelectedID != "" {
		t.Error("Selection must reset on hydrate")
	}
}

// =============================================================================
// SUBSCRIPTION TESTS
// =============================================================================

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	st := New()

	var mu sync.Mutex
	calls := 0
	unsub := st.Subscribe(func(s State) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	st.CreateChat()
	st.SetLoading(true)

	mu.Lock()
	if calls != 2 {
		t.Errorf("Subscriber calls = %d, want 2", calls)
	}
	mu.Unlock()

	unsub()
	st.SetLoading(false)

	mu.Lock()
	if calls != 2 {
		t.Errorf("Subscriber called after unsubscribe: %d", calls)
	}
	mu.Unlock()
}

func TestStore_SnapshotIsolation(t *testing.T) {
	st := New()
	id := st.CreateChat()
	st.AppendMessage(id, model.NewUserMessage("jdoe", "hello", nil))

	snap := st.Snapshot()
	snap.Chats[0].Messages[0].Content = "mutated"
	snap.Pending["Ghost"] = time.Now()

	fresh := st.Snapshot()
	if fresh.Chats[0].Messages[0].Content != "hello" {
		t.Error("Snapshot mutation leaked into store")
	}
	if len(fresh.Pending) != 0 {
		t.Error("Snapshot pending mutation leaked into store")
	}
}

func TestStore_ConcurrentDispatches(t *testing.T) {
	st := New()
	id := st.CreateChat()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.AppendMessage(id, model.NewUserMessage("jdoe", "m", nil))
			st.RegisterPending("Orchestrator")
			st.ClearPending("Orchestrator")
		}()
	}
	wg.Wait()

	snap := st.Snapshot()
	if got := snap.ChatByID(id).MessageCount(); got != 20 {
		t.Errorf("MessageCount = %d, want 20", got)
	}
}
