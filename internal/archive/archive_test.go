// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package archive

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/consult-tui/internal/model"
)

func testArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func sampleChat() *model.Chat {
	chat := model.NewChat()
	chat.Append(model.NewUserMessage("jdoe", "@Radiology anything acute on the chest film?", []string{"Radiology"}))
	chat.Append(model.NewAgentMessage("", "Radiology", "No acute cardiopulmonary findings.", time.Now(), nil))
	return chat
}

// =============================================================================
// ARCHIVE AND RESTORE
// =============================================================================

func TestArchiveAndRestore(t *testing.T) {
	a := testArchive(t)
	chat := sampleChat()

	if err := a.ArchiveChat(chat); err != nil {
		t.Fatalf("ArchiveChat: %v", err)
	}

	got, err := a.Restore(chat.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if got.ID != chat.ID {
		t.Errorf("ID = %q, want %q", got.ID, chat.ID)
	}
	if got.MessageCount() != 2 {
		t.Fatalf("MessageCount = %d, want 2", got.MessageCount())
	}
	if got.Messages[0].Sender != "jdoe" || got.Messages[0].IsBot {
		t.Errorf("first message = %+v, want the user echo", got.Messages[0])
	}
	if len(got.Messages[0].Mentions) != 1 || got.Messages[0].Mentions[0] != "Radiology" {
		t.Errorf("Mentions = %v, want [Radiology]", got.Messages[0].Mentions)
	}
	if !got.Messages[1].IsBot {
		t.Error("agent reply must keep IsBot")
	}
	if got.Messages[1].Mentions != nil {
		t.Errorf("agent reply Mentions = %v, want nil", got.Messages[1].Mentions)
	}
}

func TestRestoreUnknownChat(t *testing.T) {
	a := testArchive(t)
	if _, err := a.Restore("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRearchiveReplacesEarlierCopy(t *testing.T) {
	a := testArchive(t)
	chat := sampleChat()

	if err := a.ArchiveChat(chat); err != nil {
		t.Fatal(err)
	}
	chat.Append(model.NewSystemMessage("No response was received. Please try again."))
	if err := a.ArchiveChat(chat); err != nil {
		t.Fatal(err)
	}

	entries, err := a.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1 after re-archive", len(entries))
	}
	if entries[0].MessageCount != 3 {
		t.Errorf("MessageCount = %d, want 3", entries[0].MessageCount)
	}
}

func TestListOrdersByArchiveTime(t *testing.T) {
	a := testArchive(t)

	first := sampleChat()
	second := sampleChat()
	if err := a.ArchiveChat(first); err != nil {
		t.Fatal(err)
	}
	if err := a.ArchiveChat(second); err != nil {
		t.Fatal(err)
	}

	entries, err := a.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	for _, e := range entries {
		if e.Title == "" {
			t.Error("archived entry must carry a display title")
		}
	}
}

// =============================================================================
// SEARCH
// =============================================================================

func TestSearchFindsMessageContent(t *testing.T) {
	a := testArchive(t)
	chat := sampleChat()
	if err := a.ArchiveChat(chat); err != nil {
		t.Fatal(err)
	}

	results, err := a.Search("cardiopulmonary", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	if results[0].ChatID != chat.ID {
		t.Errorf("ChatID = %q, want %q", results[0].ChatID, chat.ID)
	}
	if results[0].Sender != "Radiology" {
		t.Errorf("Sender = %q, want Radiology", results[0].Sender)
	}
}

func TestSearchNoMatches(t *testing.T) {
	a := testArchive(t)
	if err := a.ArchiveChat(sampleChat()); err != nil {
		t.Fatal(err)
	}

	results, err := a.Search("neurosurgery", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %d, want 0", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	a := testArchive(t)
	results, err := a.Search("   ", 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results != nil {
		t.Errorf("results = %v, want nil for an empty query", results)
	}
}

func TestSearchQuoteInjection(t *testing.T) {
	a := testArchive(t)
	if err := a.ArchiveChat(sampleChat()); err != nil {
		t.Fatal(err)
	}

	// FTS operators in user text must be treated as terms, not syntax.
	if _, err := a.Search(`acute" OR "findings`, 0); err != nil {
		t.Errorf("Search with embedded quotes: %v", err)
	}
}

// =============================================================================
// LIFECYCLE
// =============================================================================

func TestClosedArchiveRejectsCalls(t *testing.T) {
	a := testArchive(t)
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}

	if err := a.ArchiveChat(sampleChat()); !errors.Is(err, ErrClosed) {
		t.Errorf("ArchiveChat err = %v, want ErrClosed", err)
	}
	if _, err := a.List(); !errors.Is(err, ErrClosed) {
		t.Errorf("List err = %v, want ErrClosed", err)
	}
}
