// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "github.com/jeranaias/consult-tui/internal/model"

// =============================================================================
// ACTION SET
// =============================================================================

// Action is one mutation message accepted by the reducer. The set is
// closed: views and coordinators construct actions, only the reducer
// interprets them.
type Action interface {
	isAction()
}

// AddChat appends a freshly created chat to the chat list. It does not
// change the selection.
type AddChat struct {
	Chat *model.Chat
}

// SelectChat sets the current selection. Unknown ids are a no-op.
type SelectChat struct {
	ID string
}

// DeleteChat removes a chat. If it was selected, selection moves to the
// first remaining chat, or to none when the list is empty.
type DeleteChat struct {
	ID string
}

// RenameChat sets a chat's display title. Unknown ids are a no-op.
type RenameChat struct {
	ID    string
	Title string
}

// AppendMessage appends a message to the end of a chat's sequence.
// Messages for unknown chats are silently dropped.
type AppendMessage struct {
	ChatID  string
	Message *model.Message
}

// RegisterPending records that an agent owes a reply. Re-registering the
// same agent replaces the entry; the ledger holds at most one entry per
// agent name.
type RegisterPending struct {
	Agent string
}

// ClearPending removes one agent's ledger entry.
type ClearPending struct {
	Agent string
}

// ClearAllPending empties the ledger.
type ClearAllPending struct{}

// SetLoading toggles the loading flag. Clearing it also clears the whole
// pending ledger: loading end means no agent is still owed.
type SetLoading struct {
	Loading bool
}

// Hydrate installs a persisted chat list at startup, replacing whatever
// the store holds. Selection, loading, and pending state are reset; they
// are session state and are never persisted.
type Hydrate struct {
	Chats []*model.Chat
}

func (AddChat) isAction()         {}
func (SelectChat) isAction()      {}
func (DeleteChat) isAction()      {}
func (RenameChat) isAction()      {}
func (AppendMessage) isAction()   {}
func (RegisterPending) isAction() {}
func (ClearPending) isAction()    {}
func (ClearAllPending) isAction() {}
func (SetLoading) isAction()      {}
func (Hydrate) isAction()         {}
