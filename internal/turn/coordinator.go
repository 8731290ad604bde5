// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package turn

import (
	"context"
	"strings"

	"github.com/jeranaias/consult-tui/internal/mention"
	"github.com/jeranaias/consult-tui/internal/model"
	"github.com/jeranaias/consult-tui/internal/store"
	"github.com/jeranaias/consult-tui/internal/transport"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Transport runs one streaming turn. Satisfied by *transport.Client.
type Transport interface {
	SendTurn(ctx context.Context, chatID string, env transport.OutboundEnvelope, onMessage transport.MessageFunc) transport.Result
}

// RosterSource supplies the latest known agent roster. Satisfied by
// *roster.Service. The coordinator re-reads it on every turn so a
// mid-session re-fetch takes effect immediately.
type RosterSource interface {
	Current() *mention.Roster
}

// =============================================================================
// COORDINATOR
// =============================================================================

// Coordinator orchestrates user turns against one store and transport.
type Coordinator struct {
	store     *store.Store
	transport Transport
	roster    RosterSource
	userName  string
}

// New creates a coordinator. userName is the resolved user identity's
// display name; while it is empty every turn is abandoned.
func New(st *store.Store, tr Transport, rs RosterSource, userName string) *Coordinator {
	return &Coordinator{
		store:     st,
		transport: tr,
		roster:    rs,
		userName:  userName,
	}
}

// SetUser installs the resolved identity once authentication completes.
func (c *Coordinator) SetUser(name string) {
	c.userName = name
}

// =============================================================================
// TURN EXECUTION
// =============================================================================

// Send runs one user turn and blocks until its terminal resolution; the
// UI runs it on a goroutine and observes progress through store
// subscriptions. It returns false when a precondition failed and the turn
// was abandoned with no mutation.
//
// A turn has no cancellation primitive: the stream runs to its natural
// end (done, error, or timeout) even if the user navigates away, and
// replies land in the originating chat regardless of current selection.
func (c *Coordinator) Send(ctx context.Context, text string) bool {
	// Preconditions: selected chat, non-empty text, known identity.
	text = strings.TrimSpace(text)
	if text == "" || c.userName == "" {
		return false
	}
	chatID := c.store.Snapshot().SelectedID
	if chatID == "" {
		return false
	}

	mentions, target := mention.Resolve(text, c.roster.Current())

	// Optimistic local echo. The user's own utterance is not in doubt,
	// so it is never rolled back even when the transport fails.
	c.store.AppendMessage(chatID, model.NewUserMessage(c.userName, text, mentions))
	c.store.SetLoading(true)
	c.store.RegisterPending(target.Agent)

	env := transport.OutboundEnvelope{
		Content:  text,
		Sender:   c.userName,
		Mentions: mentions,
	}

	c.transport.SendTurn(ctx, chatID, env, func(msg *model.Message) {
		c.store.AppendMessage(chatID, msg)
		c.clearPendingFor(msg, target)
	})

	// Terminal resolution, success or failure: loading ends, which also
	// clears any pending entry this turn left behind.
	c.store.SetLoading(false)
	return true
}

// clearPendingFor clears the ledger entry a reply settles. The entry is
// matched against the reply's sender, so a delegated agent's reply racing
// in from another turn cannot prematurely clear this turn's target; a
// synthesized system notice settles the dispatched target directly since
// no real reply is coming.
func (c *Coordinator) clearPendingFor(msg *model.Message, target mention.Target) {
	if msg.Sender == model.SystemSender {
		c.store.ClearPending(target.Agent)
		return
	}
	if strings.EqualFold(msg.Sender, target.Agent) {
		c.store.ClearPending(target.Agent)
		return
	}
	c.store.ClearPending(msg.Sender)
}
