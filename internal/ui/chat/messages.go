// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/consult-tui/internal/store"
)

// =============================================================================
// BUBBLE TEA MESSAGES
// =============================================================================

// StoreChangedMsg delivers a fresh state snapshot. The store subscription
// feeds these in via program.Send, so replies arriving on a background
// stream repaint the UI immediately.
type StoreChangedMsg struct {
	State store.State
}

// TurnFinishedMsg signals that a dispatched turn has fully resolved.
type TurnFinishedMsg struct {
	OK bool
}

// RosterChangedMsg delivers a new agent roster for the status bar.
type RosterChangedMsg struct {
	Agents []string
}

// NoticeMsg shows a transient line in the status bar.
type NoticeMsg struct {
	Text string
}

// clearNoticeMsg removes the transient status line.
type clearNoticeMsg struct{}
