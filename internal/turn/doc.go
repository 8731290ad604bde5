// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package turn sequences one user turn end to end: mention routing,
// optimistic local echo, pending-ledger bookkeeping, transport dispatch,
// and reply handling.
//
// Replies are always appended to the chat that originated the turn, even
// when the user has since selected a different chat, and every path
// through a turn ends with the loading flag cleared.
package turn
