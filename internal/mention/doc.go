// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mention provides the @ mention router for addressing agents.
//
// User text is scanned for @name tokens, matched case-insensitively
// against the current agent roster, and reduced to the single target
// agent a turn is dispatched to. Resolution is a pure function: an
// absent or unknown mention is a normal outcome, never an error.
package mention
