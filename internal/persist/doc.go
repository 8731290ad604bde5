// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package persist saves and restores the durable subset of conversation
// state: the chat list, as a single JSON snapshot on disk.
//
// Persistence is best-effort and never load-bearing for correctness
// within a session. Writes are debounced so bursts of mutations collapse
// into one atomic write; a corrupt or missing snapshot simply yields an
// empty initial state at startup.
package persist
