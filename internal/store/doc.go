// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the authoritative in-memory conversation state.
//
// State is mutated exclusively through a closed set of actions applied by
// a pure reducer, with a Store wrapper providing locking and change
// notification. Every action is a total function over the current state:
// unknown chat ids degrade to no-ops rather than errors, because the store
// cannot distinguish a stale UI reference from a race during deletion.
package store
