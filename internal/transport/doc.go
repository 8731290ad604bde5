// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport speaks the per-turn streaming protocol with the agent
// backend.
//
// Each user turn opens one WebSocket, sends a single outbound envelope,
// and relays inbound reply envelopes to a callback until the backend's
// terminal sentinel. Degenerate outcomes (no capability, connection
// failure, mid-stream error, zero replies) are converted into synthesized
// system messages so the caller always observes at least one message per
// turn and never sees an unresolved turn.
package transport
