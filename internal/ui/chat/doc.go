// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the bubbletea conversation view. The model is a
// thin projection of the store: every mutation goes through store actions,
// and StoreChangedMsg snapshots drive the repaint, so replies streaming in
// on background turns appear without any UI-side state tracking.
package chat
