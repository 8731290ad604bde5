// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package archive keeps a permanent, searchable SQLite copy of deleted
// chats. The live session persists only active conversations; when a chat
// is deleted it moves here, where it can be listed, full-text searched,
// and restored.
package archive
