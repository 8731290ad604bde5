// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders chats to shareable files. Markdown is the
// human-facing format; JSON is the faithful machine copy.
package export
