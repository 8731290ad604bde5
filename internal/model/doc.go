// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats and messages.
//
// A Chat is one persisted conversation thread between the user and the
// agent roster. A Message is one immutable contribution to a Chat, from
// either side. The types here carry no behavior beyond construction and
// display helpers; all mutation goes through the store package.
package model
