// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat holds one conversation thread with its ordered message sequence.
// Message order is insertion order and is never rearranged.
type Chat struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`

	// Messages, oldest first
	Messages []*Message `json:"messages"`
}

// NewChat creates an empty chat with a generated ID.
func NewChat() *Chat {
	return &Chat{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// CHAT METHODS
// =============================================================================

// Append adds a message to the end of the sequence.
func (c *Chat) Append(msg *Message) {
	c.Messages = append(c.Messages, msg)
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Chat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageCount returns the number of messages.
func (c *Chat) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Chat) IsEmpty() bool {
	return len(c.Messages) == 0
}

// DisplayTitle returns the user-set title, an auto-title derived from the
// first user message, or a default for empty chats.
func (c *Chat) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	for _, msg := range c.Messages {
		if !msg.IsBot && msg.Content != "" {
			return msg.Preview(50)
		}
	}
	return "New Chat"
}

// Preview returns a short preview of the latest activity in the chat.
func (c *Chat) Preview() string {
	last := c.LastMessage()
	if last == nil {
		return "Empty chat"
	}
	return last.Preview(80)
}

// Clone creates a deep copy of the chat. The store hands clones to
// subscribers so readers never alias live state.
func (c *Chat) Clone() *Chat {
	clone := &Chat{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		Messages:  make([]*Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return clone
}
