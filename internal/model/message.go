// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single contribution to a chat thread.
// Messages are immutable once appended to a chat.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Sender is the display name of the author: the user's name for
	// outbound messages, an agent name for replies, "System" for
	// synthesized notices.
	Sender string `json:"sender"`

	// IsBot distinguishes agent output from user input.
	IsBot bool `json:"isBot"`

	// Attachments holds opaque attachment references from the backend.
	Attachments []string `json:"attachments,omitempty"`

	// Mentions lists the resolved agent names carried by a user message.
	// Only present on user messages that contained a valid mention.
	Mentions []string `json:"mentions,omitempty"`
}

// SystemSender is the sender name used for synthesized notices.
const SystemSender = "System"

// NewUserMessage creates a message authored by the user.
func NewUserMessage(sender, content string, mentions []string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    sender,
		Timestamp: time.Now(),
		IsBot:     false,
		Mentions:  mentions,
	}
}

// NewAgentMessage creates a message attributed to an agent. The id and
// timestamp come from the backend envelope; a missing id is minted locally
// so every stored message stays addressable.
func NewAgentMessage(id, sender, content string, timestamp time.Time, attachments []string) *Message {
	if id == "" {
		id = uuid.NewString()
	}
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	return &Message{
		ID:          id,
		Content:     content,
		Sender:      sender,
		Timestamp:   timestamp,
		IsBot:       true,
		Attachments: attachments,
	}
}

// NewSystemMessage creates a bot-attributed synthesized notice. Failures
// surface as ordinary messages so the presentation layer stays
// error-type-agnostic.
func NewSystemMessage(content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    SystemSender,
		Timestamp: time.Now(),
		IsBot:     true,
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated single-line preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	content := strings.ReplaceAll(m.Content, "\n", " ")
	content = strings.ReplaceAll(content, "\r", "")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// DisplayName returns the label to show for the sender.
func (m *Message) DisplayName() string {
	if m.Sender != "" {
		return m.Sender
	}
	if m.IsBot {
		return "Agent"
	}
	return "You"
}
