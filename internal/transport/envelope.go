// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jeranaias/consult-tui/internal/model"
)

// =============================================================================
// OUTBOUND ENVELOPE
// =============================================================================

// OutboundEnvelope is the single frame a turn sends, immediately after the
// channel opens and never before.
type OutboundEnvelope struct {
	Content  string   `json:"content"`
	Sender   string   `json:"sender"`
	Mentions []string `json:"mentions,omitempty"`
}

// =============================================================================
// INBOUND FRAMES
// =============================================================================

// inboundFrame is the raw wire shape of everything the backend sends:
// reply envelopes, the done sentinel {"type":"done"}, and the error
// sentinel {"error":"..."}. Loose fields are kept raw so malformed values
// degrade instead of failing the decode.
type inboundFrame struct {
	Type  string          `json:"type,omitempty"`
	Error json.RawMessage `json:"error,omitempty"`

	ID          string          `json:"id,omitempty"`
	Content     string          `json:"content,omitempty"`
	Sender      string          `json:"sender,omitempty"`
	Timestamp   string          `json:"timestamp,omitempty"`
	IsBot       json.RawMessage `json:"isBot,omitempty"`
	Attachments []string        `json:"attachments,omitempty"`
	Mentions    []string        `json:"mentions,omitempty"`
}

// isDone reports whether the frame is the terminal done sentinel.
func (f *inboundFrame) isDone() bool {
	return f.Type == "done"
}

// errorMessage extracts the error sentinel's text, or "" when the frame
// carries no error.
func (f *inboundFrame) errorMessage() string {
	if len(f.Error) == 0 || string(f.Error) == "null" {
		return ""
	}
	var msg string
	if err := json.Unmarshal(f.Error, &msg); err == nil {
		return msg
	}
	// Non-string error payloads still mean failure.
	return string(f.Error)
}

// isReply reports whether the frame looks like a reply envelope at all.
// Frames with no identity and no content are skipped, mirroring how the
// backend skips empty agent responses.
func (f *inboundFrame) isReply() bool {
	return f.ID != "" || f.Content != "" || f.Sender != ""
}

// toMessage converts a reply frame to a model message: the ISO 8601
// timestamp is reconstituted into a time value and isBot coerced to a
// strict boolean before the message is handed to the caller.
func (f *inboundFrame) toMessage() *model.Message {
	ts, err := time.Parse(time.RFC3339Nano, f.Timestamp)
	if err != nil {
		ts, err = time.Parse(time.RFC3339, f.Timestamp)
	}
	if err != nil {
		ts = time.Time{} // minted on construction
	}

	msg := model.NewAgentMessage(f.ID, f.Sender, f.Content, ts, f.Attachments)
	msg.IsBot = coerceBool(f.IsBot, true)
	msg.Mentions = f.Mentions
	return msg
}

// coerceBool turns the JSON values backends actually emit for booleans
// (true, "true", "True", 1) into a strict bool.
func coerceBool(raw json.RawMessage, fallback bool) bool {
	if len(raw) == 0 {
		return fallback
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.EqualFold(s, "true")
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}

	return fallback
}
