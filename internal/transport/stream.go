// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jeranaias/consult-tui/internal/model"
)

// =============================================================================
// STREAM STATES
// =============================================================================

// StreamState tracks where a turn's channel is in its lifecycle.
type StreamState int

const (
	StateIdle StreamState = iota
	StateConnecting
	StateOpen
	StateReceiving
	StateClosedSuccess
	StateClosedFailure
)

// String returns the state name for logs and tests.
func (s StreamState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReceiving:
		return "receiving"
	case StateClosedSuccess:
		return "closed(success)"
	case StateClosedFailure:
		return "closed(failure)"
	default:
		return "unknown"
	}
}

// Closed reports whether the state is terminal.
func (s StreamState) Closed() bool {
	return s == StateClosedSuccess || s == StateClosedFailure
}

// =============================================================================
// SYNTHESIZED MESSAGES
// =============================================================================

// Text of the synthesized system messages. Failures reach the user as
// ordinary bot-attributed messages, never as a distinct error surface.
const (
	msgNoResponse      = "No response was received. Please try again."
	msgServerFailure   = "Communication with the server failed. Please try again later."
	msgNoCapabilityFmt = "Streaming is not available: %s. Check the server address in your configuration."
)

// =============================================================================
// CLIENT
// =============================================================================

// DefaultTurnTimeout bounds a turn's total wall-clock wait. The backend
// has no server-side turn limit, so an unresponsive agent would otherwise
// leave the channel open forever.
const DefaultTurnTimeout = 120 * time.Second

// MessageFunc receives each forwarded message in arrival order: reply
// envelopes first, then at most one synthesized system message for
// degenerate outcomes.
type MessageFunc func(msg *model.Message)

// Result is the terminal outcome of one turn. Err is informational (for
// logging); the user-visible consequence has already been delivered as a
// synthesized message by the time SendTurn returns.
type Result struct {
	State   StreamState
	Replies int
	Err     error
}

// Client opens one streaming channel per user turn against the backend.
type Client struct {
	baseURL     string
	dialer      *websocket.Dialer
	turnTimeout time.Duration

	// StateHook, when set, observes every state transition. Used by the
	// UI for status display and by tests.
	StateHook func(StreamState)
}

// NewClient creates a transport client for the given base URL
// (http(s):// or ws(s)://).
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		dialer:      websocket.DefaultDialer,
		turnTimeout: DefaultTurnTimeout,
	}
}

// SetTurnTimeout overrides the per-turn bound. Zero disables it.
func (c *Client) SetTurnTimeout(d time.Duration) {
	c.turnTimeout = d
}

// =============================================================================
// TURN EXECUTION
// =============================================================================

// SendTurn runs one full turn: dial, send the outbound envelope, forward
// replies until a terminal sentinel, and synthesize fallback messages for
// degenerate outcomes. It never returns before delivering at least one
// message to onMessage, and it never panics or blocks past the turn
// timeout. Reply envelopes are forwarded in the order received.
func (c *Client) SendTurn(ctx context.Context, chatID string, env OutboundEnvelope, onMessage MessageFunc) Result {
	state := StateIdle
	setState := func(next StreamState) {
		state = next
		if c.StateHook != nil {
			c.StateHook(next)
		}
	}

	// Capability guard: no dial is attempted when the runtime has no
	// usable streaming endpoint.
	wsURL, err := c.streamURL(chatID)
	if err != nil {
		setState(StateClosedFailure)
		onMessage(model.NewSystemMessage(fmt.Sprintf(msgNoCapabilityFmt, err)))
		return Result{State: state, Err: err}
	}

	if c.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.turnTimeout)
		defer cancel()
	}

	setState(StateConnecting)
	conn, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		setState(StateClosedFailure)
		onMessage(model.NewSystemMessage(msgServerFailure))
		return Result{State: state, Err: fmt.Errorf("dial %s: %w", wsURL, err)}
	}
	defer conn.Close()

	// Unblock the read loop when the context (or turn timeout) ends.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	// The single outbound envelope goes out immediately upon open.
	setState(StateOpen)
	if err := conn.WriteJSON(env); err != nil {
		setState(StateClosedFailure)
		onMessage(model.NewSystemMessage(msgServerFailure))
		return Result{State: state, Err: fmt.Errorf("send envelope: %w", err)}
	}

	replies := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Ambient failure: network drop, timeout, or abrupt close
			// before the done sentinel.
			setState(StateClosedFailure)
			onMessage(model.NewSystemMessage(msgServerFailure))
			if ctx.Err() != nil {
				err = fmt.Errorf("turn aborted: %w", ctx.Err())
			}
			return Result{State: state, Replies: replies, Err: err}
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			// Skip malformed frames rather than killing the turn.
			continue
		}

		if errMsg := frame.errorMessage(); errMsg != "" {
			setState(StateClosedFailure)
			onMessage(model.NewSystemMessage(msgServerFailure))
			return Result{State: state, Replies: replies, Err: fmt.Errorf("server error: %s", errMsg)}
		}

		if frame.isDone() {
			setState(StateClosedSuccess)
			if replies == 0 {
				// Zero-message fallback: the caller must observe at
				// least one message per turn.
				onMessage(model.NewSystemMessage(msgNoResponse))
			}
			return Result{State: state, Replies: replies}
		}

		if !frame.isReply() {
			continue
		}

		setState(StateReceiving)
		replies++
		onMessage(frame.toMessage())
	}
}

// =============================================================================
// URL HANDLING
// =============================================================================

// streamURL converts the configured base URL into the per-chat WebSocket
// endpoint. An empty or non-streamable base URL is the capability-absent
// case.
func (c *Client) streamURL(chatID string) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("no server address configured")
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server address %q", c.baseURL)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("server address %q does not support streaming", c.baseURL)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/api/ws/chats/" + url.PathEscape(chatID) + "/messages"
	return u.String(), nil
}
