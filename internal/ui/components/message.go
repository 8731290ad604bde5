// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/consult-tui/internal/model"
	"github.com/jeranaias/consult-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// mentionPattern matches @-tokens for display highlighting. Looser than the
// routing pattern on purpose: anything the user typed as a mention is
// highlighted, valid agent or not.
var mentionPattern = regexp.MustCompile(`@\w+`)

// MessageRenderer renders chat messages for the viewport.
type MessageRenderer struct {
	theme    *styles.Theme
	width    int
	markdown *glamour.TermRenderer

	// ShowTimestamps adds a time column to each message header.
	ShowTimestamps bool
}

// NewMessageRenderer creates a renderer for the given theme and width.
func NewMessageRenderer(theme *styles.Theme, width int) *MessageRenderer {
	r := &MessageRenderer{theme: theme, width: width}
	r.initMarkdown()
	return r
}

func (r *MessageRenderer) initMarkdown() {
	wrap := r.width - 4
	if wrap < 20 {
		wrap = 20
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		// Agent output falls back to plain text.
		r.markdown = nil
		return
	}
	r.markdown = md
}

// SetWidth updates the wrap width, rebuilding the markdown renderer.
func (r *MessageRenderer) SetWidth(width int) {
	if width == r.width {
		return
	}
	r.width = width
	r.initMarkdown()
}

// Render returns the full styled rendering of one message.
func (r *MessageRenderer) Render(msg *model.Message) string {
	header := r.renderHeader(msg)
	body := r.renderBody(msg)

	bubble := r.bubbleStyle(msg)
	return header + "\n" + bubble.Width(r.contentWidth()).Render(body)
}

// RenderAll renders a message list separated by blank lines.
func (r *MessageRenderer) RenderAll(msgs []*model.Message) string {
	parts := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		parts = append(parts, r.Render(msg))
	}
	return strings.Join(parts, "\n\n")
}

func (r *MessageRenderer) contentWidth() int {
	w := r.width - 2
	if w < 20 {
		w = 20
	}
	return w
}

func (r *MessageRenderer) bubbleStyle(msg *model.Message) lipgloss.Style {
	switch {
	case msg.Sender == model.SystemSender:
		return r.theme.SystemBubble
	case msg.IsBot:
		return r.theme.AgentBubble
	default:
		return r.theme.UserBubble
	}
}

func (r *MessageRenderer) renderHeader(msg *model.Message) string {
	var sender string
	switch {
	case msg.Sender == model.SystemSender:
		sender = r.theme.SenderSystem.Render(msg.DisplayName())
	case msg.IsBot:
		sender = r.theme.SenderAgent.Render(msg.DisplayName())
	default:
		sender = r.theme.SenderUser.Render(msg.DisplayName())
	}

	if !r.ShowTimestamps {
		return sender
	}
	ts := r.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	return fmt.Sprintf("%s %s", sender, ts)
}

func (r *MessageRenderer) renderBody(msg *model.Message) string {
	content := strings.TrimRight(msg.Content, "\n")

	// Agent output is markdown; user text is shown as typed, with
	// mentions highlighted.
	if msg.IsBot && msg.Sender != model.SystemSender && r.markdown != nil {
		if rendered, err := r.markdown.Render(content); err == nil {
			return strings.TrimRight(rendered, "\n")
		}
	}
	if !msg.IsBot {
		content = r.highlightMentions(content)
	}
	return content
}

// highlightMentions styles @-tokens in user text.
func (r *MessageRenderer) highlightMentions(content string) string {
	return mentionPattern.ReplaceAllStringFunc(content, func(tok string) string {
		return r.theme.Mention.Render(tok)
	})
}
