// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command.
//
// Command: ask
// Short:   Send a single message and print the replies
//
// Examples:
//   consult ask "@Radiology anything acute on this film?"
//   consult ask --user jdoe@example.com "what changed overnight?"
//   consult ask --json "status?" | jq .
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/consult-tui/internal/mention"
	"github.com/jeranaias/consult-tui/internal/model"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display, falling back to
// the raw content if rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAsk runs one turn in a throwaway chat and prints the replies.
func HandleAsk(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fmt.Errorf("usage: consult ask \"question\"")
	}

	s, err := NewSession(args)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.Cfg.DisplayName() == "" {
		return fmt.Errorf("no identity configured; set user_email in config or pass --user")
	}

	s.RefreshRoster()

	// A one-shot question lives in its own chat, so it persists like any
	// other conversation.
	id := s.Store.CreateChat()
	s.Store.SelectChat(id)

	if !args.Quiet && !args.JSON {
		target := targetLabel(query, s)
		fmt.Fprintln(os.Stderr, infoStyle.Render("asking "+target+"..."))
	}

	if ok := s.Coordinator.Send(context.Background(), query); !ok {
		return fmt.Errorf("the turn was abandoned; check configuration")
	}

	chat := s.Store.Snapshot().ChatByID(id)
	if chat == nil {
		return fmt.Errorf("chat disappeared during the turn")
	}

	replies := make([]*model.Message, 0, chat.MessageCount())
	for _, msg := range chat.Messages {
		if msg.IsBot {
			replies = append(replies, msg)
		}
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(replies)
	}

	for _, msg := range replies {
		printReply(msg)
	}
	return nil
}

// targetLabel names the agent the query will route to, for the status line.
func targetLabel(query string, s *Session) string {
	_, target := mention.Resolve(query, s.Roster.Current())
	return target.Agent
}

// printReply writes one reply, markdown-rendered when stdout is a TTY.
func printReply(msg *model.Message) {
	fmt.Println(senderStyle.Render(msg.DisplayName() + ":"))
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(msg.Content))
	} else {
		fmt.Println(msg.Content)
	}
	fmt.Println()
}
