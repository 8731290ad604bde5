// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Chat export command.
//
// Command: export
// Short:   Export a chat to markdown or JSON
//
// Examples:
//   consult export 1                    Export the first chat as markdown
//   consult export 1 --format json      Export as JSON
//   consult export <chat-id> -o ~/notes
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/consult-tui/internal/export"
	"github.com/jeranaias/consult-tui/internal/model"
)

// HandleExport writes one persisted chat to a file.
func HandleExport(args Args) error {
	if args.Subcommand == "" {
		return fmt.Errorf("usage: consult export <chat number or id> [--format md|json] [-o DIR]")
	}

	s, err := NewSession(args)
	if err != nil {
		return err
	}
	defer s.Close()

	chat := findChat(s, args.Subcommand)
	if chat == nil {
		return fmt.Errorf("no chat %q; run the TUI or `consult chat` to see chats", args.Subcommand)
	}
	if chat.IsEmpty() {
		return fmt.Errorf("chat %q has no messages", chat.DisplayTitle())
	}

	opts := export.DefaultOptions()
	if args.OutputDir != "" {
		opts.OutputDir = args.OutputDir
	}

	var exporter export.Exporter
	switch strings.ToLower(args.Format) {
	case "md", "markdown", "":
		exporter = export.NewMarkdownExporter(opts)
	case "json":
		exporter = export.NewJSONExporter()
	default:
		return fmt.Errorf("unknown format %q (md or json)", args.Format)
	}

	path, err := export.ExportToFile(chat, exporter, opts)
	if err != nil {
		return err
	}

	if args.Quiet {
		fmt.Println(path)
		return nil
	}
	fmt.Printf("%s %s\n", successStyle.Render("[Exported]"), path)
	return nil
}

// findChat resolves a chat by 1-based position or by id.
func findChat(s *Session, ref string) *model.Chat {
	state := s.Store.Snapshot()
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(state.Chats) {
			return state.Chats[n-1]
		}
		return nil
	}
	return state.ChatByID(ref)
}
