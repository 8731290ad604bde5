// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// archive_cmd.go - Archived chat commands.
//
// Deleted chats are kept in a local SQLite archive with full-text search
// over message content. These commands browse, search, and restore them.
//
// Command: archive
// Short:   Browse and search deleted chats
//
// Examples:
//   consult archive list
//   consult archive search "contrast dose"
//   consult archive restore 7f3a9c12-...
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jeranaias/consult-tui/internal/archive"
	"github.com/jeranaias/consult-tui/internal/config"
	"github.com/jeranaias/consult-tui/internal/store"
	"github.com/jeranaias/consult-tui/internal/util"
)

// HandleArchive dispatches the archive subcommands.
func HandleArchive(args Args) error {
	switch args.Subcommand {
	case "", "list", "ls":
		return archiveList(args)
	case "search":
		return archiveSearch(args)
	case "restore":
		return archiveRestore(args)
	default:
		return fmt.Errorf("unknown archive subcommand %q (list, search, restore)", args.Subcommand)
	}
}

// openArchive opens the configured archive database.
func openArchive(args Args) (*archive.Archive, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	path := cfg.Storage.ArchivePath
	if path == "" {
		path, err = archive.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return archive.Open(path)
}

func archiveList(args Args) error {
	arc, err := openArchive(args)
	if err != nil {
		return err
	}
	defer arc.Close()

	entries, err := arc.List()
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println(infoStyle.Render("[Archive is empty]"))
		return nil
	}

	for i, e := range entries {
		fmt.Printf("  %d. %s\n", i+1, senderStyle.Render(e.Title))
		fmt.Printf("     %s\n", infoStyle.Render(fmt.Sprintf(
			"%s · %d messages · archived %s",
			e.ID, e.MessageCount, e.ArchivedAt.Format(time.RFC822))))
	}
	return nil
}

func archiveSearch(args Args) error {
	query := strings.TrimSpace(strings.Join(args.Raw, " "))
	if query == "" {
		return fmt.Errorf("usage: consult archive search \"words\"")
	}

	arc, err := openArchive(args)
	if err != nil {
		return err
	}
	defer arc.Close()

	results, err := arc.Search(query, 0)
	if err != nil {
		return err
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(results)
	}

	if len(results) == 0 {
		fmt.Println(infoStyle.Render("[No matches]"))
		return nil
	}

	for _, r := range results {
		fmt.Printf("  %s %s\n",
			senderStyle.Render(r.Sender),
			infoStyle.Render("in "+r.ChatTitle+" ("+r.ChatID+")"))
		fmt.Printf("    %s\n", util.TruncateRunes(strings.ReplaceAll(r.Content, "\n", " "), 120))
	}
	return nil
}

func archiveRestore(args Args) error {
	if len(args.Raw) == 0 {
		return fmt.Errorf("usage: consult archive restore <chat-id>")
	}
	chatID := args.Raw[0]

	arc, err := openArchive(args)
	if err != nil {
		return err
	}
	defer arc.Close()

	chat, err := arc.Restore(chatID)
	if err != nil {
		if err == archive.ErrNotFound {
			return fmt.Errorf("no archived chat %q", chatID)
		}
		return err
	}

	// The restored chat joins the live list and is persisted through the
	// normal snapshot path.
	s, err := NewSession(args)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.Store.Snapshot().ChatByID(chat.ID) != nil {
		return fmt.Errorf("chat %q already exists in the live list", chatID)
	}
	s.Store.Dispatch(store.AddChat{Chat: chat})

	if !args.Quiet {
		fmt.Printf("%s %s (%d messages)\n",
			successStyle.Render("[Restored]"),
			chat.DisplayTitle(), chat.MessageCount())
	}
	return nil
}
