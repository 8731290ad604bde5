// consult - a terminal client for multi-agent consultations.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/consult-tui/internal/archive"
	"github.com/jeranaias/consult-tui/internal/cli"
	"github.com/jeranaias/consult-tui/internal/mention"
	"github.com/jeranaias/consult-tui/internal/store"
	"github.com/jeranaias/consult-tui/internal/ui/chat"
	"github.com/jeranaias/consult-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async sends into the running TUI
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdAgents:
		err = cli.HandleAgents(args)
	case cli.CmdExport:
		err = cli.HandleExport(args)
	case cli.CmdArchive:
		err = cli.HandleArchive(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		err = runTUI(args)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "consult: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) error {
	s, err := cli.NewSession(args)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.Cfg.DisplayName() == "" {
		return fmt.Errorf("no identity configured; set user_email in config or pass --user")
	}

	theme := styles.NewTheme(s.Cfg.UI.Theme)

	m := chat.New(theme, s.Store, s.Coordinator)
	m.SetShowTimestamps(s.Cfg.UI.ShowTimestamps)
	m.SetConnected(s.Cfg.ServerURL != "")

	// Deleted chats go to the local archive before leaving the store.
	arcPath := s.Cfg.Storage.ArchivePath
	if arcPath == "" {
		arcPath, err = archive.DefaultPath()
		if err != nil {
			return err
		}
	}
	arc, err := archive.Open(arcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "consult: archive: %v\n", err)
	} else {
		m.SetArchive(arc)
		defer arc.Close()
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	// Engine state flows into the view through the program, never directly:
	// the store notifies from whatever goroutine dispatched, the program
	// serializes delivery into Update.
	unsubscribe := s.Store.Subscribe(func(state store.State) {
		sendToProgram(chat.StoreChangedMsg{State: state})
	})
	defer unsubscribe()

	s.Roster.OnChange = func(r *mention.Roster) {
		sendToProgram(chat.RosterChangedMsg{Agents: r.Names()})
	}

	// Initial roster fetch happens off the startup path so a dead backend
	// never blocks the first paint.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Roster.Refresh(ctx); err != nil {
			sendToProgram(chat.NoticeMsg{Text: "backend unreachable, using cached roster"})
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}
