// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jeranaias/consult-tui/internal/config"
	"github.com/jeranaias/consult-tui/internal/persist"
	"github.com/jeranaias/consult-tui/internal/roster"
	"github.com/jeranaias/consult-tui/internal/store"
	"github.com/jeranaias/consult-tui/internal/transport"
	"github.com/jeranaias/consult-tui/internal/turn"
)

// =============================================================================
// SESSION WIRING
// =============================================================================

// Session bundles the full conversation engine: config, store, persistence,
// roster, and the turn coordinator. The TUI and the plain CLI commands all
// run on the same wiring.
type Session struct {
	Cfg         *config.Config
	Store       *store.Store
	Adapter     *persist.Adapter
	Roster      *roster.Service
	Coordinator *turn.Coordinator

	unsubscribe func()
}

// NewSession loads config, hydrates persisted chats, and wires the engine.
func NewSession(args Args) (*Session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if args.Server != "" {
		cfg.ServerURL = args.Server
	}
	if args.User != "" {
		cfg.UserEmail = args.User
	}

	st := store.New()

	snapshotPath := cfg.Storage.SnapshotPath
	if snapshotPath == "" {
		snapshotPath, err = persist.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	adapter := persist.NewAdapterWithDebounce(snapshotPath, cfg.Debounce())
	if chats, ok := adapter.Load(); ok {
		st.Hydrate(chats)
	}

	rosterSvc := roster.NewService(cfg.ServerURL, cfg.Roster.Fallback)
	if cfg.Roster.OverrideFile != "" {
		if err := rosterSvc.WatchOverride(cfg.Roster.OverrideFile); err != nil {
			fmt.Fprintf(os.Stderr, "consult: roster override: %v\n", err)
		}
	}

	client := transport.NewClient(cfg.ServerURL)
	client.SetTurnTimeout(cfg.TurnTimeout())

	coord := turn.New(st, client, rosterSvc, cfg.DisplayName())

	s := &Session{
		Cfg:         cfg,
		Store:       st,
		Adapter:     adapter,
		Roster:      rosterSvc,
		Coordinator: coord,
	}

	// Every state change schedules a debounced snapshot write.
	s.unsubscribe = st.Subscribe(func(state store.State) {
		adapter.Save(state.Chats)
	})

	return s, nil
}

// RefreshRoster fetches the roster once, bounded by a short timeout so
// startup never hangs on a dead backend.
func (s *Session) RefreshRoster() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.Roster.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "consult: roster fetch: %v\n", err)
	}
}

// Close flushes pending writes and stops background work.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.Adapter.Flush()
	s.Roster.Close()
}
