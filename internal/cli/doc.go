// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for
// consult.
//
// The default invocation starts the TUI; subcommands cover scriptable
// workflows: one-shot questions (ask), a readline REPL (chat), roster
// listing (agents), chat export, the deleted-chat archive, and config
// management.
//
// # Usage
//
// Parse and dispatch commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    return cli.HandleAsk(args)
//	case cli.CmdChat:
//	    return cli.HandleChat(args)
//	// ... other commands
//	}
//
// All list-producing commands support --json for machine-readable output.
package cli
