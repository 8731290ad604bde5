// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// agents_cmd.go - Agent roster command.
//
// Command: agents
// Short:   List the current agent roster
//
// Examples:
//   consult agents
//   consult agents --json | jq -r '.[]'
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jeranaias/consult-tui/internal/mention"
)

// HandleAgents fetches and prints the roster. Falls back to the configured
// roster when the backend is unreachable.
func HandleAgents(args Args) error {
	s, err := NewSession(args)
	if err != nil {
		return err
	}
	defer s.Close()

	s.RefreshRoster()
	names := s.Roster.Current().Names()

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(names)
	}

	for _, name := range names {
		if name == mention.DefaultAgent {
			fmt.Printf("  @%s %s\n",
				senderStyle.Render(name),
				infoStyle.Render("(default)"))
			continue
		}
		fmt.Printf("  @%s\n", senderStyle.Render(name))
	}
	return nil
}
