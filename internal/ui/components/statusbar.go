// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/consult-tui/internal/ui/styles"
	"github.com/jeranaias/consult-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the bottom bar: connection state, roster, shortcuts.
type StatusBar struct {
	theme *styles.Theme
	width int

	// Connected reflects whether a backend URL is configured.
	Connected bool

	// Agents is the current roster, shown so the user knows what @names
	// will route.
	Agents []string

	// Notice is a transient error or info line; empty means none.
	Notice string
}

// NewStatusBar creates the status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{theme: theme}
}

// SetWidth sets the render width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders one status line padded to the full width.
func (s *StatusBar) View() string {
	var left string
	if s.Notice != "" {
		left = s.theme.StatusError.Render(s.Notice)
	} else {
		mode := "offline"
		if s.Connected {
			mode = "online"
		}
		agents := s.theme.StatusAgent.Render(strings.Join(s.Agents, " "))
		left = fmt.Sprintf("%s  %s", mode, agents)
	}

	right := fmt.Sprintf("%s%s  %s%s  %s%s",
		s.theme.ShortcutKey.Render("ctrl+n"), s.theme.ShortcutDesc.Render(" new"),
		s.theme.ShortcutKey.Render("ctrl+d"), s.theme.ShortcutDesc.Render(" delete"),
		s.theme.ShortcutKey.Render("ctrl+c"), s.theme.ShortcutDesc.Render(" quit"),
	)

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		// Narrow terminal: drop the shortcut hints first.
		return s.theme.StatusBar.Width(s.width).Render(util.TruncateWidth(left, s.width-2))
	}

	return s.theme.StatusBar.Width(s.width).
		Render(left + strings.Repeat(" ", gap) + right)
}
