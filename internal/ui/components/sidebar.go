// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/consult-tui/internal/model"
	"github.com/jeranaias/consult-tui/internal/ui/styles"
	"github.com/jeranaias/consult-tui/internal/util"
)

// =============================================================================
// CHAT LIST SIDEBAR
// =============================================================================

// Sidebar renders the chat list column.
type Sidebar struct {
	theme  *styles.Theme
	width  int
	height int
}

// NewSidebar creates the chat list sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	return &Sidebar{theme: theme}
}

// SetSize sets the sidebar dimensions.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// View renders the chat list with the selected chat marked.
func (s *Sidebar) View(chats []*model.Chat, selectedID string) string {
	if s.width <= 0 {
		return ""
	}
	inner := s.width - 3 // border + padding
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	b.WriteString(s.theme.SidebarTitle.Render("Chats"))
	b.WriteString("\n\n")

	if len(chats) == 0 {
		b.WriteString(s.theme.SidebarPreview.Render("ctrl+n to start"))
	}

	for i, chat := range chats {
		title := util.TruncateWidth(chat.DisplayTitle(), inner-3)
		line := fmt.Sprintf("%d. %s", i+1, title)
		if chat.ID == selectedID {
			b.WriteString(s.theme.SidebarItemSelected.Render("> " + line))
		} else {
			b.WriteString(s.theme.SidebarItem.Render("  " + line))
		}
		b.WriteString("\n")

		if last := chat.LastMessage(); last != nil {
			preview := util.TruncateWidth(last.Preview(80), inner-3)
			b.WriteString(s.theme.SidebarPreview.Render("   " + preview))
			b.WriteString("\n")
		}
	}

	return s.theme.Sidebar.
		Width(s.width - 1).
		Height(s.height).
		Render(b.String())
}
