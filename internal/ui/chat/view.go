// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/consult-tui/internal/ui/styles"
)

// View renders the full chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting consult..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	body := m.viewport.View()
	if m.theme.GetLayoutMode() == styles.LayoutNormal {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.sidebar.View(m.state.Chats, m.state.SelectedID),
			m.viewport.View(),
		)
	}
	b.WriteString(body)
	b.WriteString("\n")

	b.WriteString(m.renderInput())
	b.WriteString("\n")

	b.WriteString(m.statusBar.View())

	return b.String()
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("consult")
	meta := ""
	if chat := m.state.SelectedChat(); chat != nil {
		meta = m.theme.HeaderMeta.Render(
			fmt.Sprintf("%s · %d messages", chat.DisplayTitle(), chat.MessageCount()))
	}
	return m.theme.Header.Width(m.width).Render(title + "  " + meta)
}

func (m Model) renderInput() string {
	line := m.input.View()
	if m.spinner.Active() {
		line = m.spinner.View()
	}
	return m.theme.InputContainer.Width(m.width).Render(line)
}
