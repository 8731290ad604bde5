// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// noticeDuration is how long a transient status line stays visible.
const noticeDuration = 5 * time.Second

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshViewport()

	case tea.KeyMsg:
		model, cmd, handled := m.handleKey(msg)
		if handled {
			return model, cmd
		}
		m = model

	case StoreChangedMsg:
		wasWaiting := m.state.Loading
		m.state = msg.State
		m.refreshViewport()

		if m.state.Loading {
			m.spinner.SetAgents(m.state.PendingAgents())
			if !wasWaiting {
				cmds = append(cmds, m.spinner.Start(m.state.PendingAgents()))
			}
		} else {
			m.spinner.Stop()
		}

	case TurnFinishedMsg:
		if !msg.OK {
			m.spinner.Stop()
		}

	case RosterChangedMsg:
		m.statusBar.Agents = msg.Agents

	case NoticeMsg:
		m.statusBar.Notice = msg.Text
		cmds = append(cmds, tea.Tick(noticeDuration, func(time.Time) tea.Msg {
			return clearNoticeMsg{}
		}))

	case clearNoticeMsg:
		m.statusBar.Notice = ""

	default:
		if cmd := m.spinner.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	// Forward remaining input to the focused text field and viewport.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey processes a key press. handled=true means the key was consumed
// and must not reach the text input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keyMap.Submit):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil, true
		}
		if m.state.SelectedChat() == nil {
			id := m.store.CreateChat()
			m.store.SelectChat(id)
		}
		m.input.Reset()
		return m, m.sendTurn(text), true

	case key.Matches(msg, m.keyMap.NewChat):
		id := m.store.CreateChat()
		m.store.SelectChat(id)
		return m, nil, true

	case key.Matches(msg, m.keyMap.DeleteChat):
		if chat := m.state.SelectedChat(); chat != nil {
			m.archiveChat(chat.ID)
			m.store.DeleteChat(chat.ID)
		}
		return m, nil, true

	case key.Matches(msg, m.keyMap.RenameChat):
		// The composer doubles as the title field: type the new title,
		// then ctrl+r applies it.
		chat := m.state.SelectedChat()
		title := strings.TrimSpace(m.input.Value())
		if chat == nil || title == "" {
			return m, notice("type a title in the input, then ctrl+r"), true
		}
		m.store.RenameChat(chat.ID, title)
		m.input.Reset()
		return m, nil, true

	case key.Matches(msg, m.keyMap.ExportChat):
		chat := m.state.SelectedChat()
		if chat == nil || chat.IsEmpty() {
			return m, notice("nothing to export"), true
		}
		return m, m.exportChat(chat.ID), true

	case key.Matches(msg, m.keyMap.NextChat):
		m.selectAdjacent(1)
		return m, nil, true

	case key.Matches(msg, m.keyMap.PrevChat):
		m.selectAdjacent(-1)
		return m, nil, true

	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown),
		key.Matches(msg, m.keyMap.Up), key.Matches(msg, m.keyMap.Down):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true
	}

	return m, nil, false
}

// notice shows a transient status line.
func notice(text string) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text} }
}

// selectAdjacent moves the selection within the chat list.
func (m *Model) selectAdjacent(delta int) {
	chats := m.state.Chats
	if len(chats) == 0 {
		return
	}
	idx := 0
	for i, c := range chats {
		if c.ID == m.state.SelectedID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(chats)) % len(chats)
	m.store.SelectChat(chats[idx].ID)
}

// refreshViewport re-renders the selected chat into the viewport, pinned
// to the bottom so new replies stay visible.
func (m *Model) refreshViewport() {
	chat := m.state.SelectedChat()
	if chat == nil {
		m.viewport.SetContent(m.theme.HeaderMeta.Render("No chat selected. ctrl+n starts one."))
		return
	}

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderer.RenderAll(chat.Messages))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// resize lays the components out for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true
	m.theme.SetSize(width, height)

	sidebarWidth := m.theme.SidebarWidth()
	chatWidth := width - sidebarWidth

	// header(1) + input(3) + status(1)
	bodyHeight := height - 5
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	m.viewport.Width = chatWidth
	m.viewport.Height = bodyHeight
	m.sidebar.SetSize(sidebarWidth, bodyHeight)
	m.statusBar.SetWidth(width)
	m.renderer.SetWidth(chatWidth - 2)
	m.input.Width = width - 6
}
