// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/consult-tui/internal/archive"
	"github.com/jeranaias/consult-tui/internal/export"
	"github.com/jeranaias/consult-tui/internal/store"
	"github.com/jeranaias/consult-tui/internal/turn"
	"github.com/jeranaias/consult-tui/internal/ui/components"
	"github.com/jeranaias/consult-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the root bubbletea model for the conversation UI. All state
// changes flow through the store; the model holds only view concerns.
type Model struct {
	theme       *styles.Theme
	store       *store.Store
	coordinator *turn.Coordinator
	archive     *archive.Archive // optional; nil disables delete archiving

	// Components
	viewport  viewport.Model
	input     textinput.Model
	spinner   components.WaitSpinner
	sidebar   *components.Sidebar
	statusBar *components.StatusBar
	renderer  *components.MessageRenderer
	keyMap    KeyMap

	// Latest store snapshot driving the view.
	state store.State

	width  int
	height int
	ready  bool
}

// New creates the chat model.
func New(theme *styles.Theme, st *store.Store, coord *turn.Coordinator) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Message (@AgentName to route)..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	return Model{
		theme:       theme,
		store:       st,
		coordinator: coord,
		viewport:    vp,
		input:       ti,
		spinner:     components.NewWaitSpinner(theme),
		sidebar:     components.NewSidebar(theme),
		statusBar:   components.NewStatusBar(theme),
		renderer:    components.NewMessageRenderer(theme, 80),
		keyMap:      DefaultKeyMap(),
		state:       st.Snapshot(),
	}
}

// SetArchive enables archiving of deleted chats.
func (m *Model) SetArchive(a *archive.Archive) {
	m.archive = a
}

// SetConnected marks the backend as configured for the status bar.
func (m *Model) SetConnected(connected bool) {
	m.statusBar.Connected = connected
}

// SetShowTimestamps toggles the timestamp column on messages.
func (m *Model) SetShowTimestamps(show bool) {
	m.renderer.ShowTimestamps = show
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// TURN DISPATCH
// =============================================================================

// sendTurn runs the turn off the UI goroutine. Store subscriptions repaint
// the view as replies land; the returned message only ends the spinner
// bookkeeping for abandoned turns.
func (m *Model) sendTurn(text string) tea.Cmd {
	coord := m.coordinator
	return func() tea.Msg {
		ok := coord.Send(context.Background(), text)
		return TurnFinishedMsg{OK: ok}
	}
}

// exportChat writes the chat to a markdown file in the working directory
// and reports the outcome in the status bar.
func (m *Model) exportChat(chatID string) tea.Cmd {
	chat := m.state.ChatByID(chatID)
	return func() tea.Msg {
		if chat == nil {
			return NoticeMsg{Text: "nothing to export"}
		}
		opts := export.DefaultOptions()
		opts.OutputDir = "."
		path, err := export.ExportToFile(chat, export.NewMarkdownExporter(opts), opts)
		if err != nil {
			return NoticeMsg{Text: "export failed: " + err.Error()}
		}
		return NoticeMsg{Text: "exported to " + path}
	}
}

// archiveChat copies the chat into the archive before it is deleted.
func (m *Model) archiveChat(chatID string) {
	if m.archive == nil {
		return
	}
	chat := m.state.ChatByID(chatID)
	if chat == nil {
		return
	}
	if err := m.archive.ArchiveChat(chat); err != nil {
		fmt.Fprintf(os.Stderr, "consult: archive failed: %v\n", err)
	}
}
