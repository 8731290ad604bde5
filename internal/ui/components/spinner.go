// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/consult-tui/internal/ui/styles"
)

// =============================================================================
// WAITING SPINNER
// =============================================================================

// WaitSpinner shows which agents a turn is still waiting on.
type WaitSpinner struct {
	spinner   spinner.Model
	theme     *styles.Theme
	agents    []string
	startTime time.Time
	active    bool
}

// NewWaitSpinner creates the spinner used while a turn is in flight.
func NewWaitSpinner(theme *styles.Theme) WaitSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Spinner
	return WaitSpinner{spinner: s, theme: theme}
}

// Start begins animating for the given pending agents.
func (w *WaitSpinner) Start(agents []string) tea.Cmd {
	w.agents = agents
	w.startTime = time.Now()
	w.active = true
	return w.spinner.Tick
}

// SetAgents updates the pending set mid-turn.
func (w *WaitSpinner) SetAgents(agents []string) {
	w.agents = agents
}

// Stop halts the animation.
func (w *WaitSpinner) Stop() {
	w.active = false
	w.agents = nil
}

// Active reports whether the spinner is animating.
func (w *WaitSpinner) Active() bool {
	return w.active
}

// Update advances the animation.
func (w *WaitSpinner) Update(msg tea.Msg) tea.Cmd {
	if !w.active {
		return nil
	}
	var cmd tea.Cmd
	w.spinner, cmd = w.spinner.Update(msg)
	return cmd
}

// View renders "waiting on X" with an elapsed timer.
func (w *WaitSpinner) View() string {
	if !w.active {
		return ""
	}

	label := "Waiting for a reply"
	if len(w.agents) == 1 {
		label = fmt.Sprintf("Waiting for %s", w.agents[0])
	} else if len(w.agents) > 1 {
		label = fmt.Sprintf("Waiting for %s", strings.Join(w.agents, ", "))
	}

	elapsed := time.Since(w.startTime).Round(time.Second)
	return fmt.Sprintf("%s %s %s",
		w.spinner.View(),
		w.theme.WaitingText.Render(label),
		w.theme.Timestamp.Render(fmt.Sprintf("(%s)", elapsed)),
	)
}
