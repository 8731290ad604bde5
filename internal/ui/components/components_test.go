// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/consult-tui/internal/model"
	"github.com/jeranaias/consult-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme("dark")
}

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

func TestMessageRenderer_UserMessage(t *testing.T) {
	r := NewMessageRenderer(testTheme(), 80)
	msg := model.NewUserMessage("jdoe", "@Radiology anything acute?", []string{"Radiology"})

	out := r.Render(msg)
	if !strings.Contains(out, "jdoe") {
		t.Error("rendered message must show the sender")
	}
	if !strings.Contains(out, "anything acute?") {
		t.Error("rendered message must include the content")
	}
}

func TestMessageRenderer_SystemMessage(t *testing.T) {
	r := NewMessageRenderer(testTheme(), 80)
	msg := model.NewSystemMessage("No response was received. Please try again.")

	out := r.Render(msg)
	if !strings.Contains(out, "System") {
		t.Error("system messages must show the System sender")
	}
	if !strings.Contains(out, "No response was received") {
		t.Error("system message content missing")
	}
}

func TestMessageRenderer_RenderAll(t *testing.T) {
	r := NewMessageRenderer(testTheme(), 80)
	msgs := []*model.Message{
		model.NewUserMessage("jdoe", "first", nil),
		model.NewSystemMessage("second"),
	}

	out := r.RenderAll(msgs)
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Error("RenderAll must include every message")
	}
}

func TestMessageRenderer_NarrowWidth(t *testing.T) {
	r := NewMessageRenderer(testTheme(), 10)
	msg := model.NewUserMessage("jdoe", "hello", nil)
	if r.Render(msg) == "" {
		t.Error("narrow widths must still render")
	}
	r.SetWidth(120)
	if r.Render(msg) == "" {
		t.Error("resize must still render")
	}
}

// =============================================================================
// CODE BLOCKS
// =============================================================================

func TestRenderCodeBlocks(t *testing.T) {
	text := "before\n```go\nfunc main() {}\n```\nafter"
	out := RenderCodeBlocks(text, 80)

	if !strings.Contains(out, "before") || !strings.Contains(out, "after") {
		t.Error("surrounding text must survive")
	}
	if !strings.Contains(out, "main") {
		t.Error("code content must survive highlighting")
	}
}

func TestRenderCodeBlocksUnterminatedFence(t *testing.T) {
	out := RenderCodeBlocks("```python\nprint('hi')", 80)
	if !strings.Contains(out, "print") {
		t.Error("unterminated fences must still render their code")
	}
}

// =============================================================================
// SIDEBAR AND STATUS BAR
// =============================================================================

func TestSidebarMarksSelection(t *testing.T) {
	sb := NewSidebar(testTheme())
	sb.SetSize(30, 20)

	a := model.NewChat()
	a.Append(model.NewUserMessage("jdoe", "first chat", nil))
	b := model.NewChat()

	out := sb.View([]*model.Chat{a, b}, b.ID)
	if !strings.Contains(out, "Chats") {
		t.Error("sidebar must carry its title")
	}
	if !strings.Contains(out, "first chat") {
		t.Error("sidebar must preview the last message")
	}
}

func TestStatusBarNoticeWins(t *testing.T) {
	bar := NewStatusBar(testTheme())
	bar.SetWidth(100)
	bar.Connected = true
	bar.Agents = []string{"Orchestrator"}

	plain := bar.View()
	if !strings.Contains(plain, "online") {
		t.Error("status bar must show connection mode")
	}

	bar.Notice = "Communication with the server failed. Please try again later."
	if !strings.Contains(bar.View(), "failed") {
		t.Error("a notice must replace the normal status line")
	}
}

func TestWaitSpinnerLifecycle(t *testing.T) {
	w := NewWaitSpinner(testTheme())
	if w.Active() {
		t.Error("spinner starts inactive")
	}

	cmd := w.Start([]string{"Radiology"})
	if cmd == nil {
		t.Error("Start must return the tick command")
	}
	if !w.Active() {
		t.Error("spinner active after Start")
	}
	if !strings.Contains(w.View(), "Radiology") {
		t.Error("spinner names the pending agent")
	}

	w.Stop()
	if w.View() != "" {
		t.Error("stopped spinner renders nothing")
	}
}
