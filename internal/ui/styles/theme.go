// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all styled components for the consult TUI. It detects the
// terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// HEADER
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// ==========================================================================
	// SIDEBAR (chat list)
	// ==========================================================================

	Sidebar             lipgloss.Style
	SidebarTitle        lipgloss.Style
	SidebarItem         lipgloss.Style
	SidebarItemSelected lipgloss.Style
	SidebarPreview      lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble   lipgloss.Style
	AgentBubble  lipgloss.Style
	SystemBubble lipgloss.Style
	SenderUser   lipgloss.Style
	SenderAgent  lipgloss.Style
	SenderSystem lipgloss.Style
	Timestamp    lipgloss.Style
	Mention      lipgloss.Style

	// ==========================================================================
	// INPUT AREA
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusAgent  lipgloss.Style
	StatusError  lipgloss.Style
	Spinner      lipgloss.Style
	WaitingText  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
}

// NewTheme constructs a theme. mode is "dark", "light", or "auto".
func NewTheme(mode string) *Theme {
	t := &Theme{
		ColorProfile: termenv.ColorProfile(),
	}
	switch mode {
	case "dark":
		t.IsDark = true
		lipgloss.SetHasDarkBackground(true)
	case "light":
		t.IsDark = false
		lipgloss.SetHasDarkBackground(false)
	default:
		t.IsDark = lipgloss.HasDarkBackground()
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Padding(0, 1).
		Background(SurfaceDim)
	t.HeaderTitle = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)
	t.HeaderMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.SidebarTitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)
	t.SidebarItem = lipgloss.NewStyle().
		Foreground(TextPrimary)
	t.SidebarItemSelected = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.SidebarPreview = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(UserBubbleBorder).
		PaddingLeft(1)
	t.AgentBubble = lipgloss.NewStyle().
		Foreground(AgentBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(AgentBubbleBorder).
		PaddingLeft(1)
	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(SystemBubbleBorder).
		PaddingLeft(1)

	t.SenderUser = lipgloss.NewStyle().
		Foreground(UserBubbleBorder).
		Bold(true)
	t.SenderAgent = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)
	t.SenderSystem = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)
	t.Timestamp = lipgloss.NewStyle().
		Foreground(TextMuted)
	t.Mention = lipgloss.NewStyle().
		Foreground(MentionFg).
		Bold(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay)
	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceDim).
		Padding(0, 1)
	t.StatusAgent = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
	t.StatusError = lipgloss.NewStyle().
		Foreground(Rose)
	t.Spinner = lipgloss.NewStyle().
		Foreground(Cyan)
	t.WaitingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)
	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan)
	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// SetSize records the current terminal dimensions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// =============================================================================
// LAYOUT MODES
// =============================================================================

// LayoutMode describes how much chrome fits the current terminal width.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // no sidebar
	LayoutNormal                   // sidebar + chat
)

// GetLayoutMode picks the layout for the current width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 80 {
		return LayoutNarrow
	}
	return LayoutNormal
}

// SidebarWidth returns the column width reserved for the chat list.
func (t *Theme) SidebarWidth() int {
	if t.GetLayoutMode() == LayoutNarrow {
		return 0
	}
	w := t.Width / 4
	if w < 20 {
		w = 20
	}
	if w > 32 {
		w = 32
	}
	return w
}
