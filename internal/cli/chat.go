// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler.
//
// Handles the "consult chat" command: a readline-style REPL for holding a
// conversation without the full TUI. Useful over slow links and in scripts
// that still want history and line editing.
//
// Command: chat
// Short:   Start an interactive chat session
//
// Examples:
//   consult chat                        Continue the selected chat
//   consult chat --user jdoe@example.com
//   consult chat --server http://localhost:8000
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /agents, /a         Show the agent roster
//   /new, /n            Start a new chat
//   /chats              List chats
//   /switch N           Switch to chat number N
//   /export [md|json]   Export the current chat to a file
//   /quit, /q           Exit
//   Ctrl+C, Ctrl+D      Exit
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/consult-tui/internal/config"
	"github.com/jeranaias/consult-tui/internal/export"
	"github.com/jeranaias/consult-tui/internal/mention"
	"github.com/jeranaias/consult-tui/internal/model"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for the interactive REPL.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with history loaded from the config directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line of input with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive REPL on the shared session wiring.
func HandleChat(args Args) error {
	s, err := NewSession(args)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.Cfg.DisplayName() == "" {
		return fmt.Errorf("no identity configured; set user_email in config or pass --user")
	}

	s.RefreshRoster()

	// Continue the persisted selection, or open a fresh chat.
	if s.Store.Snapshot().SelectedChat() == nil {
		id := s.Store.CreateChat()
		s.Store.SelectChat(id)
	}

	if !args.Quiet {
		printChatWelcome(s)
	}

	input := NewChatCLI()
	defer input.Close()

	start := time.Now()
	turns := 0

	for {
		line, err := input.ReadInput(promptStyle.Render("consult> "))
		if err != nil {
			// liner.ErrPromptAborted on Ctrl+C, io.EOF on Ctrl+D.
			if err != liner.ErrPromptAborted {
				fmt.Println()
			}
			printChatSummary(turns, start)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			keepGoing, err := handleSlashCommand(line, s)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			}
			if !keepGoing {
				printChatSummary(turns, start)
				return nil
			}
			continue
		}

		if strings.EqualFold(line, "exit") || strings.EqualFold(line, "quit") {
			printChatSummary(turns, start)
			return nil
		}

		if err := runTurn(s, line, args.Quiet); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			continue
		}
		turns++
	}
}

// =============================================================================
// TURN PROCESSING
// =============================================================================

// runTurn dispatches one user message and prints the agent replies that
// arrive before the turn completes.
func runTurn(s *Session, text string, quiet bool) error {
	chat := s.Store.Snapshot().SelectedChat()
	if chat == nil {
		id := s.Store.CreateChat()
		s.Store.SelectChat(id)
		chat = s.Store.Snapshot().SelectedChat()
	}
	chatID := chat.ID
	before := chat.MessageCount()

	if !quiet {
		_, target := mention.Resolve(text, s.Roster.Current())
		fmt.Fprintln(os.Stderr, infoStyle.Render("→ "+target.Agent))
	}

	if ok := s.Coordinator.Send(context.Background(), text); !ok {
		return fmt.Errorf("the turn was abandoned; check configuration")
	}

	after := s.Store.Snapshot().ChatByID(chatID)
	if after == nil {
		return fmt.Errorf("chat disappeared during the turn")
	}

	fmt.Println()
	for _, msg := range after.Messages[before:] {
		if msg.IsBot || msg.Sender == model.SystemSender {
			printReply(msg)
		}
	}
	return nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand processes a slash command. Returns false to exit.
func handleSlashCommand(cmd string, s *Session) (bool, error) {
	parts := strings.Fields(cmd)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case "/help", "/h", "/?", "/":
		printChatHelp()
		return true, nil

	case "/agents", "/a":
		printRoster(s)
		return true, nil

	case "/new", "/n":
		id := s.Store.CreateChat()
		s.Store.SelectChat(id)
		fmt.Println(successStyle.Render("[New chat]"))
		return true, nil

	case "/chats":
		printChatList(s)
		return true, nil

	case "/switch":
		return true, switchChat(s, args)

	case "/export":
		return true, exportCurrentChat(s, args)

	case "/quit", "/q", "/exit":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command: %s (type /help for commands)", command)
	}
}

// switchChat selects the chat at the given 1-based position.
func switchChat(s *Session, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: /switch N")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("usage: /switch N")
	}
	chats := s.Store.Snapshot().Chats
	if n < 1 || n > len(chats) {
		return fmt.Errorf("no chat %d (have %d)", n, len(chats))
	}
	chat := chats[n-1]
	s.Store.SelectChat(chat.ID)
	fmt.Printf("%s %s\n", successStyle.Render("[Switched]"), chat.DisplayTitle())
	return nil
}

// exportCurrentChat writes the selected chat to a file in the current
// directory. Format defaults to markdown.
func exportCurrentChat(s *Session, args []string) error {
	chat := s.Store.Snapshot().SelectedChat()
	if chat == nil || chat.IsEmpty() {
		return fmt.Errorf("nothing to export")
	}

	format := "md"
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}

	opts := export.DefaultOptions()
	opts.OutputDir = "."

	var exporter export.Exporter
	switch format {
	case "md", "markdown":
		exporter = export.NewMarkdownExporter(opts)
	case "json":
		exporter = export.NewJSONExporter()
	default:
		return fmt.Errorf("unknown format %q (md or json)", format)
	}

	path, err := export.ExportToFile(chat, exporter, opts)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", successStyle.Render("[Exported]"), path)
	return nil
}

// =============================================================================
// DISPLAY
// =============================================================================

func printChatWelcome(s *Session) {
	fmt.Println()
	fmt.Println(senderStyle.Render("consult interactive chat"))
	fmt.Println(infoStyle.Render(strings.Repeat("─", 30)))
	fmt.Printf("%s %s\n", infoStyle.Render("Server:"), s.Cfg.ServerURL)
	fmt.Printf("%s %s\n", infoStyle.Render("You:"), s.Cfg.DisplayName())

	names := s.Roster.Current().Names()
	fmt.Printf("%s %s\n", infoStyle.Render("Agents:"), strings.Join(names, ", "))

	fmt.Println()
	fmt.Println(infoStyle.Render("@AgentName routes a message; plain messages go to " + mention.DefaultAgent + "."))
	fmt.Println(infoStyle.Render("Commands: /help, /quit"))
	fmt.Println()
}

func printChatHelp() {
	fmt.Println()
	commands := []struct {
		cmd  string
		desc string
	}{
		{"/help, /h", "Show this help"},
		{"/agents, /a", "Show the agent roster"},
		{"/new, /n", "Start a new chat"},
		{"/chats", "List chats"},
		{"/switch N", "Switch to chat number N"},
		{"/export [md|json]", "Export the current chat"},
		{"/quit, /q", "Exit"},
	}
	for _, c := range commands {
		fmt.Printf("  %s  %s\n",
			successStyle.Render(fmt.Sprintf("%-18s", c.cmd)),
			infoStyle.Render(c.desc))
	}
	fmt.Println()
	fmt.Println(infoStyle.Render("Tip: Ctrl+D exits, arrow keys navigate history"))
	fmt.Println()
}

func printRoster(s *Session) {
	names := s.Roster.Current().Names()
	fmt.Println()
	for _, name := range names {
		marker := " "
		if name == mention.DefaultAgent {
			marker = "*"
		}
		fmt.Printf("  %s @%s\n", marker, senderStyle.Render(name))
	}
	fmt.Println()
	fmt.Println(infoStyle.Render("* default recipient for unrouted messages"))
	fmt.Println()
}

func printChatList(s *Session) {
	state := s.Store.Snapshot()
	if len(state.Chats) == 0 {
		fmt.Println(infoStyle.Render("[No chats]"))
		return
	}
	fmt.Println()
	for i, chat := range state.Chats {
		marker := " "
		if chat.ID == state.SelectedID {
			marker = ">"
		}
		fmt.Printf("  %s %d. %s (%d messages)\n",
			marker, i+1, chat.DisplayTitle(), chat.MessageCount())
	}
	fmt.Println()
}

func printChatSummary(turns int, start time.Time) {
	if turns == 0 {
		fmt.Println(infoStyle.Render("Goodbye!"))
		return
	}
	elapsed := time.Since(start).Round(time.Second)
	fmt.Println()
	fmt.Printf("  %s %d\n", infoStyle.Render("Turns:"), turns)
	fmt.Printf("  %s %s\n", infoStyle.Render("Duration:"), elapsed.String())
	fmt.Println()
	fmt.Println(infoStyle.Render("Goodbye!"))
}
