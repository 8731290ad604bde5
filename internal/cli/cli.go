// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for consult.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdAgents
	CmdExport
	CmdArchive
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	Server  string // --server overrides the configured backend URL
	User    string // --user overrides the configured email

	// Command-specific
	Query      string
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	Format     string // export format: md or json
	OutputDir  string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `consult - terminal client for multi-agent consultations

Consult connects to a consultation backend where specialist agents
answer in a shared conversation. Route a message to a specific agent
with an @mention; unrouted messages go to the Orchestrator.

Usage:
  consult                      Start the TUI (default)
  consult ask "question"       Ask a single question and print the replies
  consult chat                 Interactive REPL without the full TUI
  consult agents               List the current agent roster
  consult export <chat>        Export a chat (markdown or JSON)
  consult archive [subcommand] Browse and search deleted chats
  consult config [show|set|path]
  consult version              Show version
  consult help                 Show this help

Global flags:
  --server URL    Backend base URL (overrides config)
  --user EMAIL    Identity for sent messages (overrides config)
  --json          Machine-readable output where supported
  -q, --quiet     Minimal output
  -v, --verbose   Verbose output

Ask:
  consult ask "@Radiology anything acute on this film?"
  consult ask --server http://localhost:8000 "what changed overnight?"

Export:
  consult export 1 --format md        Export the first chat as markdown
  consult export 1 --format json -o ~/notes

Archive:
  consult archive list                List archived chats
  consult archive search "words"      Full-text search archived messages
  consult archive restore <chat-id>   Restore an archived chat

Config:
  consult config show                 Print the active configuration
  consult config set server_url http://localhost:8000
  consult config path                 Print the config file location

Environment:
  CONSULT_SERVER_URL, CONSULT_USER_EMAIL, CONSULT_TURN_TIMEOUT_SECS,
  CONSULT_ROSTER_FILE, CONSULT_THEME, NO_COLOR
`

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information to stdout.
func PrintVersion() {
	fmt.Printf("consult %s (%s, built %s, %s/%s)\n",
		Version, GitCommit, BuildDate, runtime.GOOS, runtime.GOARCH)
}

// Parse reads os.Args and returns the command to run with its arguments.
func Parse() (Command, Args) {
	remaining, parsed := parseGlobalFlags(os.Args[1:])

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "ask":
		parsed.Query = strings.Join(remaining, " ")
		return CmdAsk, parsed

	case "chat":
		return CmdChat, parsed

	case "agents", "roster":
		return CmdAgents, parsed

	case "export":
		parseExportArgs(&parsed, remaining)
		return CmdExport, parsed

	case "archive":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
			parsed.Raw = remaining[1:]
		}
		return CmdArchive, parsed

	case "config":
		parseConfigArgs(&parsed, remaining)
		return CmdConfig, parsed

	case "version", "--version", "-V":
		return CmdVersion, parsed

	case "help", "--help", "-h":
		return CmdHelp, parsed

	default:
		fmt.Fprintf(os.Stderr, "consult: unknown command %q\n\n", cmd)
		return CmdHelp, parsed
	}
}

// parseGlobalFlags strips global flags, returning what remains.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--json":
			parsed.JSON = true
		case "--server":
			if i+1 < len(args) {
				i++
				parsed.Server = args[i]
			}
		case "--user":
			if i+1 < len(args) {
				i++
				parsed.User = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--server="):
				parsed.Server = strings.TrimPrefix(arg, "--server=")
			case strings.HasPrefix(arg, "--user="):
				parsed.User = strings.TrimPrefix(arg, "--user=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsed
}

// parseExportArgs parses export command arguments.
func parseExportArgs(args *Args, remaining []string) {
	args.Format = "md"
	i := 0
	for i < len(remaining) {
		arg := remaining[i]
		switch arg {
		case "--format", "-f":
			if i+1 < len(remaining) {
				i++
				args.Format = remaining[i]
			}
		case "--output", "-o":
			if i+1 < len(remaining) {
				i++
				args.OutputDir = remaining[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--format="):
				args.Format = strings.TrimPrefix(arg, "--format=")
			case strings.HasPrefix(arg, "--output="):
				args.OutputDir = strings.TrimPrefix(arg, "--output=")
			case args.Subcommand == "":
				args.Subcommand = arg
			}
		}
		i++
	}
}

// parseConfigArgs parses config command arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
	}
	if len(remaining) > 1 {
		args.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		args.ConfigVal = strings.Join(remaining[2:], " ")
	}
}

// HandleVersion prints version information.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf(`{"version": %q, "commit": %q, "built": %q}`+"\n", Version, GitCommit, BuildDate)
		return
	}
	PrintVersion()
}

// HandleHelp prints usage.
func HandleHelp() {
	PrintUsage()
}
