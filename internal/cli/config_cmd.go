// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command.
//
// Command: config
// Short:   Show or edit the configuration file
//
// Examples:
//   consult config show
//   consult config set server_url http://localhost:8000
//   consult config set user_email jdoe@example.com
//   consult config path
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/jeranaias/consult-tui/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(args)
	case "set":
		return configSet(args)
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand %q (show, set, path)", args.Subcommand)
	}
}

func configShow(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	rows := []struct {
		key string
		val string
	}{
		{"server_url", cfg.ServerURL},
		{"user_email", cfg.UserEmail},
		{"turn_timeout_secs", strconv.Itoa(cfg.TurnTimeoutSecs)},
		{"roster.override_file", cfg.Roster.OverrideFile},
		{"storage.snapshot_path", cfg.Storage.SnapshotPath},
		{"storage.archive_path", cfg.Storage.ArchivePath},
		{"storage.debounce_ms", strconv.Itoa(cfg.Storage.DebounceMs)},
		{"ui.theme", cfg.UI.Theme},
		{"ui.syntax_theme", cfg.UI.SyntaxTheme},
		{"ui.show_timestamps", strconv.FormatBool(cfg.UI.ShowTimestamps)},
	}
	for _, row := range rows {
		val := row.val
		if val == "" {
			val = infoStyle.Render("(default)")
		}
		fmt.Printf("  %-24s %s\n", row.key, val)
	}
	return nil
}

func configSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return fmt.Errorf("usage: consult config set <key> <value>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := applyConfigKey(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	if !args.Quiet {
		fmt.Printf("%s %s = %s\n", successStyle.Render("[OK]"), args.ConfigKey, args.ConfigVal)
	}
	return nil
}

// applyConfigKey sets one known key. Unknown keys are an error so typos
// never silently write a dead setting.
func applyConfigKey(cfg *config.Config, key, val string) error {
	switch key {
	case "server_url":
		cfg.ServerURL = val
	case "user_email":
		cfg.UserEmail = val
	case "turn_timeout_secs":
		n, err := strconv.Atoi(val)
		if err != nil || n <= 0 {
			return fmt.Errorf("turn_timeout_secs needs a positive integer, got %q", val)
		}
		cfg.TurnTimeoutSecs = n
	case "roster.override_file":
		cfg.Roster.OverrideFile = val
	case "storage.snapshot_path":
		cfg.Storage.SnapshotPath = val
	case "storage.archive_path":
		cfg.Storage.ArchivePath = val
	case "storage.debounce_ms":
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			return fmt.Errorf("storage.debounce_ms needs a non-negative integer, got %q", val)
		}
		cfg.Storage.DebounceMs = n
	case "ui.theme":
		cfg.UI.Theme = val
	case "ui.syntax_theme":
		cfg.UI.SyntaxTheme = val
	case "ui.show_timestamps":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("ui.show_timestamps needs true or false, got %q", val)
		}
		cfg.UI.ShowTimestamps = b
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}
