// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/consult-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete consult configuration.
type Config struct {
	// ServerURL is the backend base URL. Empty means offline: mention
	// routing runs against the fallback roster and turns fail fast.
	ServerURL string `toml:"server_url"`

	// UserEmail identifies the operator. The display name shown on sent
	// messages is derived from it (the part before '@').
	UserEmail string `toml:"user_email"`

	// TurnTimeoutSecs bounds a full turn, dial through terminal frame.
	TurnTimeoutSecs int `toml:"turn_timeout_secs"`

	Roster  RosterConfig  `toml:"roster"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// RosterConfig controls where agent names come from.
type RosterConfig struct {
	// Fallback replaces the built-in roster used before the first fetch.
	Fallback []string `toml:"fallback"`

	// OverrideFile, when set, is watched and its contents win over both
	// the fallback and the backend roster.
	OverrideFile string `toml:"override_file"`
}

// StorageConfig controls on-disk persistence.
type StorageConfig struct {
	// SnapshotPath is the conversation snapshot file. Empty = default
	// ~/.consult/chats.json.
	SnapshotPath string `toml:"snapshot_path"`

	// DebounceMs is the write-coalescing window for snapshot saves.
	DebounceMs int `toml:"debounce_ms"`

	// ArchivePath is the SQLite archive of deleted chats. Empty = default
	// ~/.consult/archive.db.
	ArchivePath string `toml:"archive_path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	// Theme selects the color theme: "dark", "light", or "auto".
	Theme string `toml:"theme"`

	// SyntaxTheme is the chroma style used for code blocks.
	SyntaxTheme string `toml:"syntax_theme"`

	// ShowTimestamps renders a timestamp next to each message.
	ShowTimestamps bool `toml:"show_timestamps"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ServerURL:       "",
		UserEmail:       "",
		TurnTimeoutSecs: 120,
		Roster: RosterConfig{
			Fallback: nil, // roster package supplies its own default set
		},
		Storage: StorageConfig{
			DebounceMs: 1000,
		},
		UI: UIConfig{
			Theme:          "auto",
			SyntaxTheme:    "monokai",
			ShowTimestamps: false,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the consult configuration directory (~/.consult).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".consult"), nil
}

// ConfigPath returns the path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir creates the configuration directory if needed.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the configuration file, falling back to defaults when the
// file is absent. Environment overrides apply last either way.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadFromPath(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath decodes a TOML configuration file into cfg.
func LoadFromPath(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// Save writes the configuration to the default path atomically.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath encodes cfg as TOML and writes it atomically.
func SaveToPath(cfg *Config, path string) error {
	var sb strings.Builder
	sb.WriteString("# consult configuration file\n")
	sb.WriteString("# Edit with care; consult rewrites this file on save.\n\n")

	enc := toml.NewEncoder(&sb)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return util.AtomicWriteFile(path, []byte(sb.String()), 0600)
}

// =============================================================================
// OVERRIDES, DEFAULTS, VALIDATION
// =============================================================================

// ApplyEnvOverrides applies CONSULT_* environment variables over the
// loaded values. Environment always wins over the file.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("CONSULT_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("CONSULT_USER_EMAIL"); v != "" {
		c.UserEmail = v
	}
	if v := os.Getenv("CONSULT_TURN_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.TurnTimeoutSecs = n
		}
	}
	if v := os.Getenv("CONSULT_ROSTER_FILE"); v != "" {
		c.Roster.OverrideFile = v
	}
	if v := os.Getenv("CONSULT_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// SetDefaults fills zero values left by a sparse config file.
func (c *Config) SetDefaults() {
	if c.TurnTimeoutSecs <= 0 {
		c.TurnTimeoutSecs = 120
	}
	if c.Storage.DebounceMs <= 0 {
		c.Storage.DebounceMs = 1000
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "auto"
	}
	if c.UI.SyntaxTheme == "" {
		c.UI.SyntaxTheme = "monokai"
	}
}

// Validate rejects configurations consult cannot run with.
func (c *Config) Validate() error {
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme must be dark, light, or auto; got %q", c.UI.Theme)
	}
	if c.ServerURL != "" &&
		!strings.HasPrefix(c.ServerURL, "http://") && !strings.HasPrefix(c.ServerURL, "https://") &&
		!strings.HasPrefix(c.ServerURL, "ws://") && !strings.HasPrefix(c.ServerURL, "wss://") {
		return fmt.Errorf("server_url must use http(s) or ws(s); got %q", c.ServerURL)
	}
	return nil
}

// TurnTimeout returns the configured turn timeout as a duration.
func (c *Config) TurnTimeout() time.Duration {
	return time.Duration(c.TurnTimeoutSecs) * time.Second
}

// Debounce returns the configured snapshot write-coalescing window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Storage.DebounceMs) * time.Millisecond
}

// =============================================================================
// IDENTITY
// =============================================================================

// DisplayName derives the operator's display name from the configured
// email: everything before the first '@'. An address with no local part
// (or no configured email) yields "".
func (c *Config) DisplayName() string {
	return DisplayNameFromEmail(c.UserEmail)
}

// DisplayNameFromEmail returns the local part of an email address.
func DisplayNameFromEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
