// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// =============================================================================
// DEFAULTS AND VALIDATION
// =============================================================================

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.TurnTimeoutSecs != 120 {
		t.Errorf("TurnTimeoutSecs = %d, want 120", cfg.TurnTimeoutSecs)
	}
	if cfg.Storage.DebounceMs != 1000 {
		t.Errorf("DebounceMs = %d, want 1000", cfg.Storage.DebounceMs)
	}
	if cfg.UI.Theme != "auto" {
		t.Errorf("Theme = %q, want auto", cfg.UI.Theme)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "neon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown theme")
	}

	cfg = Default()
	cfg.ServerURL = "ftp://example.com"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-http(s)/ws(s) server URL")
	}

	cfg.ServerURL = "wss://chat.example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("wss URL must validate: %v", err)
	}
}

func TestSetDefaultsFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()

	if cfg.TurnTimeout() != 120*time.Second {
		t.Errorf("TurnTimeout = %v, want 2m", cfg.TurnTimeout())
	}
	if cfg.Debounce() != time.Second {
		t.Errorf("Debounce = %v, want 1s", cfg.Debounce())
	}
	if cfg.UI.SyntaxTheme != "monokai" {
		t.Errorf("SyntaxTheme = %q, want monokai", cfg.UI.SyntaxTheme)
	}
}

// =============================================================================
// LOAD / SAVE ROUND TRIP
// =============================================================================

func TestSaveAndLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	saved := Default()
	saved.ServerURL = "http://localhost:8000"
	saved.UserEmail = "jdoe@example.com"
	saved.Roster.Fallback = []string{"Orchestrator", "Radiology"}
	saved.UI.ShowTimestamps = true

	if err := SaveToPath(saved, path); err != nil {
		t.Fatalf("SaveToPath: %v", err)
	}

	loaded := Default()
	if err := LoadFromPath(loaded, path); err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	if loaded.ServerURL != saved.ServerURL {
		t.Errorf("ServerURL = %q, want %q", loaded.ServerURL, saved.ServerURL)
	}
	if loaded.UserEmail != saved.UserEmail {
		t.Errorf("UserEmail = %q, want %q", loaded.UserEmail, saved.UserEmail)
	}
	if len(loaded.Roster.Fallback) != 2 {
		t.Errorf("Fallback = %v, want two entries", loaded.Roster.Fallback)
	}
	if !loaded.UI.ShowTimestamps {
		t.Error("ShowTimestamps lost in round trip")
	}
}

func TestLoadFromPathSparseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("server_url = \"http://localhost:8000\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadFromPath(cfg, path); err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	cfg.SetDefaults()

	if cfg.ServerURL != "http://localhost:8000" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.TurnTimeoutSecs != 120 {
		t.Errorf("sparse file must keep the default timeout, got %d", cfg.TurnTimeoutSecs)
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("CONSULT_SERVER_URL", "http://10.0.0.5:8000")
	t.Setenv("CONSULT_USER_EMAIL", "oncall@example.com")
	t.Setenv("CONSULT_TURN_TIMEOUT_SECS", "30")
	t.Setenv("CONSULT_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.ServerURL != "http://10.0.0.5:8000" {
		t.Errorf("ServerURL = %q", cfg.ServerURL)
	}
	if cfg.UserEmail != "oncall@example.com" {
		t.Errorf("UserEmail = %q", cfg.UserEmail)
	}
	if cfg.TurnTimeoutSecs != 30 {
		t.Errorf("TurnTimeoutSecs = %d, want 30", cfg.TurnTimeoutSecs)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q, want light", cfg.UI.Theme)
	}
}

func TestApplyEnvOverridesIgnoresBadTimeout(t *testing.T) {
	t.Setenv("CONSULT_TURN_TIMEOUT_SECS", "soon")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if cfg.TurnTimeoutSecs != 120 {
		t.Errorf("TurnTimeoutSecs = %d, unparsable override must be ignored", cfg.TurnTimeoutSecs)
	}
}

// =============================================================================
// IDENTITY
// =============================================================================

func TestDisplayNameFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"jdoe@example.com", "jdoe"},
		{"j.doe@hospital.org", "j.doe"},
		{"  jdoe@example.com  ", "jdoe"},
		{"jdoe", "jdoe"},
		{"@example.com", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := DisplayNameFromEmail(tt.email); got != tt.want {
			t.Errorf("DisplayNameFromEmail(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}
