// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for consult.
//
// Configuration lives at ~/.consult/config.toml with built-in defaults
// underneath and CONSULT_* environment variables on top. The package also
// owns operator identity: the display name shown on outgoing messages is
// derived from the configured email address.
package config
