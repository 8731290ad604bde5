// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package roster supplies the set of currently valid agent names.
//
// The roster comes from the backend's /api/agents endpoint, fetched at
// session start and re-fetchable (rate-limited) during the session. When
// the backend is unreachable the service falls back to a fixed default
// roster, and an optional local override file can be watched for
// development against no backend at all. Consumers always read the latest
// installed roster.
package roster
