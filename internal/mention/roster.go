// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import "strings"

// =============================================================================
// ROSTER TYPE
// =============================================================================

// DefaultAgent is the well-known facilitator agent every deployment carries.
// Turns with no resolved mention are dispatched to it.
const DefaultAgent = "Orchestrator"

// Roster is an ordered set of valid agent names. Lookup is case-insensitive
// and returns the canonical casing supplied by the backend. The roster is
// immutable; a re-fetch installs a new value.
type Roster struct {
	names []string
	index map[string]string // lowercased name -> canonical name
}

// NewRoster builds a roster from agent names, preserving order and dropping
// duplicates (case-insensitively, first casing wins).
func NewRoster(names []string) *Roster {
	r := &Roster{
		names: make([]string, 0, len(names)),
		index: make(map[string]string, len(names)),
	}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := r.index[key]; dup {
			continue
		}
		r.index[key] = name
		r.names = append(r.names, name)
	}
	return r
}

// Resolve returns the canonical agent name for a token, or false if the
// token does not name a roster agent.
func (r *Roster) Resolve(token string) (string, bool) {
	if r == nil {
		return "", false
	}
	canonical, ok := r.index[strings.ToLower(token)]
	return canonical, ok
}

// Names returns the agent names in roster order.
func (r *Roster) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of agents in the roster.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Contains reports whether name (any casing) is on the roster.
func (r *Roster) Contains(name string) bool {
	_, ok := r.Resolve(name)
	return ok
}
