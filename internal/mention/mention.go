// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import "regexp"

// =============================================================================
// TARGET TYPE
// =============================================================================

// TargetKind tags how the target agent for a turn was chosen.
type TargetKind int

const (
	// TargetDefault means no mention resolved; the turn goes to the
	// default facilitator agent.
	TargetDefault TargetKind = iota

	// TargetMentioned means the first resolved mention chose the agent.
	TargetMentioned
)

// Target is the routing decision for one turn. Exactly one agent is ever
// dispatched to, so the one-target policy is an explicit contract here
// rather than an artifact of list truncation.
type Target struct {
	Kind  TargetKind
	Agent string
}

// Mentioned reports whether the target came from an explicit mention.
func (t Target) Mentioned() bool {
	return t.Kind == TargetMentioned
}

// =============================================================================
// RESOLUTION
// =============================================================================

// tokenPattern matches @name candidates. Anchoring to start-of-text or a
// preceding whitespace character keeps embedded text like "user@host" from
// producing candidates.
var tokenPattern = regexp.MustCompile(`(^|\s)@(\w+)`)

// Resolve scans text left to right for @name tokens and matches them
// case-insensitively against the roster. Unmatched tokens are discarded.
// Matches are deduplicated in first-occurrence order, and only the first
// resolved mention is retained: the transport dispatches to exactly one
// agent per turn.
//
// The returned mentions slice is empty (nil) when nothing resolved, and the
// target falls back to DefaultAgent.
func Resolve(text string, roster *Roster) ([]string, Target) {
	var mentions []string
	seen := make(map[string]bool)

	for _, match := range tokenPattern.FindAllStringSubmatch(text, -1) {
		canonical, ok := roster.Resolve(match[2])
		if !ok {
			continue
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		mentions = append(mentions, canonical)
	}

	if len(mentions) == 0 {
		return nil, Target{Kind: TargetDefault, Agent: DefaultAgent}
	}

	// First mention wins; later mentions in the same message are dropped.
	mentions = mentions[:1]
	return mentions, Target{Kind: TargetMentioned, Agent: mentions[0]}
}
