// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"reflect"
	"testing"
)

func testRoster() *Roster {
	return NewRoster([]string{"Orchestrator", "Radiology", "PatientHistory"})
}

// =============================================================================
// RESOLVE TESTS
// =============================================================================

func TestResolve(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantMentions []string
		wantTarget   string
		wantKind     TargetKind
	}{
		{
			name:         "exact mention at start",
			text:         "@Orchestrator hi",
			wantMentions: []string{"Orchestrator"},
			wantTarget:   "Orchestrator",
			wantKind:     TargetMentioned,
		},
		{
			name:         "case-insensitive match returns canonical casing",
			text:         "@orchestrator hi",
			wantMentions: []string{"Orchestrator"},
			wantTarget:   "Orchestrator",
			wantKind:     TargetMentioned,
		},
		{
			name:         "unknown token falls back to default",
			text:         "hello @Bogus",
			wantMentions: nil,
			wantTarget:   "Orchestrator",
			wantKind:     TargetDefault,
		},
		{
			name:         "first mention wins",
			text:         "@Radiology @PatientHistory",
			wantMentions: []string{"Radiology"},
			wantTarget:   "Radiology",
			wantKind:     TargetMentioned,
		},
		{
			name:         "no mention at all",
			text:         "what is the latest lab result?",
			wantMentions: nil,
			wantTarget:   "Orchestrator",
			wantKind:     TargetDefault,
		},
		{
			name:         "mention mid-text after whitespace",
			text:         "please ask @PatientHistory about allergies",
			wantMentions: []string{"PatientHistory"},
			wantTarget:   "PatientHistory",
			wantKind:     TargetMentioned,
		},
		{
			name:         "embedded at-sign is not a mention",
			text:         "email me at jdoe@radiology.example",
			wantMentions: nil,
			wantTarget:   "Orchestrator",
			wantKind:     TargetDefault,
		},
		{
			name:         "unknown then known keeps the known one",
			text:         "@Bogus then @Radiology",
			wantMentions: []string{"Radiology"},
			wantTarget:   "Radiology",
			wantKind:     TargetMentioned,
		},
		{
			name:         "duplicate mentions dedupe before truncation",
			text:         "@radiology @Radiology @PatientHistory",
			wantMentions: []string{"Radiology"},
			wantTarget:   "Radiology",
			wantKind:     TargetMentioned,
		},
		{
			name:         "mention after newline",
			text:         "context above\n@Orchestrator summarize",
			wantMentions: []string{"Orchestrator"},
			wantTarget:   "Orchestrator",
			wantKind:     TargetMentioned,
		},
		{
			name:         "empty text",
			text:         "",
			wantMentions: nil,
			wantTarget:   "Orchestrator",
			wantKind:     TargetDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mentions, target := Resolve(tt.text, testRoster())

			if !reflect.DeepEqual(mentions, tt.wantMentions) {
				t.Errorf("mentions = %v, want %v", mentions, tt.wantMentions)
			}
			if target.Agent != tt.wantTarget {
				t.Errorf("target.Agent = %q, want %q", target.Agent, tt.wantTarget)
			}
			if target.Kind != tt.wantKind {
				t.Errorf("target.Kind = %v, want %v", target.Kind, tt.wantKind)
			}
		})
	}
}

func TestResolve_AtMostOneMention(t *testing.T) {
	// For any text, at most one mention survives and it is on the roster.
	roster := testRoster()
	texts := []string{
		"@Orchestrator @Radiology @PatientHistory all hands",
		"@a @b @c",
		"@Radiology@PatientHistory", // second token not whitespace-anchored
		"   @patienthistory   ",
	}

	for _, text := range texts {
		mentions, target := Resolve(text, roster)
		if len(mentions) > 1 {
			t.Errorf("Resolve(%q) kept %d mentions, want at most 1", text, len(mentions))
		}
		if len(mentions) == 1 {
			if !roster.Contains(mentions[0]) {
				t.Errorf("Resolve(%q) produced off-roster mention %q", text, mentions[0])
			}
			if target.Agent != mentions[0] {
				t.Errorf("Resolve(%q) target %q != mention %q", text, target.Agent, mentions[0])
			}
		}
	}
}

func TestResolve_NilRoster(t *testing.T) {
	mentions, target := Resolve("@Orchestrator hi", nil)
	if mentions != nil {
		t.Errorf("mentions = %v, want nil with no roster", mentions)
	}
	if target.Kind != TargetDefault || target.Agent != DefaultAgent {
		t.Errorf("target = %+v, want default", target)
	}
}

// =============================================================================
// ROSTER TESTS
// =============================================================================

func TestNewRoster_DedupesAndTrims(t *testing.T) {
	r := NewRoster([]string{" Orchestrator ", "orchestrator", "", "Radiology"})

	if got := r.Names(); !reflect.DeepEqual(got, []string{"Orchestrator", "Radiology"}) {
		t.Errorf("Names = %v", got)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestRoster_ResolveCanonicalCasing(t *testing.T) {
	r := NewRoster([]string{"PatientHistory"})

	got, ok := r.Resolve("PATIENTHISTORY")
	if !ok || got != "PatientHistory" {
		t.Errorf("Resolve = (%q, %v), want canonical casing", got, ok)
	}
	if _, ok := r.Resolve("Cardiology"); ok {
		t.Error("Resolve should miss for off-roster names")
	}
}
