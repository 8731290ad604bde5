// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/consult-tui/internal/mention"
)

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultFallback is the fixed roster used when the backend has never
// answered. It mirrors the reference deployment's agent set.
var DefaultFallback = []string{"Orchestrator", "Radiology", "PatientHistory"}

// refetchInterval throttles roster re-fetches; bursts of refresh requests
// (reconnects, manual refreshes) collapse to one network call.
const refetchInterval = 30 * time.Second

// fetchTimeout bounds a single roster request.
const fetchTimeout = 10 * time.Second

// =============================================================================
// SERVICE
// =============================================================================

// Service owns the latest known roster and keeps it fresh.
type Service struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu      sync.RWMutex
	current *mention.Roster

	// OnChange, when set, observes every roster installation.
	OnChange func(*mention.Roster)

	watchMu  sync.Mutex
	watchers []*overrideWatcher
}

// NewService creates a service seeded with the fallback roster so mention
// resolution works before (or without) the first successful fetch.
func NewService(baseURL string, fallback []string) *Service {
	if len(fallback) == 0 {
		fallback = DefaultFallback
	}
	return &Service{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: fetchTimeout},
		limiter:    rate.NewLimiter(rate.Every(refetchInterval), 1),
		current:    mention.NewRoster(fallback),
	}
}

// Current returns the latest installed roster.
func (s *Service) Current() *mention.Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// install replaces the roster; the latest installation always wins.
func (s *Service) install(r *mention.Roster) {
	if r.Len() == 0 {
		return
	}
	s.mu.Lock()
	s.current = r
	onChange := s.OnChange
	s.mu.Unlock()

	if onChange != nil {
		onChange(r)
	}
}

// =============================================================================
// NETWORK FETCH
// =============================================================================

// agentsResponse is the wire shape of GET /api/agents.
type agentsResponse struct {
	Agents []string `json:"agents"`
	Error  string   `json:"error"`
}

// Refresh fetches the roster from the backend and installs it. Failures
// leave the current roster in place: mention routing keeps working on the
// last known (or fallback) set. Calls inside the throttle window are
// skipped and return nil.
func (s *Service) Refresh(ctx context.Context) error {
	if s.baseURL == "" {
		return nil // no backend configured; fallback roster stands
	}
	if !s.limiter.Allow() {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/agents", nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch agents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch agents: unexpected status %d", resp.StatusCode)
	}

	var body agentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode agents: %w", err)
	}
	if body.Error != "" {
		return fmt.Errorf("fetch agents: %s", body.Error)
	}

	s.install(mention.NewRoster(body.Agents))
	return nil
}

// =============================================================================
// LOCAL OVERRIDE FILE
// =============================================================================

// ParseOverride reads an override roster: one agent name per line, blank
// lines and #-comments ignored.
func ParseOverride(data []byte) []string {
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}

// LoadOverride installs the roster from a local file.
func (s *Service) LoadOverride(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	names := ParseOverride(data)
	if len(names) == 0 {
		return fmt.Errorf("override file %s lists no agents", path)
	}
	s.install(mention.NewRoster(names))
	return nil
}

// WatchOverride loads the override file and reinstalls it whenever it
// changes on disk, so agents can be added mid-session without a backend.
func (s *Service) WatchOverride(path string) error {
	if err := s.LoadOverride(path); err != nil {
		return err
	}

	w, err := newOverrideWatcher(s, path)
	if err != nil {
		return err
	}

	s.watchMu.Lock()
	s.watchers = append(s.watchers, w)
	s.watchMu.Unlock()
	return nil
}

// Close stops all override watchers.
func (s *Service) Close() {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for _, w := range s.watchers {
		w.close()
	}
	s.watchers = nil
}
