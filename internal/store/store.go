// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"
	"time"

	"github.com/jeranaias/consult-tui/internal/model"
)

// =============================================================================
// STATE
// =============================================================================

// State is one immutable view of the conversation model. Chats appear in
// creation order. Pending maps agent name to registration time and holds
// at most one entry per agent.
type State struct {
	Chats      []*model.Chat
	SelectedID string
	Loading    bool
	Pending    map[string]time.Time
}

// emptyState returns the initial state before hydration.
func emptyState() State {
	return State{
		Chats:   make([]*model.Chat, 0),
		Pending: make(map[string]time.Time),
	}
}

// clone deep-copies the state so readers never alias live data.
func (s State) clone() State {
	out := State{
		SelectedID: s.SelectedID,
		Loading:    s.Loading,
		Chats:      make([]*model.Chat, len(s.Chats)),
		Pending:    make(map[string]time.Time, len(s.Pending)),
	}
	for i, chat := range s.Chats {
		out.Chats[i] = chat.Clone()
	}
	for agent, at := range s.Pending {
		out.Pending[agent] = at
	}
	return out
}

// ChatByID returns the chat with the given id, or nil.
func (s State) ChatByID(id string) *model.Chat {
	for _, chat := range s.Chats {
		if chat.ID == id {
			return chat
		}
	}
	return nil
}

// SelectedChat returns the selected chat, or nil when nothing is selected.
func (s State) SelectedChat() *model.Chat {
	if s.SelectedID == "" {
		return nil
	}
	return s.ChatByID(s.SelectedID)
}

// PendingAgents returns the agents with an outstanding reply, oldest
// registration first.
func (s State) PendingAgents() []string {
	agents := make([]string, 0, len(s.Pending))
	for agent := range s.Pending {
		agents = append(agents, agent)
	}
	// Insertion-time ordering; ties keep map iteration order which is fine
	// for a ledger this small.
	for i := 1; i < len(agents); i++ {
		for j := i; j > 0 && s.Pending[agents[j]].Before(s.Pending[agents[j-1]]); j-- {
			agents[j], agents[j-1] = agents[j-1], agents[j]
		}
	}
	return agents
}

// =============================================================================
// REDUCER
// =============================================================================

// reduce applies one action and returns the next state. It never fails:
// actions referencing unknown ids return the state unchanged. The input
// state is not mutated; containers touched by the action are copied.
func reduce(s State, action Action) State {
	switch a := action.(type) {

	case AddChat:
		next := s
		next.Chats = append(append([]*model.Chat{}, s.Chats...), a.Chat)
		return next

	case SelectChat:
		if s.ChatByID(a.ID) == nil {
			return s
		}
		next := s
		next.SelectedID = a.ID
		return next

	case DeleteChat:
		if s.ChatByID(a.ID) == nil {
			return s
		}
		next := s
		next.Chats = make([]*model.Chat, 0, len(s.Chats)-1)
		for _, chat := range s.Chats {
			if chat.ID != a.ID {
				next.Chats = append(next.Chats, chat)
			}
		}
		if s.SelectedID == a.ID {
			next.SelectedID = ""
			if len(next.Chats) > 0 {
				next.SelectedID = next.Chats[0].ID
			}
		}
		return next

	case RenameChat:
		idx := indexOf(s.Chats, a.ID)
		if idx < 0 {
			return s
		}
		next := s
		next.Chats = append([]*model.Chat{}, s.Chats...)
		renamed := next.Chats[idx].Clone()
		renamed.Title = a.Title
		next.Chats[idx] = renamed
		return next

	case AppendMessage:
		idx := indexOf(s.Chats, a.ChatID)
		if idx < 0 || a.Message == nil {
			return s
		}
		next := s
		next.Chats = append([]*model.Chat{}, s.Chats...)
		appended := next.Chats[idx].Clone()
		appended.Append(a.Message)
		next.Chats[idx] = appended
		return next

	case RegisterPending:
		if a.Agent == "" {
			return s
		}
		next := s
		next.Pending = copyPending(s.Pending)
		next.Pending[a.Agent] = time.Now()
		return next

	case ClearPending:
		if _, ok := s.Pending[a.Agent]; !ok {
			return s
		}
		next := s
		next.Pending = copyPending(s.Pending)
		delete(next.Pending, a.Agent)
		return next

	case ClearAllPending:
		next := s
		next.Pending = make(map[string]time.Time)
		return next

	case SetLoading:
		next := s
		next.Loading = a.Loading
		if !a.Loading {
			next.Pending = make(map[string]time.Time)
		}
		return next

	case Hydrate:
		next := emptyState()
		next.Chats = append(next.Chats, a.Chats...)
		return next

	default:
		return s
	}
}

func indexOf(chats []*model.Chat, id string) int {
	for i, chat := range chats {
		if chat.ID == id {
			return i
		}
	}
	return -1
}

func copyPending(in map[string]time.Time) map[string]time.Time {
	out := make(map[string]time.Time, len(in))
	for agent, at := range in {
		out[agent] = at
	}
	return out
}

// =============================================================================
// STORE
// =============================================================================

// Subscriber receives a snapshot of the state after every dispatch.
// Snapshots are deep copies; holding or mutating them is safe.
type Subscriber func(State)

// Store serializes dispatches and fans state changes out to subscribers.
// In the teacher UI the bubbletea loop, the streaming goroutines, and the
// persistence timer all touch the store, so it carries its own lock.
type Store struct {
	mu    sync.Mutex
	state State

	subMu sync.Mutex
	subs  map[int]Subscriber
	nextS int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		state: emptyState(),
		subs:  make(map[int]Subscriber),
	}
}

// Dispatch applies an action and notifies subscribers with the resulting
// snapshot. Subscribers run outside the state lock.
func (st *Store) Dispatch(action Action) {
	st.mu.Lock()
	st.state = reduce(st.state, action)
	snapshot := st.state.clone()
	st.mu.Unlock()

	st.subMu.Lock()
	subs := make([]Subscriber, 0, len(st.subs))
	for _, sub := range st.subs {
		subs = append(subs, sub)
	}
	st.subMu.Unlock()

	for _, sub := range subs {
		sub(snapshot)
	}
}

// Subscribe registers a change listener and returns an unsubscribe func.
func (st *Store) Subscribe(sub Subscriber) func() {
	st.subMu.Lock()
	defer st.subMu.Unlock()
	id := st.nextS
	st.nextS++
	st.subs[id] = sub
	return func() {
		st.subMu.Lock()
		defer st.subMu.Unlock()
		delete(st.subs, id)
	}
}

// Snapshot returns a deep copy of the current state.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.clone()
}

// =============================================================================
// CONVENIENCE OPERATIONS
// =============================================================================

// CreateChat allocates a new empty chat, adds it to the list, and returns
// its id. The new chat is not auto-selected.
func (st *Store) CreateChat() string {
	chat := model.NewChat()
	st.Dispatch(AddChat{Chat: chat})
	return chat.ID
}

// SelectChat sets the selection. No-op for unknown ids.
func (st *Store) SelectChat(id string) {
	st.Dispatch(SelectChat{ID: id})
}

// DeleteChat removes a chat, moving the selection if needed.
func (st *Store) DeleteChat(id string) {
	st.Dispatch(DeleteChat{ID: id})
}

// RenameChat sets a chat title. No-op for unknown ids.
func (st *Store) RenameChat(id, title string) {
	st.Dispatch(RenameChat{ID: id, Title: title})
}

// AppendMessage appends to a chat. Messages for unknown chats are dropped.
func (st *Store) AppendMessage(chatID string, msg *model.Message) {
	st.Dispatch(AppendMessage{ChatID: chatID, Message: msg})
}

// RegisterPending marks an agent as owing a reply.
func (st *Store) RegisterPending(agent string) {
	st.Dispatch(RegisterPending{Agent: agent})
}

// ClearPending removes one agent's pending entry.
func (st *Store) ClearPending(agent string) {
	st.Dispatch(ClearPending{Agent: agent})
}

// ClearAllPending empties the pending ledger.
func (st *Store) ClearAllPending() {
	st.Dispatch(ClearAllPending{})
}

// SetLoading toggles the loading flag; false also clears the ledger.
func (st *Store) SetLoading(loading bool) {
	st.Dispatch(SetLoading{Loading: loading})
}

// Hydrate installs persisted chats. Called once at startup.
func (st *Store) Hydrate(chats []*model.Chat) {
	st.Dispatch(Hydrate{Chats: chats})
}
