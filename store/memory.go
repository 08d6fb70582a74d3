package store

import (
	"sync"
	"time"

	"github.com/yourusername/floodgate/core"
)

// MemoryStore keeps user state in an in-process map. It is the default
// backend and the only one covered by the controller's single-process
// atomicity guarantees.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*core.UserState
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]*core.UserState)}
}

// Get returns the live state pointer for a user, or nil.
func (s *MemoryStore) Get(userID string) *core.UserState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[userID]
}

// Set stores the state for a user.
func (s *MemoryStore) Set(userID string, state *core.UserState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = state
}

// Delete removes a user's state.
func (s *MemoryStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
}

// Clear removes all state.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*core.UserState)
}

// Count returns the number of tracked users.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// ForEach visits every tracked user under the read lock.
func (s *MemoryStore) ForEach(fn func(userID string, state *core.UserState)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, state := range s.users {
		fn(id, state)
	}
}

// Cleanup evicts users idle since before cutoff.
func (s *MemoryStore) Cleanup(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, state := range s.users {
		if state.LastRequest.Before(cutoff) {
			delete(s.users, id)
			removed++
		}
	}
	return removed
}
