package store

import (
	"time"

	"github.com/yourusername/floodgate/core"
)

// Store holds per-user admission state. The admission controller
// serializes all decide-and-mutate sequences itself, so implementations
// only need to make individual operations safe, not whole check flows.
type Store interface {
	// Get returns the state for a user, or nil if the user is unknown.
	Get(userID string) *core.UserState

	// Set stores the state for a user.
	Set(userID string, state *core.UserState)

	// Delete removes a user's state.
	Delete(userID string)

	// Clear removes all state.
	Clear()

	// Count returns the number of tracked users.
	Count() int

	// ForEach visits every tracked user. The callback must not call
	// back into the store.
	ForEach(fn func(userID string, state *core.UserState))

	// Cleanup removes users whose last request is before cutoff and
	// returns the removed count.
	Cleanup(cutoff time.Time) int
}
