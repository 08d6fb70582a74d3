package core

import "time"

// FixedWindow admits a request when fewer than limit admissions fall in
// the current wall-clock-aligned window. The whole quota becomes
// available again at each window boundary.
type FixedWindow struct {
	Window time.Duration
}

// Evaluate counts admissions at or after the start of the current
// window. On denial the retry hint is the time until the next boundary.
func (w *FixedWindow) Evaluate(state *UserState, op string, limit int, now time.Time) Verdict {
	start := now.Truncate(w.Window)

	count := 0
	for _, ts := range state.Requests[op] {
		if !ts.Before(start) {
			count++
		}
	}

	if count < limit {
		return Verdict{Allowed: true}
	}

	return Verdict{
		Allowed:    false,
		RetryAfter: ceilSeconds(start.Add(w.Window).Sub(now)),
	}
}

// Record appends the admission and drops entries from earlier windows.
func (w *FixedWindow) Record(state *UserState, op string, now time.Time) {
	start := now.Truncate(w.Window)
	kept := state.Requests[op][:0]
	for _, ts := range state.Requests[op] {
		if !ts.Before(start) {
			kept = append(kept, ts)
		}
	}
	state.Requests[op] = append(kept, now)
}

// Remaining reports the unused quota in the current window, never
// negative.
func (w *FixedWindow) Remaining(state *UserState, op string, limit int, now time.Time) int {
	start := now.Truncate(w.Window)
	count := 0
	for _, ts := range state.Requests[op] {
		if !ts.Before(start) {
			count++
		}
	}
	if count >= limit {
		return 0
	}
	return limit - count
}
