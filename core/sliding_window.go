package core

import "time"

// SlidingWindow admits a request when fewer than limit admissions fall
// inside the trailing window. A count equal to the limit is a denial.
type SlidingWindow struct {
	Window time.Duration
}

// Evaluate counts admissions strictly newer than now-Window for the
// operation. On denial the retry hint is the time until the oldest
// in-window admission slides out.
func (w *SlidingWindow) Evaluate(state *UserState, op string, limit int, now time.Time) Verdict {
	cutoff := now.Add(-w.Window)

	var count int
	var oldest time.Time
	for _, ts := range state.Requests[op] {
		if ts.After(cutoff) {
			if count == 0 {
				oldest = ts
			}
			count++
		}
	}

	if count < limit {
		return Verdict{Allowed: true}
	}

	return Verdict{
		Allowed:    false,
		RetryAfter: ceilSeconds(oldest.Add(w.Window).Sub(now)),
	}
}

// Record appends the admission and prunes entries that have left the
// window. Pruning only bounds memory; the count in Evaluate is always
// taken against the cutoff.
func (w *SlidingWindow) Record(state *UserState, op string, now time.Time) {
	cutoff := now.Add(-w.Window)
	kept := state.Requests[op][:0]
	for _, ts := range state.Requests[op] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	state.Requests[op] = append(kept, now)
}

// Remaining reports the unused quota in the current window, never
// negative.
func (w *SlidingWindow) Remaining(state *UserState, op string, limit int, now time.Time) int {
	cutoff := now.Add(-w.Window)
	count := 0
	for _, ts := range state.Requests[op] {
		if ts.After(cutoff) {
			count++
		}
	}
	if count >= limit {
		return 0
	}
	return limit - count
}
