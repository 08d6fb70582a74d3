package core

import (
	"testing"
	"time"
)

func TestSlidingWindow_AdmitsUpToLimit(t *testing.T) {
	w := &SlidingWindow{Window: time.Minute}
	state := NewUserState(10, baseTime)

	for i := 0; i < 5; i++ {
		now := baseTime.Add(time.Duration(i) * time.Second)
		v := w.Evaluate(state, "buy", 5, now)
		if !v.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		w.Record(state, "buy", now)
	}

	// Count equal to the limit is a denial.
	v := w.Evaluate(state, "buy", 5, baseTime.Add(5*time.Second))
	if v.Allowed {
		t.Error("6th request within the window should be denied")
	}
	if v.RetryAfter <= 0 || v.RetryAfter > 60 {
		t.Errorf("RetryAfter = %d, want in (0, 60]", v.RetryAfter)
	}
}

func TestSlidingWindow_RetryAfterTracksOldest(t *testing.T) {
	w := &SlidingWindow{Window: time.Minute}
	state := NewUserState(10, baseTime)

	w.Record(state, "buy", baseTime)
	w.Record(state, "buy", baseTime.Add(10*time.Second))

	// At +30s both admissions are in the window; the oldest leaves at +60s.
	v := w.Evaluate(state, "buy", 2, baseTime.Add(30*time.Second))
	if v.Allowed {
		t.Fatal("request at limit should be denied")
	}
	if v.RetryAfter != 30 {
		t.Errorf("RetryAfter = %d, want 30", v.RetryAfter)
	}
}

func TestSlidingWindow_OldEntriesSlideOut(t *testing.T) {
	w := &SlidingWindow{Window: time.Minute}
	state := NewUserState(10, baseTime)

	w.Record(state, "buy", baseTime)
	w.Record(state, "buy", baseTime.Add(time.Second))

	// 61 seconds later both entries are outside the window.
	now := baseTime.Add(61 * time.Second)
	if v := w.Evaluate(state, "buy", 2, now); !v.Allowed {
		t.Error("request should be allowed after window slides past old entries")
	}
	if got := w.Remaining(state, "buy", 2, now); got != 2 {
		t.Errorf("Remaining = %d, want 2", got)
	}
}

func TestSlidingWindow_RecordPrunes(t *testing.T) {
	w := &SlidingWindow{Window: time.Minute}
	state := NewUserState(10, baseTime)

	for i := 0; i < 5; i++ {
		w.Record(state, "buy", baseTime.Add(time.Duration(i)*time.Second))
	}

	// Recording well past the window should drop the stale entries.
	w.Record(state, "buy", baseTime.Add(5*time.Minute))
	if got := len(state.Requests["buy"]); got != 1 {
		t.Errorf("stored timestamps = %d, want 1 after pruning", got)
	}
}

func TestSlidingWindow_OperationsAreIndependent(t *testing.T) {
	w := &SlidingWindow{Window: time.Minute}
	state := NewUserState(10, baseTime)

	for i := 0; i < 3; i++ {
		w.Record(state, "buy", baseTime)
	}

	if v := w.Evaluate(state, "buy", 3, baseTime); v.Allowed {
		t.Error("buy should be exhausted")
	}
	if v := w.Evaluate(state, "sell", 3, baseTime); !v.Allowed {
		t.Error("sell should be unaffected by buy admissions")
	}
}

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
