package core

import (
	"testing"
	"time"
)

func TestEscalation_IncrementsBelowThreshold(t *testing.T) {
	e := Escalation{MaxViolations: 5, BanDuration: time.Hour}
	state := NewUserState(10, baseTime)

	for i := 1; i <= 2; i++ {
		class := e.Apply(state, 5*time.Minute, baseTime)
		if class != ClassRateLimited {
			t.Errorf("violation %d: classification = %s, want %s", i, class, ClassRateLimited)
		}
		if state.Violations != i {
			t.Errorf("violation %d: counter = %d, want %d", i, state.Violations, i)
		}
	}
	if state.InCooldown(baseTime) {
		t.Error("no cooldown should open below the threshold")
	}
}

func TestEscalation_OpensCooldownAtThreshold(t *testing.T) {
	e := Escalation{MaxViolations: 5, BanDuration: time.Hour}
	state := NewUserState(10, baseTime)

	for i := 0; i < 3; i++ {
		e.Apply(state, 5*time.Minute, baseTime)
	}

	if !state.InCooldown(baseTime.Add(time.Second)) {
		t.Fatal("third violation should open a cooldown")
	}
	want := baseTime.Add(5 * time.Minute)
	if !state.CooldownUntil.Equal(want) {
		t.Errorf("CooldownUntil = %v, want %v", state.CooldownUntil, want)
	}
}

func TestEscalation_DoesNotExtendActiveCooldown(t *testing.T) {
	e := Escalation{MaxViolations: 10, BanDuration: time.Hour}
	state := NewUserState(10, baseTime)

	for i := 0; i < 3; i++ {
		e.Apply(state, 5*time.Minute, baseTime)
	}
	first := state.CooldownUntil

	e.Apply(state, 5*time.Minute, baseTime.Add(time.Minute))
	if !state.CooldownUntil.Equal(first) {
		t.Errorf("active cooldown extended: %v -> %v", first, state.CooldownUntil)
	}
}

func TestEscalation_BanResetsViolations(t *testing.T) {
	e := Escalation{MaxViolations: 5, BanDuration: time.Hour}
	state := NewUserState(10, baseTime)
	now := baseTime

	var class Classification
	for i := 0; i < 5; i++ {
		// Step past any cooldown so every denial lands on the counter.
		now = now.Add(10 * time.Minute)
		class = e.Apply(state, 5*time.Minute, now)
	}

	if class != ClassBanned {
		t.Fatalf("classification = %s, want %s after max violations", class, ClassBanned)
	}
	if state.Violations != 0 {
		t.Errorf("Violations = %d, want 0 immediately after ban", state.Violations)
	}
	if !state.Banned(now.Add(time.Second)) {
		t.Error("state should report banned")
	}
	want := now.Add(time.Hour)
	if !state.BannedUntil.Equal(want) {
		t.Errorf("BannedUntil = %v, want %v", state.BannedUntil, want)
	}
}

func TestUserState_LazyExpiry(t *testing.T) {
	state := NewUserState(10, baseTime)
	state.BannedUntil = baseTime.Add(time.Minute)
	state.CooldownUntil = baseTime.Add(time.Minute)

	if !state.Banned(baseTime) || !state.InCooldown(baseTime) {
		t.Fatal("deadlines in the future should be active")
	}

	// Expired deadlines are inactive even though never cleared.
	later := baseTime.Add(2 * time.Minute)
	if state.Banned(later) {
		t.Error("expired ban should be inactive")
	}
	if state.InCooldown(later) {
		t.Error("expired cooldown should be inactive")
	}
}
