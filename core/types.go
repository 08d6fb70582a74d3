package core

import (
	"fmt"
	"time"
)

// Strategy selects the admission algorithm.
type Strategy string

const (
	StrategySlidingWindow Strategy = "sliding_window"
	StrategyTokenBucket   Strategy = "token_bucket"
	StrategyFixedWindow   Strategy = "fixed_window"
)

// ParseStrategy validates a strategy name. Unknown names are a
// configuration error, never silently defaulted.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategySlidingWindow, StrategyTokenBucket, StrategyFixedWindow:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Classification describes the outcome of an admission check.
type Classification string

const (
	ClassAllowed     Classification = "allowed"
	ClassRateLimited Classification = "rate_limited"
	ClassCooldown    Classification = "cooldown"
	ClassBanned      Classification = "banned"
)

// UserState is the mutable per-user record. One exists per distinct user,
// created lazily on first contact. All mutation happens inside the
// admission controller's critical section; the fields are exported for
// store serialization, not for direct use by callers.
type UserState struct {
	// Requests holds admission timestamps per operation, newest last.
	// Used by the window strategies.
	Requests map[string][]time.Time `json:"requests"`

	// Tokens and LastRefill are the token bucket state.
	Tokens     float64   `json:"tokens"`
	LastRefill time.Time `json:"last_refill"`

	// Violations counts denied checks since the last ban or reset.
	Violations int `json:"violations"`

	// BannedUntil and CooldownUntil are lazy-expiry deadlines: a zero or
	// past value means the state is inactive, even if never cleared.
	BannedUntil   time.Time `json:"banned_until"`
	CooldownUntil time.Time `json:"cooldown_until"`

	// Priority marks users whose window limits are scaled up.
	Priority bool `json:"priority"`

	// LastRequest is updated on every check and drives idle cleanup.
	LastRequest time.Time `json:"last_request"`
}

// NewUserState creates a fresh state with a full token bucket.
func NewUserState(burst int, now time.Time) *UserState {
	return &UserState{
		Requests:    make(map[string][]time.Time),
		Tokens:      float64(burst),
		LastRefill:  now,
		LastRequest: now,
	}
}

// Banned reports whether an active ban covers now.
func (s *UserState) Banned(now time.Time) bool {
	return !s.BannedUntil.IsZero() && s.BannedUntil.After(now)
}

// InCooldown reports whether an active cooldown covers now.
func (s *UserState) InCooldown(now time.Time) bool {
	return !s.CooldownUntil.IsZero() && s.CooldownUntil.After(now)
}

// Verdict is a strategy's decision for a single check. RetryAfter is in
// whole seconds and is always >= 1 when Allowed is false, so callers can
// never busy-retry on a zero hint.
type Verdict struct {
	Allowed    bool
	RetryAfter int
}

// Evaluator is the shared strategy contract. Evaluate must not consume
// quota; recording an admission is the caller's explicit second step, so
// two evaluations without a Record in between reach the same decision
// (the token bucket may normalize its refill bookkeeping, which does not
// change the outcome).
type Evaluator interface {
	Evaluate(state *UserState, op string, limit int, now time.Time) Verdict
	Record(state *UserState, op string, now time.Time)
	Remaining(state *UserState, op string, limit int, now time.Time) int
}

// NewEvaluator builds the evaluator for a strategy.
// burst and refillRate only matter for the token bucket.
func NewEvaluator(s Strategy, burst int, refillRate float64) (Evaluator, error) {
	switch s {
	case StrategySlidingWindow:
		return &SlidingWindow{Window: time.Minute}, nil
	case StrategyTokenBucket:
		if burst <= 0 {
			return nil, ErrNonPositiveBurst
		}
		if refillRate <= 0 {
			return nil, ErrNonPositiveRefillRate
		}
		return &TokenBucket{Burst: burst, RefillRate: refillRate}, nil
	case StrategyFixedWindow:
		return &FixedWindow{Window: time.Minute}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(s))
}

// ceilSeconds converts a wait duration to whole seconds, rounding up and
// flooring at 1 so a denial never reports a zero or negative retry hint.
func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 1
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
