package core

import (
	"math"
	"time"
)

// TokenBucket admits a request when at least one token is available.
// Tokens refill lazily at RefillRate per second, capped at Burst.
type TokenBucket struct {
	Burst      int
	RefillRate float64
}

// Evaluate refills the bucket up to now and decides. The refill updates
// Tokens and LastRefill so elapsed time is never counted twice, but no
// token is consumed here; consumption is the explicit Record step.
func (b *TokenBucket) Evaluate(state *UserState, op string, limit int, now time.Time) Verdict {
	b.refill(state, now)

	if state.Tokens >= 1.0 {
		return Verdict{Allowed: true}
	}

	needed := 1.0 - state.Tokens
	wait := time.Duration(math.Ceil(needed/b.RefillRate) * float64(time.Second))
	return Verdict{
		Allowed:    false,
		RetryAfter: ceilSeconds(wait),
	}
}

// Record consumes one token for an admitted request.
func (b *TokenBucket) Record(state *UserState, op string, now time.Time) {
	b.refill(state, now)
	state.Tokens -= 1.0
	if state.Tokens < 0 {
		state.Tokens = 0
	}
}

// Remaining reports whole tokens currently available.
func (b *TokenBucket) Remaining(state *UserState, op string, limit int, now time.Time) int {
	b.refill(state, now)
	return int(state.Tokens)
}

// refill adds tokens for the elapsed time since the last refill.
// Negative elapsed time (clock skew) is clamped to zero rather than
// draining the bucket.
func (b *TokenBucket) refill(state *UserState, now time.Time) {
	elapsed := now.Sub(state.LastRefill).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	state.Tokens = math.Min(float64(b.Burst), state.Tokens+elapsed*b.RefillRate)
	state.LastRefill = now
}
