// Package floodgate provides per-user, per-operation admission control
// for Go applications: every incoming action is either admitted now,
// told how long to wait, or rejected because the actor is temporarily
// banned.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	limiter, err := floodgate.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	info := limiter.Check("user-123", "buy")
//	if !info.Allowed {
//	    fmt.Printf("denied (%s), retry in %ds\n", info.Classification, info.RetryAfter)
//	}
//
// # Strategies
//
// Three interchangeable algorithms decide admission:
//
//   - sliding_window: counts admissions in the trailing 60 seconds
//   - token_bucket: burst-friendly, refills at a constant rate
//   - fixed_window: counts admissions per wall-clock minute
//
// All three deny when the count reaches the limit and always report a
// positive retry hint, so callers can never busy-retry.
//
// # Escalation
//
// Denials escalate automatically: three violations open a cooldown
// window, and reaching max_violations (default 5) imposes a ban and
// resets the counter. Cooldowns and bans expire lazily; UnbanUser and
// ResetUser lift them early.
//
// # Operations
//
// Limits resolve per operation. The registry ships with entries for the
// guarded trading actions (market_scan, buy, sell, balance_check,
// api_request); unknown operation names are not an error and fall back
// to the global defaults. Priority users get their window limits scaled
// by priority_multiplier.
//
// # Configuration
//
// Load configuration from a YAML file:
//
//	limiter, err := floodgate.New(
//	    floodgate.WithConfigFile("floodgate.yaml"),
//	)
//
// Example YAML configuration:
//
//	requests_per_minute: 60
//	burst_limit: 10
//	refill_rate: 1.0
//	strategy: sliding_window
//	cooldown_after_limit: 300
//	max_violations: 5
//	ban_duration: 3600
//	priority_multiplier: 2.0
//
//	operations:
//	  buy:
//	    requests_per_minute: 5
//	    cooldown_seconds: 600
//
// Non-positive limits and unknown strategy names fail at construction;
// nothing is silently clamped.
//
// # Concurrency
//
// One limiter instance is safe for concurrent use from many goroutines.
// A single mutex serializes every decide-and-mutate path, so two
// concurrent checks for the same user can never both take the last
// available slot. No operation performs I/O or blocks while holding the
// critical section (the optional Redis store excepted).
//
// # Storage
//
// User state lives in an in-memory store by default. The store.Store
// interface also ships a Redis-backed implementation for hosts that
// want limiter state to survive restarts; see the store package for its
// caveats.
package floodgate
