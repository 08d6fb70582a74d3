package floodgate

import (
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/floodgate/core"
	"github.com/yourusername/floodgate/store"
)

// Info is the result of an admission check. It is a value, never stored;
// rejection is communicated here, not by an error.
type Info struct {
	// Classification is allowed, rate_limited, cooldown or banned.
	Classification core.Classification `json:"classification"`

	// Allowed indicates whether the caller may perform the operation now.
	Allowed bool `json:"allowed"`

	// Remaining is the unused quota for the operation, never negative.
	Remaining int `json:"remaining"`

	// Limit is the effective limit applied to this check.
	Limit int `json:"limit"`

	// ResetAt is when the denial lapses. Zero when allowed.
	ResetAt time.Time `json:"reset_at,omitempty"`

	// RetryAfter is whole seconds to wait, always > 0 when denied.
	RetryAfter int `json:"retry_after,omitempty"`

	// Message is a human-readable summary for the host to surface.
	Message string `json:"message"`
}

// UserStatus is a read-only snapshot of one user's state.
type UserStatus struct {
	UserID             string    `json:"user_id"`
	Priority           bool      `json:"priority"`
	RequestsLastMinute int       `json:"requests_last_minute"`
	Violations         int       `json:"violations"`
	Banned             bool      `json:"banned"`
	BannedUntil        time.Time `json:"banned_until,omitempty"`
	InCooldown         bool      `json:"in_cooldown"`
	CooldownUntil      time.Time `json:"cooldown_until,omitempty"`

	// Tokens is only meaningful under the token_bucket strategy.
	Tokens float64 `json:"tokens,omitempty"`
}

// Stats aggregates limiter-wide counters.
type Stats struct {
	TotalUsers    int           `json:"total_users"`
	TotalRequests int64         `json:"total_requests"`
	TotalLimited  int64         `json:"total_limited"`
	LimitRate     float64       `json:"limit_rate"`
	BannedUsers   int           `json:"banned_users"`
	Strategy      core.Strategy `json:"strategy"`
}

// Recorder receives one event per admission check. The metrics package
// provides an implementation; nil disables recording.
type Recorder interface {
	RecordRequest(userID string, allowed bool)
}

// Limiter is the admission controller: the single entry point deciding
// whether a (user, operation) pair may proceed now, must wait, or is
// banned. One mutex serializes every decide-and-mutate path, so two
// concurrent checks for the same user can never both take the last slot.
type Limiter struct {
	mu         sync.Mutex
	config     *Config
	strategy   core.Strategy
	eval       core.Evaluator
	escalation core.Escalation
	operations map[string]OperationLimit
	store      store.Store
	clock      Clock
	recorder   Recorder

	totalRequests int64
	totalLimited  int64
}

// New creates a Limiter with the given options.
//
// Example:
//
//	limiter, err := floodgate.New(
//	    floodgate.WithConfigFile("floodgate.yaml"),
//	)
func New(opts ...Option) (*Limiter, error) {
	l := &Limiter{
		config: NewConfig(),
		clock:  systemClock{},
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	strategy, err := core.ParseStrategy(l.config.Strategy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	l.strategy = strategy

	eval, err := core.NewEvaluator(strategy, l.config.BurstLimit, l.config.RefillRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	l.eval = eval

	l.escalation = core.Escalation{
		MaxViolations: l.config.MaxViolations,
		BanDuration:   time.Duration(l.config.BanDuration) * time.Second,
	}

	l.operations = defaultOperationLimits()
	for name, op := range l.config.Operations {
		l.operations[name] = op
	}

	if l.store == nil {
		l.store = store.NewMemoryStore()
	}

	return l, nil
}

// Check decides admission for one (user, operation) pair. An empty
// operation means DefaultOperation. The whole decide-and-record sequence
// runs under the critical section against one observed "now".
func (l *Limiter) Check(userID, operation string) Info {
	if operation == "" {
		operation = DefaultOperation
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	l.totalRequests++

	state := l.store.Get(userID)
	if state == nil {
		state = core.NewUserState(l.config.BurstLimit, now)
	}
	state.LastRequest = now

	limit := l.effectiveLimit(state, operation)

	// Active ban or cooldown short-circuits before any strategy work.
	// Expired deadlines are simply ignored, never eagerly cleared.
	if state.Banned(now) {
		l.totalLimited++
		l.store.Set(userID, state)
		l.record(userID, false)
		return l.deniedInfo(core.ClassBanned, limit, state.BannedUntil, now)
	}
	if state.InCooldown(now) {
		l.totalLimited++
		l.store.Set(userID, state)
		l.record(userID, false)
		return l.deniedInfo(core.ClassCooldown, limit, state.CooldownUntil, now)
	}

	verdict := l.eval.Evaluate(state, operation, limit, now)
	if verdict.Allowed {
		l.eval.Record(state, operation, now)
		remaining := l.eval.Remaining(state, operation, limit, now)
		l.store.Set(userID, state)
		l.record(userID, true)
		return Info{
			Classification: core.ClassAllowed,
			Allowed:        true,
			Remaining:      remaining,
			Limit:          limit,
			Message:        "request allowed",
		}
	}

	l.totalLimited++
	class := l.escalation.Apply(state, l.cooldownFor(operation), now)
	l.store.Set(userID, state)
	l.record(userID, false)

	if class == core.ClassBanned {
		return l.deniedInfo(core.ClassBanned, limit, state.BannedUntil, now)
	}

	retry := verdict.RetryAfter
	return Info{
		Classification: core.ClassRateLimited,
		Allowed:        false,
		Remaining:      0,
		Limit:          limit,
		ResetAt:        now.Add(time.Duration(retry) * time.Second),
		RetryAfter:     retry,
		Message:        fmt.Sprintf("rate limit exceeded for %s, retry in %ds", operation, retry),
	}
}

// RetryAfter reports how many seconds the user must wait before the
// operation could be admitted, without consuming quota or touching the
// violation counters. Zero means a check would be allowed now.
func (l *Limiter) RetryAfter(userID, operation string) int {
	if operation == "" {
		operation = DefaultOperation
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	state := l.store.Get(userID)
	if state == nil {
		return 0
	}

	if state.Banned(now) {
		return secondsUntil(state.BannedUntil, now)
	}
	if state.InCooldown(now) {
		return secondsUntil(state.CooldownUntil, now)
	}

	verdict := l.eval.Evaluate(state, operation, l.effectiveLimit(state, operation), now)
	if verdict.Allowed {
		return 0
	}
	return verdict.RetryAfter
}

// SetPriorityUser marks or unmarks a user as priority. Priority scales
// the window limits by the configured multiplier; by an explicit design
// decision it does not scale the token bucket's burst capacity.
func (l *Limiter) SetPriorityUser(userID string, priority bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	state := l.store.Get(userID)
	if state == nil {
		state = core.NewUserState(l.config.BurstLimit, now)
	}
	state.Priority = priority
	l.store.Set(userID, state)
}

// ResetUser clears all counters and timestamps for a user, preserving
// only the priority flag. Safe for users never seen before.
func (l *Limiter) ResetUser(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	priority := false
	if prev := l.store.Get(userID); prev != nil {
		priority = prev.Priority
	}

	state := core.NewUserState(l.config.BurstLimit, now)
	state.Priority = priority
	l.store.Set(userID, state)
}

// UnbanUser lifts any ban and cooldown and zeroes the violation counter.
// Safe for users never seen before.
func (l *Limiter) UnbanUser(userID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	state := l.store.Get(userID)
	if state == nil {
		state = core.NewUserState(l.config.BurstLimit, now)
	}
	state.BannedUntil = time.Time{}
	state.CooldownUntil = time.Time{}
	state.Violations = 0
	l.store.Set(userID, state)
}

// UserStatus returns a read-only snapshot. It never mutates state, so
// two consecutive calls with no check in between are identical.
func (l *Limiter) UserStatus(userID string) UserStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	status := UserStatus{UserID: userID}
	state := l.store.Get(userID)
	if state == nil {
		return status
	}

	now := l.clock.Now()
	cutoff := now.Add(-time.Minute)
	for _, stamps := range state.Requests {
		for _, ts := range stamps {
			if ts.After(cutoff) {
				status.RequestsLastMinute++
			}
		}
	}

	status.Priority = state.Priority
	status.Violations = state.Violations
	status.Banned = state.Banned(now)
	if status.Banned {
		status.BannedUntil = state.BannedUntil
	}
	status.InCooldown = state.InCooldown(now)
	if status.InCooldown {
		status.CooldownUntil = state.CooldownUntil
	}
	if l.strategy == core.StrategyTokenBucket {
		status.Tokens = state.Tokens
	}
	return status
}

// Stats returns limiter-wide aggregates.
func (l *Limiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	banned := 0
	l.store.ForEach(func(_ string, state *core.UserState) {
		if state.Banned(now) {
			banned++
		}
	})

	stats := Stats{
		TotalUsers:    l.store.Count(),
		TotalRequests: l.totalRequests,
		TotalLimited:  l.totalLimited,
		BannedUsers:   banned,
		Strategy:      l.strategy,
	}
	if l.totalRequests > 0 {
		stats.LimitRate = float64(l.totalLimited) / float64(l.totalRequests)
	}
	return stats
}

// Cleanup evicts users whose last request is older than maxAge and
// returns the removed count. Runs under the same exclusion as checks.
func (l *Limiter) Cleanup(maxAge time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.clock.Now().Add(-maxAge)
	return l.store.Cleanup(cutoff)
}

// Strategy returns the configured admission strategy.
func (l *Limiter) Strategy() core.Strategy {
	return l.strategy
}

// effectiveLimit resolves the per-minute limit for an operation: the
// registry override when present, the global default otherwise, scaled
// (floored) by the priority multiplier for priority users. Under the
// token bucket strategy the burst limit is what callers see as "limit".
func (l *Limiter) effectiveLimit(state *core.UserState, operation string) int {
	if l.strategy == core.StrategyTokenBucket {
		return l.config.BurstLimit
	}

	limit := l.config.RequestsPerMinute
	if op, ok := l.operations[operation]; ok {
		limit = op.RequestsPerMinute
	}
	if state.Priority {
		limit = int(float64(limit) * l.config.PriorityMultiplier)
	}
	return limit
}

// cooldownFor resolves the cooldown duration for an operation.
func (l *Limiter) cooldownFor(operation string) time.Duration {
	if op, ok := l.operations[operation]; ok && op.CooldownSeconds > 0 {
		return time.Duration(op.CooldownSeconds) * time.Second
	}
	return time.Duration(l.config.CooldownAfterLimit) * time.Second
}

func (l *Limiter) deniedInfo(class core.Classification, limit int, until time.Time, now time.Time) Info {
	retry := secondsUntil(until, now)
	var msg string
	switch class {
	case core.ClassBanned:
		msg = fmt.Sprintf("temporarily banned, retry in %ds", retry)
	default:
		msg = fmt.Sprintf("cooling down after repeated violations, retry in %ds", retry)
	}
	return Info{
		Classification: class,
		Allowed:        false,
		Remaining:      0,
		Limit:          limit,
		ResetAt:        until,
		RetryAfter:     retry,
		Message:        msg,
	}
}

func (l *Limiter) record(userID string, allowed bool) {
	if l.recorder != nil {
		l.recorder.RecordRequest(userID, allowed)
	}
}

// secondsUntil rounds the wait up to whole seconds, floored at 1 so a
// denial never reports a zero retry hint.
func secondsUntil(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 1
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
