package core

import "time"

// cooldownThreshold is the number of violations after which a cooldown
// window opens. Bans are configurable; this first escalation step is
// fixed so a pair of bursty denials never punishes a user.
const cooldownThreshold = 3

// Escalation turns repeated denials into cooldowns and bans.
type Escalation struct {
	// MaxViolations is the count at which a ban is imposed.
	MaxViolations int
	// BanDuration is how long an imposed ban lasts.
	BanDuration time.Duration
}

// Apply records one denial against the state and returns the resulting
// classification. cooldown is the resolved cooldown duration for the
// denied operation.
//
// The violation counter always increments first. At cooldownThreshold
// violations a cooldown opens unless one is already active; at
// MaxViolations a ban is imposed, the counter resets to zero, and the
// classification is forced to ClassBanned regardless of what the
// strategy produced.
func (e Escalation) Apply(state *UserState, cooldown time.Duration, now time.Time) Classification {
	state.Violations++

	if state.Violations >= cooldownThreshold && !state.InCooldown(now) {
		state.CooldownUntil = now.Add(cooldown)
	}

	if state.Violations >= e.MaxViolations {
		state.BannedUntil = now.Add(e.BanDuration)
		state.Violations = 0
		return ClassBanned
	}

	return ClassRateLimited
}
