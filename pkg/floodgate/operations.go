package floodgate

import "fmt"

// DefaultOperation is the operation metered when a caller names none.
const DefaultOperation = "api_request"

// OperationLimit overrides the global limits for a single operation.
// Zero optional fields mean "use the global default".
type OperationLimit struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerHour   int `yaml:"requests_per_hour,omitempty" json:"requests_per_hour,omitempty"`
	CooldownSeconds   int `yaml:"cooldown_seconds,omitempty" json:"cooldown_seconds,omitempty"`
}

// Validate checks an operation override.
func (o OperationLimit) Validate() error {
	if o.RequestsPerMinute <= 0 {
		return fmt.Errorf("%w: requests_per_minute must be positive", ErrInvalidOperation)
	}
	if o.RequestsPerHour < 0 {
		return fmt.Errorf("%w: requests_per_hour cannot be negative", ErrInvalidOperation)
	}
	if o.CooldownSeconds < 0 {
		return fmt.Errorf("%w: cooldown_seconds cannot be negative", ErrInvalidOperation)
	}
	return nil
}

// defaultOperationLimits seeds the registry with the guarded trading
// actions. Hosts extend or replace entries via config or
// SetOperationLimit; operation names are open-ended and absence simply
// falls back to the global defaults.
func defaultOperationLimits() map[string]OperationLimit {
	return map[string]OperationLimit{
		"market_scan":    {RequestsPerMinute: 10, RequestsPerHour: 300},
		"buy":            {RequestsPerMinute: 5, RequestsPerHour: 100, CooldownSeconds: 600},
		"sell":           {RequestsPerMinute: 5, RequestsPerHour: 100, CooldownSeconds: 600},
		"balance_check":  {RequestsPerMinute: 30},
		DefaultOperation: {RequestsPerMinute: 60},
	}
}

// SetOperationLimit registers or replaces an operation override at
// runtime.
func (l *Limiter) SetOperationLimit(name string, limit OperationLimit) error {
	if name == "" {
		return fmt.Errorf("%w: operation name cannot be empty", ErrInvalidOperation)
	}
	if err := limit.Validate(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.operations[name] = limit
	return nil
}

// OperationLimits returns a copy of the registered overrides.
func (l *Limiter) OperationLimits() map[string]OperationLimit {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]OperationLimit, len(l.operations))
	for name, limit := range l.operations {
		out[name] = limit
	}
	return out
}
