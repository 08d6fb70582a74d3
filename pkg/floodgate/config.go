package floodgate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/floodgate/core"
)

// Config holds the process-wide admission defaults. All numeric fields
// must be positive; Validate fails fast instead of clamping.
type Config struct {
	// RequestsPerMinute is the default per-minute limit for operations
	// without an override.
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// RequestsPerHour and RequestsPerDay are coarse secondary caps.
	// They are part of the recognized option surface and validated, but
	// the minute window is the enforcement gate.
	RequestsPerHour int `yaml:"requests_per_hour"`
	RequestsPerDay  int `yaml:"requests_per_day"`

	// BurstLimit and RefillRate drive the token bucket strategy.
	BurstLimit int     `yaml:"burst_limit"`
	RefillRate float64 `yaml:"refill_rate"`

	// Strategy selects the algorithm: sliding_window, token_bucket or
	// fixed_window.
	Strategy string `yaml:"strategy"`

	// CooldownAfterLimit is the cooldown duration, in seconds, opened
	// after repeated violations.
	CooldownAfterLimit int `yaml:"cooldown_after_limit"`

	// MaxViolations is the violation count at which a ban is imposed.
	MaxViolations int `yaml:"max_violations"`

	// BanDuration is the ban length in seconds.
	BanDuration int `yaml:"ban_duration"`

	// PriorityMultiplier scales window limits for priority users.
	PriorityMultiplier float64 `yaml:"priority_multiplier"`

	// Operations maps operation names to per-operation overrides.
	// Operations without an entry use the global defaults.
	Operations map[string]OperationLimit `yaml:"operations,omitempty"`
}

// NewConfig returns the default configuration: 60 requests/minute,
// sliding window, cooldown after repeated violations and a one-hour ban
// after five.
func NewConfig() *Config {
	return &Config{
		RequestsPerMinute:  60,
		RequestsPerHour:    1000,
		RequestsPerDay:     10000,
		BurstLimit:         10,
		RefillRate:         1.0,
		Strategy:           string(core.StrategySlidingWindow),
		CooldownAfterLimit: 300,
		MaxViolations:      5,
		BanDuration:        3600,
		PriorityMultiplier: 2.0,
	}
}

// LoadConfigFromFile loads configuration from a YAML file. Missing
// fields fall back to the defaults; invalid values fail.
func LoadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %v", ErrInvalidConfig, err)
	}

	config := NewConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration. Non-positive limits and unknown
// strategy names are construction-time errors, never defaulted.
func (c *Config) Validate() error {
	positives := []struct {
		name  string
		value float64
	}{
		{"requests_per_minute", float64(c.RequestsPerMinute)},
		{"requests_per_hour", float64(c.RequestsPerHour)},
		{"requests_per_day", float64(c.RequestsPerDay)},
		{"burst_limit", float64(c.BurstLimit)},
		{"refill_rate", c.RefillRate},
		{"cooldown_after_limit", float64(c.CooldownAfterLimit)},
		{"max_violations", float64(c.MaxViolations)},
		{"ban_duration", float64(c.BanDuration)},
		{"priority_multiplier", c.PriorityMultiplier},
	}
	for _, p := range positives {
		if p.value <= 0 {
			return fmt.Errorf("%w: %s", ErrNonPositiveLimit, p.name)
		}
	}

	if _, err := core.ParseStrategy(c.Strategy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	for name, op := range c.Operations {
		if err := op.Validate(); err != nil {
			return fmt.Errorf("%w: operation %q: %v", ErrInvalidConfig, name, err)
		}
	}
	return nil
}
