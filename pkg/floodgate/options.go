package floodgate

import (
	"fmt"

	"github.com/yourusername/floodgate/store"
)

// Option is a functional option for configuring a Limiter.
type Option func(*Limiter) error

// WithConfig sets the configuration for the limiter.
func WithConfig(config *Config) Option {
	return func(l *Limiter) error {
		if config == nil {
			return fmt.Errorf("%w: config cannot be nil", ErrInvalidConfig)
		}
		l.config = config
		return nil
	}
}

// WithConfigFile loads configuration from a YAML file.
func WithConfigFile(path string) Option {
	return func(l *Limiter) error {
		config, err := LoadConfigFromFile(path)
		if err != nil {
			return err
		}
		l.config = config
		return nil
	}
}

// WithStore sets a custom state store. Defaults to an in-memory store.
func WithStore(s store.Store) Option {
	return func(l *Limiter) error {
		if s == nil {
			return fmt.Errorf("%w: store cannot be nil", ErrInvalidConfig)
		}
		l.store = s
		return nil
	}
}

// WithClock sets the time source. Defaults to the system clock.
func WithClock(c Clock) Option {
	return func(l *Limiter) error {
		if c == nil {
			return fmt.Errorf("%w: clock cannot be nil", ErrInvalidConfig)
		}
		l.clock = c
		return nil
	}
}

// WithRecorder attaches a per-check metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(l *Limiter) error {
		l.recorder = r
		return nil
	}
}

// WithOperationLimit registers an operation override at construction.
func WithOperationLimit(name string, limit OperationLimit) Option {
	return func(l *Limiter) error {
		if name == "" {
			return fmt.Errorf("%w: operation name cannot be empty", ErrInvalidOperation)
		}
		if err := limit.Validate(); err != nil {
			return err
		}
		if l.config.Operations == nil {
			l.config.Operations = make(map[string]OperationLimit)
		}
		l.config.Operations[name] = limit
		return nil
	}
}
