// Package floodgate re-exports the admission controller for convenient
// top-level import.
package floodgate

import (
	"github.com/yourusername/floodgate/pkg/floodgate"
)

// Re-export main types for convenience
type (
	Config         = floodgate.Config
	OperationLimit = floodgate.OperationLimit
	Limiter        = floodgate.Limiter
	Info           = floodgate.Info
	UserStatus     = floodgate.UserStatus
	Stats          = floodgate.Stats
	Option         = floodgate.Option
)

// New creates a new admission controller
var New = floodgate.New
