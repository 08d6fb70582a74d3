package floodgate

import "time"

// Clock supplies the controller's view of "now". Every step of a single
// check observes the same instant. Inject a fake in tests to drive the
// windows deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
