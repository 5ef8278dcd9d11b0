package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps simulation results. Tests freeze it with SetClock so that
// generated_at and derived ids are reproducible.
var clock = clockwork.NewRealClock()

// SetClock replaces the time source used for generated_at. Pass nil to
// restore the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

func now() time.Time {
	return clock.Now().UTC()
}
