package engine

import "time"

// Clock supplies the engine's notion of "now". Cap-period windows and
// the rent-day boost are calendar-dependent, so tests inject a fixed
// clock to pin them down.
type Clock interface {
	Now() time.Time
}

// systemClock is the production clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }
