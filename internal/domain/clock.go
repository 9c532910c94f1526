package domain

import "github.com/jonboulle/clockwork"

// clock supplies the run's year and month for timestamp tokens, which encode
// only day and hour. Production code uses the real clock; tests and fixture
// generators inject a fake for deterministic output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
