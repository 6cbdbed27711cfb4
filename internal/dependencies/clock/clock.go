package clock

import "time"

// DateLayout is the calendar-date stamp used for daily action counters.
// Daily caps reset at local midnight, so stamps use the server's local zone.
const DateLayout = "2006-01-02"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time

	// Today returns the current local calendar date as a DateLayout stamp
	Today() string
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Today returns the current local date stamp
func (c *RealClock) Today() string {
	return time.Now().Format(DateLayout)
}
