package scheduler

import "time"

// Clock supplies "today" for the scheduling engine. Injectable so tests can
// time-travel.
type Clock interface {
	Today() time.Time
}

// DateOnly truncates a timestamp to its calendar day in UTC. All scheduling
// arithmetic runs on day-granular dates.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type systemClock struct{}

func (systemClock) Today() time.Time {
	return DateOnly(time.Now())
}

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock {
	return systemClock{}
}

// FixedClock is a test clock pinned to a specific day.
type FixedClock struct {
	day time.Time
}

// NewFixedClock returns a FixedClock pinned to the day of t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{day: DateOnly(t)}
}

func (c *FixedClock) Today() time.Time {
	return c.day
}

// Set pins the clock to the day of t.
func (c *FixedClock) Set(t time.Time) {
	c.day = DateOnly(t)
}

// Advance moves the clock forward by the given number of days.
func (c *FixedClock) Advance(days int) {
	c.day = c.day.AddDate(0, 0, days)
}
