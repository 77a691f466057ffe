package scheduler

import (
	"context"
	"time"
)

// DefaultWindow is the number of days the allocator may shift a review
// forward from its nominal date.
const DefaultWindow = 3

// CountFunc reports how many of a user's review records are already
// scheduled on the given day. Counts must come from committed records so
// that sequential allocations self-balance.
type CountFunc func(ctx context.Context, day time.Time) (int, error)

// Allocator converts a nominal review date into an actual one, spreading a
// user's review load across a short window to avoid single-day pile-ups.
type Allocator struct {
	Window int
}

// NewAllocator returns an Allocator with the given window, falling back to
// DefaultWindow for non-positive values.
func NewAllocator(window int) Allocator {
	if window < 1 {
		window = DefaultWindow
	}
	return Allocator{Window: window}
}

// Allocate scans the days nominal..nominal+Window-1 and returns the one with
// the fewest already-scheduled reviews, preferring the earliest day on ties.
func (a Allocator) Allocate(ctx context.Context, nominal time.Time, count CountFunc) (time.Time, error) {
	best := nominal
	bestCount := -1
	for i := 0; i < a.Window; i++ {
		day := nominal.AddDate(0, 0, i)
		c, err := count(ctx, day)
		if err != nil {
			return time.Time{}, err
		}
		if bestCount < 0 || c < bestCount {
			best = day
			bestCount = c
		}
	}
	return best, nil
}
