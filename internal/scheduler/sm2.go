package scheduler

import "math"

const (
	// InitialEasiness is the SM-2 baseline easiness factor for a new card.
	InitialEasiness = 2.5
	// MinEasiness is the floor below which the easiness factor never drops.
	MinEasiness = 1.3
)

// State is the SM-2 scheduling state carried between reviews.
type State struct {
	Easiness    float64
	Interval    int // nominal interval in days
	Repetitions int // consecutive-success counter
}

// NewState returns the baseline state used for a card's first memorization.
func NewState() State {
	return State{Easiness: InitialEasiness}
}

// Step applies one SM-2 transition and returns the next state. Pure function:
// no clock, no I/O. A failing grade (< 3) resets the repetition ladder and
// schedules a one-day retry; successes climb 1, 6, then prior*easiness days.
func Step(prior State, grade Grade) State {
	q := float64(grade)
	ef := prior.Easiness + 0.1 - (5-q)*(0.08+(5-q)*0.02)
	if ef < MinEasiness {
		ef = MinEasiness
	}

	next := State{Easiness: ef}
	if grade.Failing() {
		next.Interval = 1
		next.Repetitions = 0
		return next
	}

	next.Repetitions = prior.Repetitions + 1
	switch prior.Repetitions {
	case 0:
		next.Interval = 1
	case 1:
		next.Interval = 6
	default:
		next.Interval = int(math.Ceil(float64(prior.Interval) * ef))
	}
	return next
}
