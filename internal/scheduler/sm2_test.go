package scheduler_test

import (
	"testing"

	"github.com/jswierad/memodeck/internal/scheduler"
	"github.com/stretchr/testify/assert"
)

func TestStep_PerfectScore(t *testing.T) {
	prior := scheduler.State{Easiness: 2.5, Interval: 6, Repetitions: 2}

	next := scheduler.Step(prior, 5)

	assert.InDelta(t, 2.6, next.Easiness, 1e-9, "easiness should grow on a perfect answer")
	assert.Equal(t, 3, next.Repetitions, "repetitions should increment")
	assert.Equal(t, 16, next.Interval, "interval should be ceil(6 * 2.6)")
}

func TestStep_FailureResetsLadder(t *testing.T) {
	tests := []struct {
		name  string
		grade scheduler.Grade
	}{
		{name: "blackout", grade: 0},
		{name: "wrong", grade: 1},
		{name: "wrong but familiar", grade: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prior := scheduler.State{Easiness: 2.5, Interval: 30, Repetitions: 7}

			next := scheduler.Step(prior, tt.grade)

			assert.Equal(t, 1, next.Interval, "failure should schedule a one-day retry")
			assert.Equal(t, 0, next.Repetitions, "failure should reset the repetition ladder")
			assert.Less(t, next.Easiness, prior.Easiness, "easiness should drop on failure")
		})
	}
}

func TestStep_IntervalLadder(t *testing.T) {
	state := scheduler.NewState()

	state = scheduler.Step(state, 4)
	assert.Equal(t, 1, state.Interval, "first success should schedule one day out")
	assert.Equal(t, 1, state.Repetitions)

	state = scheduler.Step(state, 4)
	assert.Equal(t, 6, state.Interval, "second success should schedule six days out")
	assert.Equal(t, 2, state.Repetitions)

	state = scheduler.Step(state, 4)
	assert.Equal(t, 15, state.Interval, "third success should be ceil(6 * easiness)")
	assert.Equal(t, 3, state.Repetitions)
	assert.InDelta(t, 2.5, state.Easiness, 1e-9, "grade 4 leaves easiness unchanged")
}

func TestStep_EasinessFloor(t *testing.T) {
	for grade := scheduler.Grade(0); grade <= 5; grade++ {
		state := scheduler.State{Easiness: scheduler.MinEasiness, Interval: 1, Repetitions: 1}
		for i := 0; i < 10; i++ {
			state = scheduler.Step(state, grade)
			assert.GreaterOrEqual(t, state.Easiness, scheduler.MinEasiness,
				"easiness must never drop below the floor (grade %d)", grade)
		}
	}
}

func TestStep_EasinessFormula(t *testing.T) {
	tests := []struct {
		name     string
		grade    scheduler.Grade
		expected float64
	}{
		{name: "grade 0", grade: 0, expected: 1.7},
		{name: "grade 1", grade: 1, expected: 1.96},
		{name: "grade 2", grade: 2, expected: 2.18},
		{name: "grade 3", grade: 3, expected: 2.36},
		{name: "grade 4", grade: 4, expected: 2.5},
		{name: "grade 5", grade: 5, expected: 2.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prior := scheduler.State{Easiness: 2.5, Interval: 10, Repetitions: 3}

			next := scheduler.Step(prior, tt.grade)

			assert.InDelta(t, tt.expected, next.Easiness, 1e-9)
		})
	}
}

func TestStep_IsPure(t *testing.T) {
	prior := scheduler.State{Easiness: 2.5, Interval: 6, Repetitions: 2}

	_ = scheduler.Step(prior, 0)

	assert.Equal(t, scheduler.State{Easiness: 2.5, Interval: 6, Repetitions: 2}, prior,
		"Step must not mutate its input")
}
