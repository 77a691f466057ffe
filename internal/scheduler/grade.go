package scheduler

import (
	"encoding/json"
	"math"

	"github.com/jswierad/memodeck/internal/errors"
)

// Grade is a 0-5 recall-quality signal from the learner.
// 0=blackout, 1=wrong, 2=wrong but familiar, 3=correct with effort,
// 4=correct with hesitation, 5=perfect.
type Grade int

// DefaultGrade is assumed when a request omits the grade.
const DefaultGrade Grade = 4

// GradeFromInt validates an integer grade against the 0-5 scale.
func GradeFromInt(v int) (Grade, error) {
	if v < 0 || v > 5 {
		return 0, errors.NewGradeRangeError(v)
	}
	return Grade(v), nil
}

// ParseGrade validates a numeric grade. Non-integral values are a type
// error, integral values outside 0-5 a range error.
func ParseGrade(v float64) (Grade, error) {
	if v != math.Trunc(v) || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.NewGradeTypeError(v)
	}
	return GradeFromInt(int(v))
}

// ParseGradeNumber validates a grade that arrived as a JSON number.
func ParseGradeNumber(n json.Number) (Grade, error) {
	if i, err := n.Int64(); err == nil {
		return GradeFromInt(int(i))
	}
	f, err := n.Float64()
	if err != nil {
		return 0, errors.NewGradeTypeError(n.String())
	}
	return ParseGrade(f)
}

// Failing reports whether the grade counts as a lapse.
func (g Grade) Failing() bool {
	return g < 3
}

// NeedsCram reports whether the grade flags the card for the cram queue.
func (g Grade) NeedsCram() bool {
	return g < 4
}
