package models

import "time"

// ReviewRecord is the per (user, card) scheduling state. One row exists per
// pair while the card is memorized; forgetting the card deletes the row.
type ReviewRecord struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	CardID       int64     `json:"card_id"`
	Easiness     float64   `json:"easiness"`
	Interval     int       `json:"interval"`
	Repetitions  int       `json:"repetitions"`
	TotalReviews int       `json:"total_reviews"`
	Lapses       int       `json:"lapses"`
	Grade        int       `json:"grade"`
	IntroducedOn time.Time `json:"introduced_on"`
	LastReviewed time.Time `json:"last_reviewed"`
	ReviewDate   time.Time `json:"review_date"`
	Crammed      bool      `json:"crammed"`
	Comment      string    `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RealInterval returns the elapsed whole days since the last review as of
// the given date. Diagnostic only; it never feeds the scheduling step.
func (r ReviewRecord) RealInterval(today time.Time) int {
	return int(today.Sub(r.LastReviewed).Hours() / 24)
}

// RecordWithCard joins a review record with the card content for queue views.
// RealInterval is filled in by the service from the current date.
type RecordWithCard struct {
	ReviewRecord
	Front        string `json:"front"`
	Back         string `json:"back"`
	RealInterval int    `json:"real_interval"`
}

// ReviewProjection is one what-if outcome of grading a card, as reported by
// the simulator. ReviewDate here is the nominal date, without load balancing.
type ReviewProjection struct {
	Grade      int       `json:"grade"`
	Easiness   float64   `json:"easiness"`
	Interval   int       `json:"interval"`
	Reviews    int       `json:"reviews"`
	ReviewDate time.Time `json:"review_date"`
}

// ScheduleDay is the number of reviews already allocated to one calendar day.
type ScheduleDay struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// UserStats aggregates a user's review state.
type UserStats struct {
	Records      int     `json:"records"`
	DueToday     int     `json:"due_today"`
	Crammed      int     `json:"crammed"`
	TotalReviews int     `json:"total_reviews"`
	Lapses       int     `json:"lapses"`
	AvgEasiness  float64 `json:"avg_easiness"`
}
