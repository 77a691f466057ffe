package models

import "time"

type Card struct {
	ID        int64     `json:"id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CardFilter narrows card listings.
type CardFilter struct {
	Search string // matches front or back text
	Limit  int
	Offset int
}
