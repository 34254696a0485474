package models

import "time"

// Subject is a catalog entry taught in one or more courses.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	YearID    *string   `db:"year_id" json:"year_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
