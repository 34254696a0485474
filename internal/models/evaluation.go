package models

import "time"

// Evaluation is a graded activity within a course subject.
type Evaluation struct {
	ID              string    `db:"id" json:"id"`
	CourseSubjectID string    `db:"course_subject_id" json:"course_subject_id"`
	Title           string    `db:"title" json:"title"`
	Description     *string   `db:"description" json:"description,omitempty"`
	Date            time.Time `db:"date" json:"date"`
	Weight          float64   `db:"weight" json:"weight"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
