package models

import "time"

// Grade is a single score for a student on an evaluation.
type Grade struct {
	ID           string    `db:"id" json:"id"`
	EvaluationID string    `db:"evaluation_id" json:"evaluation_id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	Score        float64   `db:"score" json:"score"`
	Feedback     *string   `db:"feedback" json:"feedback,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// StudentGradeRow is a grade joined to its evaluation and subject for reporting.
type StudentGradeRow struct {
	Grade
	EvaluationTitle string  `db:"evaluation_title" json:"evaluation_title"`
	CourseSubjectID string  `db:"course_subject_id" json:"course_subject_id"`
	SubjectID       *string `db:"subject_id" json:"subject_id,omitempty"`
	SubjectName     *string `db:"subject_name" json:"subject_name,omitempty"`
}

// StoreSubjectAverage is a row of the store's student_subject_averages view.
type StoreSubjectAverage struct {
	StudentID       string  `db:"student_id" json:"student_id"`
	CourseSubjectID string  `db:"course_subject_id" json:"course_subject_id"`
	AverageScore    float64 `db:"average_score" json:"average_score"`
}
