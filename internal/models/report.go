package models

import "time"

// PerformanceBand classifies an average for display.
type PerformanceBand string

const (
	BandGood    PerformanceBand = "good"
	BandWarning PerformanceBand = "warning"
	BandFailing PerformanceBand = "failing"
)

// ReportGrade is one grade as shown on a report card.
type ReportGrade struct {
	ID              string    `json:"id"`
	EvaluationID    string    `json:"evaluation_id"`
	EvaluationTitle string    `json:"evaluation_title"`
	Score           float64   `json:"score"`
	Feedback        *string   `json:"feedback,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// SubjectSummary groups a student's grades for one subject, latest first.
type SubjectSummary struct {
	SubjectName string          `json:"subject_name"`
	Grades      []ReportGrade   `json:"grades"`
	Average     float64         `json:"average"`
	Band        PerformanceBand `json:"band"`
}

// ReportCard is the aggregated view of a student's grades.
type ReportCard struct {
	StudentID      string           `json:"student_id"`
	Subjects       []SubjectSummary `json:"subjects"`
	OverallAverage *float64         `json:"overall_average,omitempty"`
	OverallBand    *PerformanceBand `json:"overall_band,omitempty"`
	GeneratedAt    time.Time        `json:"generated_at"`
}
