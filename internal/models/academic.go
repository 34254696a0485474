package models

import "time"

// AcademicCycle groups courses within a school year.
type AcademicCycle struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Course is one cycle/year/division triple.
type Course struct {
	ID              string    `db:"id" json:"id"`
	AcademicCycleID string    `db:"academic_cycle_id" json:"academic_cycle_id"`
	YearID          string    `db:"year_id" json:"year_id"`
	DivisionID      string    `db:"division_id" json:"division_id"`
	Name            *string   `db:"name" json:"name,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// CourseDetail enriches Course with the names of its cycle, year and division.
type CourseDetail struct {
	Course
	CycleName    string `db:"cycle_name" json:"cycle_name"`
	YearName     string `db:"year_name" json:"year_name"`
	DivisionName string `db:"division_name" json:"division_name"`
}

// DisplayName falls back to "<year> <division>" when the course has no name.
func (c CourseDetail) DisplayName() string {
	if c.Name != nil && *c.Name != "" {
		return *c.Name
	}
	return c.YearName + " " + c.DivisionName
}

// CourseFilter scopes course listings.
type CourseFilter struct {
	AcademicCycleID string
	ActiveOnly      bool
}

// CourseSubject is one subject taught within a course.
type CourseSubject struct {
	ID        string    `db:"id" json:"id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TeacherID *string   `db:"teacher_id" json:"teacher_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CourseSubjectDetail adds subject and course names for teacher dashboards.
type CourseSubjectDetail struct {
	CourseSubject
	SubjectName string  `db:"subject_name" json:"subject_name"`
	CourseName  *string `db:"course_name" json:"course_name,omitempty"`
}
