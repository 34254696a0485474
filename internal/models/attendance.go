package models

import (
	"strings"
	"time"
)

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendancePresent            AttendanceStatus = "presente"
	AttendanceJustifiedAbsence   AttendanceStatus = "ausente_justificado"
	AttendanceUnjustifiedAbsence AttendanceStatus = "ausente_injustificado"
	AttendanceLate               AttendanceStatus = "tarde"
)

var attendanceAliases = map[string]AttendanceStatus{
	"present":             AttendancePresent,
	"justified_absence":   AttendanceJustifiedAbsence,
	"unjustified_absence": AttendanceUnjustifiedAbsence,
	"late":                AttendanceLate,
}

// ParseAttendanceStatus accepts stored values and their English names.
func ParseAttendanceStatus(raw string) (AttendanceStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	status := AttendanceStatus(normalized)
	if status.Valid() {
		return status, true
	}
	status, ok := attendanceAliases[normalized]
	return status, ok
}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceJustifiedAbsence, AttendanceUnjustifiedAbsence, AttendanceLate:
		return true
	default:
		return false
	}
}

// AttendanceMark is one student's status in one course on one date.
// Unique on (student_id, course_id, date).
type AttendanceMark struct {
	ID         string           `db:"id" json:"id"`
	CourseID   string           `db:"course_id" json:"course_id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	Date       time.Time        `db:"date" json:"date"`
	Status     AttendanceStatus `db:"status" json:"status"`
	RecordedBy *string          `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
}

// AttendanceSheetRow is a stored mark joined with the student's name.
type AttendanceSheetRow struct {
	AttendanceMark
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}
