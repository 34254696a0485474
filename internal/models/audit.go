package models

import "time"

// Audit actions emitted after successful writes.
const (
	AuditActionAttendanceRecord = "ATTENDANCE_RECORD"
	AuditActionGradeRecord      = "GRADE_RECORD"
	AuditActionEvaluationCreate = "EVALUATION_CREATE"
	AuditActionProfileCreate    = "PROFILE_CREATE"
	AuditActionEnrollmentCreate = "ENROLLMENT_CREATE"
)

// AuditEvent describes a write performed by an actor.
type AuditEvent struct {
	ActorID    string                 `json:"actor_id"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource"`
	ResourceID string                 `json:"resource_id,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	IPAddress  string                 `json:"ip_address,omitempty"`
	UserAgent  string                 `json:"user_agent,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
