package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the payload of caller access tokens issued by the session provider.
// The subject carries the profile id.
type AccessClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   ProfileRole `json:"role"`
}

// Capability names an operation guarded by the authorizer.
type Capability string

const (
	CapRecordAttendance  Capability = "attendance:record"
	CapViewAttendance    Capability = "attendance:view"
	CapRecordGrade       Capability = "grade:record"
	CapManageEvaluations Capability = "evaluation:manage"
	CapViewReport        Capability = "report:view"
	CapViewRoster        Capability = "roster:view"
	CapManageProfiles    Capability = "profile:manage"
	CapManageEnrollments Capability = "enrollment:manage"
)
