package models

import (
	"strings"
	"time"
)

// ProfileRole is the closed set of application roles. Values are the ones
// persisted by the record store.
type ProfileRole string

const (
	RoleDirector  ProfileRole = "directivo"
	RolePreceptor ProfileRole = "preceptor"
	RoleTeacher   ProfileRole = "docente"
	RoleStudent   ProfileRole = "estudiante"
)

var roleAliases = map[string]ProfileRole{
	"director":  RoleDirector,
	"preceptor": RolePreceptor,
	"teacher":   RoleTeacher,
	"student":   RoleStudent,
}

// ParseProfileRole accepts stored values and their English names.
func ParseProfileRole(raw string) (ProfileRole, bool) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	role := ProfileRole(normalized)
	if role.Valid() {
		return role, true
	}
	role, ok := roleAliases[normalized]
	return role, ok
}

// Valid returns true when the role is part of the closed set.
func (r ProfileRole) Valid() bool {
	switch r {
	case RoleDirector, RolePreceptor, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role belongs to school staff.
func (r ProfileRole) IsStaff() bool {
	return r == RoleDirector || r == RolePreceptor || r == RoleTeacher
}

// StaffRoles lists every non-student role.
func StaffRoles() []ProfileRole {
	return []ProfileRole{RoleTeacher, RoleDirector, RolePreceptor}
}

// Profile is a person known to the school.
type Profile struct {
	ID        string      `db:"id" json:"id"`
	DNI       string      `db:"dni" json:"dni"`
	FirstName string      `db:"first_name" json:"first_name"`
	LastName  string      `db:"last_name" json:"last_name"`
	Email     *string     `db:"email" json:"email,omitempty"`
	Role      ProfileRole `db:"role" json:"role"`
	Phone     *string     `db:"phone" json:"phone,omitempty"`
	Address   *string     `db:"address" json:"address,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// FullName joins last and first name the way rosters display them.
func (p Profile) FullName() string {
	return strings.TrimSpace(p.LastName + ", " + p.FirstName)
}

// ProfileFilter scopes profile listings.
type ProfileFilter struct {
	Roles    []ProfileRole
	Search   string
	Page     int
	PageSize int
}
