package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

// Authorizer decides whether an actor may perform a capability on a resource.
type Authorizer interface {
	Authorize(ctx context.Context, actor models.Actor, capability models.Capability, resourceID string) error
}

type teachingLookup interface {
	TeachesCourse(ctx context.Context, teacherID, courseID string) (bool, error)
	TeachesCourseSubject(ctx context.Context, teacherID, courseSubjectID string) (bool, error)
	TeachesEvaluation(ctx context.Context, teacherID, evaluationID string) (bool, error)
}

// PolicyAuthorizer applies the school's role rules, consulting teaching assignments for teachers.
type PolicyAuthorizer struct {
	lookup teachingLookup
	logger *zap.Logger
}

// NewPolicyAuthorizer constructs the authorizer.
func NewPolicyAuthorizer(lookup teachingLookup, logger *zap.Logger) *PolicyAuthorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PolicyAuthorizer{lookup: lookup, logger: logger}
}

// Authorize returns nil when allowed, ErrUnauthorized for an anonymous actor and ErrForbidden otherwise.
func (a *PolicyAuthorizer) Authorize(ctx context.Context, actor models.Actor, capability models.Capability, resourceID string) error {
	if actor.UserID == "" {
		return appErrors.ErrUnauthorized
	}

	allowed, err := a.allowed(ctx, actor, capability, resourceID)
	if err != nil {
		return appErrors.FromStore(err, "failed to check teaching assignment")
	}
	if !allowed {
		a.logger.Debug("capability denied",
			zap.String("actor_id", actor.UserID),
			zap.String("role", string(actor.Role)),
			zap.String("capability", string(capability)),
			zap.String("resource_id", resourceID),
		)
		return appErrors.Clone(appErrors.ErrForbidden, "not allowed to "+string(capability))
	}
	return nil
}

func (a *PolicyAuthorizer) allowed(ctx context.Context, actor models.Actor, capability models.Capability, resourceID string) (bool, error) {
	switch capability {
	case models.CapRecordAttendance, models.CapViewAttendance:
		switch actor.Role {
		case models.RoleDirector, models.RolePreceptor:
			return true, nil
		case models.RoleTeacher:
			return a.lookup.TeachesCourse(ctx, actor.UserID, resourceID)
		}
	case models.CapRecordGrade:
		switch actor.Role {
		case models.RoleDirector:
			return true, nil
		case models.RoleTeacher:
			return a.lookup.TeachesEvaluation(ctx, actor.UserID, resourceID)
		}
	case models.CapManageEvaluations:
		switch actor.Role {
		case models.RoleDirector:
			return true, nil
		case models.RoleTeacher:
			return a.lookup.TeachesCourseSubject(ctx, actor.UserID, resourceID)
		}
	case models.CapViewReport:
		return actor.Role.IsStaff() || actor.UserID == resourceID, nil
	case models.CapViewRoster:
		return actor.Role.IsStaff(), nil
	case models.CapManageProfiles, models.CapManageEnrollments:
		return actor.Role == models.RoleDirector || actor.Role == models.RolePreceptor, nil
	}
	return false, nil
}
