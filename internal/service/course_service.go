package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, error)
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
	ListCourseSubjectsByTeacher(ctx context.Context, teacherID string) ([]models.CourseSubjectDetail, error)
}

type rosterReader interface {
	Roster(ctx context.Context, courseID string) ([]models.RosterEntry, error)
}

// CourseService exposes course listings and rosters.
type CourseService struct {
	courses courseRepository
	roster  rosterReader
	authz   Authorizer
	logger  *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(courses courseRepository, roster rosterReader, authz Authorizer, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, roster: roster, authz: authz, logger: logger}
}

// List returns courses ordered by name.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, error) {
	courses, err := s.courses.List(ctx, filter)
	if err != nil {
		return nil, appErrors.FromStore(err, "failed to list courses")
	}
	if courses == nil {
		courses = []models.CourseDetail{}
	}
	return courses, nil
}

// Roster returns the students enrolled in a course.
func (s *CourseService) Roster(ctx context.Context, actor models.Actor, courseID string) ([]models.RosterEntry, error) {
	if err := s.authz.Authorize(ctx, actor, models.CapViewRoster, courseID); err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, appErrors.FromStore(err, "course not found")
	}
	roster, err := s.roster.Roster(ctx, courseID)
	if err != nil {
		return nil, appErrors.FromStore(err, "failed to list course roster")
	}
	if roster == nil {
		roster = []models.RosterEntry{}
	}
	return roster, nil
}

// TeacherSubjects returns the course subjects assigned to the acting teacher.
func (s *CourseService) TeacherSubjects(ctx context.Context, actor models.Actor) ([]models.CourseSubjectDetail, error) {
	if actor.Role != models.RoleTeacher && actor.Role != models.RoleDirector {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers have course subjects")
	}
	subjects, err := s.courses.ListCourseSubjectsByTeacher(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.FromStore(err, "failed to list course subjects")
	}
	if subjects == nil {
		subjects = []models.CourseSubjectDetail{}
	}
	return subjects, nil
}
