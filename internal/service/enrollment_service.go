package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type enrollmentRepository interface {
	Exists(ctx context.Context, courseID, studentID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
}

// EnrollStudentRequest assigns a student to a course.
type EnrollStudentRequest struct {
	CourseID  string `json:"course_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
}

// EnrollmentService orchestrates enrollment workflows.
type EnrollmentService struct {
	repo      enrollmentRepository
	profiles  profileFinder
	authz     Authorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, profiles profileFinder, authz Authorizer, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, profiles: profiles, authz: authz, validator: validate, logger: logger}
}

// Enroll creates the enrollment after checking the target is a student not yet in the course.
func (s *EnrollmentService) Enroll(ctx context.Context, actor models.Actor, req EnrollStudentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	if err := s.authz.Authorize(ctx, actor, models.CapManageEnrollments, req.CourseID); err != nil {
		return nil, err
	}

	student, err := s.profiles.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.FromStore(err, "student not found")
	}
	if student.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "only students can be enrolled")
	}

	exists, err := s.repo.Exists(ctx, req.CourseID, req.StudentID)
	if err != nil {
		return nil, appErrors.FromStore(err, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in course")
	}

	enrollment := &models.Enrollment{CourseID: req.CourseID, StudentID: req.StudentID}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.FromStore(err, "failed to enroll student")
	}
	s.logger.Info("student enrolled", zap.String("course_id", req.CourseID), zap.String("student_id", req.StudentID))
	return enrollment, nil
}
