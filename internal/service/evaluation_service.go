package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type evaluationRepository interface {
	Create(ctx context.Context, evaluation *models.Evaluation) error
	ListByCourseSubject(ctx context.Context, courseSubjectID string) ([]models.Evaluation, error)
}

// CreateEvaluationRequest defines a graded activity.
type CreateEvaluationRequest struct {
	CourseSubjectID string   `json:"course_subject_id" validate:"required"`
	Title           string   `json:"title" validate:"required,max=200"`
	Description     *string  `json:"description"`
	Date            string   `json:"date" validate:"required,iso_date"`
	Weight          *float64 `json:"weight" validate:"omitempty,gte=0"`
}

// EvaluationService manages evaluations.
type EvaluationService struct {
	repo      evaluationRepository
	authz     Authorizer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEvaluationService constructs the evaluation service.
func NewEvaluationService(repo evaluationRepository, authz Authorizer, validate *validator.Validate, logger *zap.Logger) *EvaluationService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{repo: repo, authz: authz, validator: validate, logger: logger}
}

// Create stores a new evaluation; weight defaults to 1.
func (s *EvaluationService) Create(ctx context.Context, actor models.Actor, req CreateEvaluationRequest) (*models.Evaluation, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}
	date, err := parseISODate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, models.CapManageEvaluations, req.CourseSubjectID); err != nil {
		return nil, err
	}

	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}
	evaluation := &models.Evaluation{
		CourseSubjectID: req.CourseSubjectID,
		Title:           req.Title,
		Description:     trimOptional(req.Description),
		Date:            date,
		Weight:          weight,
	}
	if err := s.repo.Create(ctx, evaluation); err != nil {
		return nil, appErrors.FromStore(err, "failed to create evaluation")
	}
	return evaluation, nil
}

// ListByCourseSubject returns evaluations of a course subject, latest first.
func (s *EvaluationService) ListByCourseSubject(ctx context.Context, actor models.Actor, courseSubjectID string) ([]models.Evaluation, error) {
	if err := s.authz.Authorize(ctx, actor, models.CapManageEvaluations, courseSubjectID); err != nil {
		return nil, err
	}
	evaluations, err := s.repo.ListByCourseSubject(ctx, courseSubjectID)
	if err != nil {
		return nil, appErrors.FromStore(err, "failed to list evaluations")
	}
	if evaluations == nil {
		evaluations = []models.Evaluation{}
	}
	return evaluations, nil
}
