package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/repository"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type gradeWriter interface {
	InsertUnique(ctx context.Context, grade *models.Grade) (*models.Grade, error)
}

// ScoreBounds is the inclusive range accepted for grade scores.
type ScoreBounds struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the bounds.
func (b ScoreBounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// RecordGradeRequest is a single grade submission.
type RecordGradeRequest struct {
	EvaluationID string  `json:"evaluation_id" validate:"required"`
	StudentID    string  `json:"student_id" validate:"required"`
	Score        Score   `json:"score"`
	Feedback     *string `json:"feedback"`
}

// GradeService records grades.
type GradeService struct {
	repo      gradeWriter
	authz     Authorizer
	cache     *CacheService
	metrics   *MetricsService
	bounds    ScoreBounds
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs the grade service.
func NewGradeService(repo gradeWriter, authz Authorizer, cache *CacheService, metrics *MetricsService, bounds ScoreBounds, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{repo: repo, authz: authz, cache: cache, metrics: metrics, bounds: bounds, validator: validate, logger: logger}
}

// Record validates and stores one grade, returning the persisted row.
// Invalid submissions never reach the store. A second grade for the same
// evaluation and student is a conflict.
func (s *GradeService) Record(ctx context.Context, actor models.Actor, req RecordGradeRequest) (*models.Grade, error) {
	if err := s.validate(req); err != nil {
		s.metrics.IncValidationRejection("grade")
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, models.CapRecordGrade, req.EvaluationID); err != nil {
		return nil, err
	}

	grade := &models.Grade{
		EvaluationID: req.EvaluationID,
		StudentID:    req.StudentID,
		Score:        req.Score.Value,
		Feedback:     normalizeFeedback(req.Feedback),
	}
	stored, err := s.repo.InsertUnique(ctx, grade)
	if err != nil {
		if errors.Is(err, repository.ErrGradeExists) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "grade already recorded for this evaluation and student")
		}
		s.logger.Error("grade rejected",
			zap.String("evaluation_id", req.EvaluationID),
			zap.String("student_id", req.StudentID),
			zap.Error(err),
		)
		return nil, appErrors.FromStore(err, "failed to record grade")
	}

	s.cache.Invalidate(ctx, reportCardCacheKey(stored.StudentID))
	s.metrics.IncGradesRecorded()
	s.logger.Info("grade recorded",
		zap.String("grade_id", stored.ID),
		zap.String("evaluation_id", stored.EvaluationID),
		zap.String("student_id", stored.StudentID),
	)
	return stored, nil
}

func (s *GradeService) validate(req RecordGradeRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err)
	}
	if !req.Score.Present {
		return appErrors.Clone(appErrors.ErrValidation, "score is required")
	}
	if !req.Score.Numeric {
		return appErrors.Clone(appErrors.ErrValidation, "score must be a number")
	}
	if !s.bounds.Contains(req.Score.Value) {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("score must be between %g and %g", s.bounds.Min, s.bounds.Max))
	}
	return nil
}

func normalizeFeedback(feedback *string) *string {
	if feedback == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*feedback)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
