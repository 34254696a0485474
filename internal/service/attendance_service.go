package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type attendanceRepository interface {
	UpsertBatch(ctx context.Context, marks []models.AttendanceMark) (int, error)
	ListByCourseAndDate(ctx context.Context, courseID string, date time.Time) ([]models.AttendanceSheetRow, error)
}

// AttendanceRecordInput is one student's status within a batch.
type AttendanceRecordInput struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,attendance_status"`
}

// RecordAttendanceRequest is a batch of marks for one course on one date.
// Records must be present but may be empty.
type RecordAttendanceRequest struct {
	CourseID string                  `json:"course_id" validate:"required"`
	Date     string                  `json:"date" validate:"required,iso_date"`
	Records  []AttendanceRecordInput `json:"records" validate:"required,dive"`
}

// AttendanceResult reports how many marks were written.
type AttendanceResult struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// AttendanceService records and lists attendance marks.
type AttendanceService struct {
	repo      attendanceRepository
	authz     Authorizer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, authz Authorizer, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, authz: authz, metrics: metrics, validator: validate, logger: logger}
}

// Record upserts one mark per record keyed on (student, course, date). Resubmitting the
// same batch leaves the stored rows unchanged. An empty batch succeeds without touching the store.
func (s *AttendanceService) Record(ctx context.Context, actor models.Actor, req RecordAttendanceRequest) (*AttendanceResult, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.IncValidationRejection("attendance")
		return nil, validationError(err)
	}
	date, err := parseISODate(req.Date)
	if err != nil {
		s.metrics.IncValidationRejection("attendance")
		return nil, err
	}
	if len(req.Records) == 0 {
		return &AttendanceResult{Success: true, Count: 0}, nil
	}

	seen := make(map[string]struct{}, len(req.Records))
	for _, record := range req.Records {
		if _, dup := seen[record.StudentID]; dup {
			s.metrics.IncValidationRejection("attendance")
			return nil, appErrors.Clone(appErrors.ErrValidation, "student "+record.StudentID+" appears more than once")
		}
		seen[record.StudentID] = struct{}{}
	}

	if err := s.authz.Authorize(ctx, actor, models.CapRecordAttendance, req.CourseID); err != nil {
		return nil, err
	}

	recorder := actor.UserID
	marks := make([]models.AttendanceMark, 0, len(req.Records))
	for _, record := range req.Records {
		status, _ := models.ParseAttendanceStatus(record.Status)
		marks = append(marks, models.AttendanceMark{
			CourseID:   req.CourseID,
			StudentID:  record.StudentID,
			Date:       date,
			Status:     status,
			RecordedBy: &recorder,
		})
	}

	count, err := s.repo.UpsertBatch(ctx, marks)
	if err != nil {
		s.logger.Error("attendance batch rejected",
			zap.String("course_id", req.CourseID),
			zap.String("date", req.Date),
			zap.Int("records", len(marks)),
			zap.Error(err),
		)
		return nil, appErrors.FromStore(err, "failed to record attendance")
	}
	s.metrics.AddAttendanceMarks(count)
	s.logger.Info("attendance recorded",
		zap.String("course_id", req.CourseID),
		zap.String("date", req.Date),
		zap.Int("count", count),
	)
	return &AttendanceResult{Success: true, Count: count}, nil
}

// List returns the marks stored for a course on a date.
func (s *AttendanceService) List(ctx context.Context, actor models.Actor, courseID, rawDate string) ([]models.AttendanceSheetRow, error) {
	if courseID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course_id is required")
	}
	date, err := parseISODate(rawDate)
	if err != nil {
		return nil, err
	}
	if err := s.authz.Authorize(ctx, actor, models.CapViewAttendance, courseID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByCourseAndDate(ctx, courseID, date)
	if err != nil {
		return nil, appErrors.FromStore(err, "failed to list attendance")
	}
	if rows == nil {
		rows = []models.AttendanceSheetRow{}
	}
	return rows, nil
}
