package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
)

type reportGradeReader interface {
	ListForReport(ctx context.Context, studentID string) ([]models.StudentGradeRow, error)
	SubjectAverages(ctx context.Context, studentID string) ([]models.StoreSubjectAverage, error)
}

// ReportConfig tunes report card generation.
type ReportConfig struct {
	CacheTTL         time.Duration
	CompareStoreView bool
}

// ReportService serves student report cards.
type ReportService struct {
	grades  reportGradeReader
	authz   Authorizer
	cache   *CacheService
	metrics *MetricsService
	logger  *zap.Logger
	cfg     ReportConfig
	now     func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(grades reportGradeReader, authz Authorizer, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg ReportConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{grades: grades, authz: authz, cache: cache, metrics: metrics, logger: logger, cfg: cfg, now: time.Now}
}

// StudentReport builds the report card of a student. When store comparison is on,
// the store's average view is read alongside the grades and any disagreement is
// logged; the computed card is always what is returned.
func (s *ReportService) StudentReport(ctx context.Context, actor models.Actor, studentID string) (*models.ReportCard, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	if err := s.authz.Authorize(ctx, actor, models.CapViewReport, studentID); err != nil {
		return nil, err
	}

	var cached models.ReportCard
	if s.cache.Get(ctx, reportCardCacheKey(studentID), &cached) {
		return &cached, nil
	}

	var (
		rows     []models.StudentGradeRow
		averages []models.StoreSubjectAverage
		viewErr  error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		var err error
		rows, err = s.grades.ListForReport(gctx, studentID)
		s.metrics.ObserveDBQuery("report_grades", time.Since(start))
		return err
	})
	if s.cfg.CompareStoreView {
		g.Go(func() error {
			start := time.Now()
			averages, viewErr = s.grades.SubjectAverages(gctx, studentID)
			s.metrics.ObserveDBQuery("report_store_averages", time.Since(start))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, appErrors.FromStore(err, "failed to load grades")
	}

	card := BuildReportCard(studentID, rows, s.now().UTC())

	if s.cfg.CompareStoreView {
		if viewErr != nil {
			s.logger.Warn("store average view unavailable", zap.String("student_id", studentID), zap.Error(viewErr))
		} else {
			s.reconcile(studentID, rows, averages)
		}
	}

	s.cache.Set(ctx, reportCardCacheKey(studentID), card, s.cfg.CacheTTL)
	return card, nil
}

func (s *ReportService) reconcile(studentID string, rows []models.StudentGradeRow, averages []models.StoreSubjectAverage) {
	divergences := CompareSubjectAverages(rows, averages)
	if len(divergences) == 0 {
		return
	}
	s.metrics.AddReportDivergences(len(divergences))
	for _, d := range divergences {
		fields := []zap.Field{
			zap.String("student_id", studentID),
			zap.String("course_subject_id", d.CourseSubjectID),
		}
		if d.Computed != nil {
			fields = append(fields, zap.Float64("computed_average", *d.Computed))
		}
		if d.Store != nil {
			fields = append(fields, zap.Float64("store_average", *d.Store))
		}
		s.logger.Warn("subject average differs from store view", fields...)
	}
}
