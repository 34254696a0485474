package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/school-records-api/internal/models"
	appErrors "github.com/noah-isme/school-records-api/pkg/errors"
	"github.com/noah-isme/school-records-api/pkg/export"
)

// Renderer turns an export document into file bytes.
type Renderer interface {
	Render(doc export.Document) ([]byte, error)
	ContentType() string
	Extension() string
}

type reportCardSource interface {
	StudentReport(ctx context.Context, actor models.Actor, studentID string) (*models.ReportCard, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders report cards as downloadable files.
type ExportService struct {
	reports   reportCardSource
	profiles  profileFinder
	renderers map[string]Renderer
	logger    *zap.Logger
}

// NewExportService constructs the export service with the csv and pdf renderers.
func NewExportService(reports reportCardSource, profiles profileFinder, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reports:  reports,
		profiles: profiles,
		renderers: map[string]Renderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// ReportCard renders the student's report card in the requested format.
func (s *ExportService) ReportCard(ctx context.Context, actor models.Actor, studentID, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	card, err := s.reports.StudentReport(ctx, actor, studentID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.FindByID(ctx, studentID)
	if err != nil {
		return nil, appErrors.FromStore(err, "student not found")
	}

	content, err := renderer.Render(reportCardDocument(profile, card))
	if err != nil {
		s.logger.Error("render report card", zap.String("student_id", studentID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report card")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("report-card-%s.%s", profile.DNI, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

func reportCardDocument(profile *models.Profile, card *models.ReportCard) export.Document {
	doc := export.Document{
		Title:    "Report card",
		Subtitle: fmt.Sprintf("%s (DNI %s)", profile.FullName(), profile.DNI),
		Table:    export.Dataset{Headers: []string{"Subject", "Evaluation", "Score", "Feedback", "Date"}},
	}
	for _, subject := range card.Subjects {
		for _, grade := range subject.Grades {
			var feedback string
			if grade.Feedback != nil {
				feedback = *grade.Feedback
			}
			doc.Table.Rows = append(doc.Table.Rows, []string{
				subject.SubjectName,
				grade.EvaluationTitle,
				formatAverage(grade.Score),
				feedback,
				grade.CreatedAt.Format(isoDateLayout),
			})
		}
		doc.Summary = append(doc.Summary, export.SummaryLine{
			Label: subject.SubjectName,
			Value: fmt.Sprintf("%s (%s)", formatAverage(subject.Average), subject.Band),
		})
	}
	if card.OverallAverage != nil {
		doc.Summary = append(doc.Summary, export.SummaryLine{
			Label: "Overall average",
			Value: fmt.Sprintf("%s (%s)", formatAverage(*card.OverallAverage), *card.OverallBand),
		})
	} else {
		doc.Summary = append(doc.Summary, export.SummaryLine{Label: "Overall average", Value: "no grades"})
	}
	return doc
}

func formatAverage(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
