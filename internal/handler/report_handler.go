package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/service"
	"github.com/noah-isme/school-records-api/pkg/response"
)

type reportService interface {
	StudentReport(ctx context.Context, actor models.Actor, studentID string) (*models.ReportCard, error)
}

type reportExporter interface {
	ReportCard(ctx context.Context, actor models.Actor, studentID, format string) (*service.ExportFile, error)
}

// ReportHandler serves report cards.
type ReportHandler struct {
	reports  reportService
	exporter reportExporter
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports reportService, exporter reportExporter) *ReportHandler {
	return &ReportHandler{reports: reports, exporter: exporter}
}

// Mine godoc
// @Summary Report card of the current student
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /me/report-card [get]
func (h *ReportHandler) Mine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	h.respond(c, actor, actor.UserID)
}

// Student godoc
// @Summary Report card of a student
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /students/{id}/report-card [get]
func (h *ReportHandler) Student(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	h.respond(c, actor, c.Param("id"))
}

func (h *ReportHandler) respond(c *gin.Context, actor models.Actor, studentID string) {
	card, err := h.reports.StudentReport(c.Request.Context(), actor, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, card)
}

// Export godoc
// @Summary Download a student's report card
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Router /students/{id}/report-card/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	file, err := h.exporter.ReportCard(c.Request.Context(), actor, c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Download(c, file.Filename, file.ContentType, file.Content)
}
