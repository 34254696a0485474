package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/middleware"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/service"
	"github.com/noah-isme/school-records-api/pkg/response"
)

type evaluationService interface {
	Create(ctx context.Context, actor models.Actor, req service.CreateEvaluationRequest) (*models.Evaluation, error)
	ListByCourseSubject(ctx context.Context, actor models.Actor, courseSubjectID string) ([]models.Evaluation, error)
}

// EvaluationHandler exposes evaluation endpoints.
type EvaluationHandler struct {
	evaluations evaluationService
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(evaluations evaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluations: evaluations}
}

// Create godoc
// @Summary Create an evaluation
// @Tags Evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateEvaluationRequest true "Evaluation payload"
// @Success 201 {object} response.Envelope
// @Router /evaluations [post]
func (h *EvaluationHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req service.CreateEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	evaluation, err := h.evaluations.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.AuditResourceIDKey, evaluation.ID)
	response.Created(c, evaluation)
}

// ListByCourseSubject godoc
// @Summary Evaluations of a course subject
// @Tags Evaluations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course subject ID"
// @Success 200 {object} response.Envelope
// @Router /course-subjects/{id}/evaluations [get]
func (h *EvaluationHandler) ListByCourseSubject(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	list, err := h.evaluations.ListByCourseSubject(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, list)
}
