package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/middleware"
	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/internal/service"
	"github.com/noah-isme/school-records-api/pkg/response"
)

type profileService interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	ListStudents(ctx context.Context, actor models.Actor, search string, page, size int) ([]models.Profile, *models.Pagination, error)
	ListStaff(ctx context.Context, actor models.Actor, search string, page, size int) ([]models.Profile, *models.Pagination, error)
	Create(ctx context.Context, actor models.Actor, req service.CreateProfileRequest) (*models.Profile, error)
}

// ProfileHandler exposes profile endpoints.
type ProfileHandler struct {
	profiles profileService
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(profiles profileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Me godoc
// @Summary Current user's profile
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	profile, err := h.profiles.Get(c.Request.Context(), actor.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, profile)
}

// Students godoc
// @Summary List students
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or DNI fragment"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /profiles/students [get]
func (h *ProfileHandler) Students(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	list, page, err := h.profiles.ListStudents(c.Request.Context(), actor, c.Query("search"), queryInt(c, "page"), queryInt(c, "page_size"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, page)
}

// Staff godoc
// @Summary List teachers, directors and preceptors
// @Tags Profiles
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name or DNI fragment"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /profiles/staff [get]
func (h *ProfileHandler) Staff(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	list, page, err := h.profiles.ListStaff(c.Request.Context(), actor, c.Query("search"), queryInt(c, "page"), queryInt(c, "page_size"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, page)
}

// Create godoc
// @Summary Create a profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateProfileRequest true "Profile payload"
// @Success 201 {object} response.Envelope
// @Router /profiles [post]
func (h *ProfileHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req service.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	profile, err := h.profiles.Create(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Set(middleware.AuditResourceIDKey, profile.ID)
	response.Created(c, profile)
}
