package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-records-api/internal/models"
	"github.com/noah-isme/school-records-api/pkg/response"
)

type courseService interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, error)
	Roster(ctx context.Context, actor models.Actor, courseID string) ([]models.RosterEntry, error)
	TeacherSubjects(ctx context.Context, actor models.Actor) ([]models.CourseSubjectDetail, error)
}

// CourseHandler exposes course endpoints.
type CourseHandler struct {
	courses courseService
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(courses courseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param academic_cycle_id query string false "Academic cycle"
// @Param active query bool false "Only courses of active cycles"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	filter := models.CourseFilter{
		AcademicCycleID: c.Query("academic_cycle_id"),
		ActiveOnly:      c.Query("active") == "true",
	}
	courses, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, courses)
}

// Students godoc
// @Summary Students enrolled in a course
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/students [get]
func (h *CourseHandler) Students(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	roster, err := h.courses.Roster(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, roster)
}

// MySubjects godoc
// @Summary Course subjects taught by the current teacher
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /me/course-subjects [get]
func (h *CourseHandler) MySubjects(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	subjects, err := h.courses.TeacherSubjects(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, subjects)
}
