package devapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/response"
	"github.com/stemsi/campus-portal/internal/service"
	"github.com/stemsi/campus-portal/internal/validator"
)

// CourseHandler serves the course catalogue.
type CourseHandler struct {
	courses *service.CourseService
	log     zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courses *service.CourseService, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, log: log}
}

// List godoc
// GET /courses/
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// Create godoc
// POST /courses/
func (h *CourseHandler) Create(c *gin.Context) {
	var in model.CourseInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.Invalid(c, http.StatusUnprocessableEntity, fields)
		return
	}

	course, err := h.courses.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// Update godoc
// PUT /courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var in model.CourseInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.Invalid(c, http.StatusUnprocessableEntity, fields)
		return
	}

	course, err := h.courses.Update(c.Request.Context(), id, in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// Delete godoc
// DELETE /courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		fail(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Students godoc
// GET /courses/:id/students
func (h *CourseHandler) Students(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	students, err := h.courses.Students(c.Request.Context(), id)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, students)
}
