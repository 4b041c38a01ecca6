package devapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/response"
	"github.com/stemsi/campus-portal/internal/service"
)

// Detail texts match the college API word for word; the portal shows
// them to users.
const (
	detailEmailTaken     = "Email already registered"
	detailBadLogin       = "Incorrect email or password"
	detailUserNotFound   = "User not found"
	detailCourseNotFound = "Course not found"
	detailCodeTaken      = "Course code already registered"
	detailNoAttendance   = "No attendance records found."
	detailNoGrades       = "No grades found for this course."
	detailStudentsOnly   = "Only students can view their own grades."
	detailInvalidDate    = "Input should be a valid date in YYYY-MM-DD format"
)

// fail maps a service error to its status and detail.
func fail(c *gin.Context, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		response.Detail(c, http.StatusBadRequest, detailEmailTaken)
	case errors.Is(err, service.ErrUserNotFound):
		response.Detail(c, http.StatusNotFound, detailUserNotFound)
	case errors.Is(err, service.ErrCourseNotFound):
		response.Detail(c, http.StatusNotFound, detailCourseNotFound)
	case errors.Is(err, service.ErrCourseCodeTaken):
		response.Detail(c, http.StatusBadRequest, detailCodeTaken)
	case errors.Is(err, service.ErrNoAttendance):
		response.Detail(c, http.StatusNotFound, detailNoAttendance)
	case errors.Is(err, service.ErrNoGrades):
		response.Detail(c, http.StatusNotFound, detailNoGrades)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		response.Detail(c, http.StatusInternalServerError, response.GetMessage(response.ErrInternal))
	}
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Detail(c, http.StatusUnprocessableEntity, response.GetMessage(response.ErrInvalidID))
		return 0, false
	}
	return id, true
}
