package devapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/middleware"
	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/response"
	"github.com/stemsi/campus-portal/internal/service"
	"github.com/stemsi/campus-portal/internal/validator"
)

// RecordHandler serves attendance, grades and the staff reports.
type RecordHandler struct {
	records *service.RecordService
	log     zerolog.Logger
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(records *service.RecordService, log zerolog.Logger) *RecordHandler {
	return &RecordHandler{records: records, log: log}
}

// SubmitAttendance godoc
// POST /attendance/courses/:id/date/:date
func (h *RecordHandler) SubmitAttendance(c *gin.Context) {
	courseID, ok := pathID(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}

	var sub model.AttendanceSubmission
	if fields := validator.Bind(c, &sub); fields != nil {
		response.Invalid(c, http.StatusUnprocessableEntity, fields)
		return
	}

	if err := h.records.SubmitAttendance(c.Request.Context(), courseID, date, sub.Records); err != nil {
		fail(c, h.log, err)
		return
	}

	h.log.Info().
		Str("teacher", middleware.GetUser(c).Email).
		Int("course_id", courseID).
		Str("date", date).
		Int("records", len(sub.Records)).
		Msg("Attendance submitted")
	c.JSON(http.StatusCreated, model.MessageResponse{Message: "Attendance submitted successfully."})
}

// MyAttendance godoc
// GET /attendance/my-attendance/courses/:id
func (h *RecordHandler) MyAttendance(c *gin.Context) {
	courseID, ok := pathID(c)
	if !ok {
		return
	}
	records, err := h.records.MyAttendance(c.Request.Context(), middleware.GetUser(c).ID, courseID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// AttendanceReport godoc
// GET /reports/attendance/courses/:id/date/:date
func (h *RecordHandler) AttendanceReport(c *gin.Context) {
	courseID, ok := pathID(c)
	if !ok {
		return
	}
	date, ok := pathDate(c)
	if !ok {
		return
	}
	rows, err := h.records.AttendanceReport(c.Request.Context(), courseID, date)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// SubmitGrade godoc
// POST /grades/courses/:id
func (h *RecordHandler) SubmitGrade(c *gin.Context) {
	courseID, ok := pathID(c)
	if !ok {
		return
	}

	var in model.GradeInput
	if fields := validator.Bind(c, &in); fields != nil {
		response.Invalid(c, http.StatusUnprocessableEntity, fields)
		return
	}

	if _, err := h.records.SubmitGrade(c.Request.Context(), courseID, in); err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, model.MessageResponse{Message: "Grade submitted successfully."})
}

// MyGrades godoc
// GET /grades/my-grades
func (h *RecordHandler) MyGrades(c *gin.Context) {
	user := middleware.GetUser(c)
	if user.Role != model.RoleStudent {
		response.Detail(c, http.StatusForbidden, detailStudentsOnly)
		return
	}
	grades, err := h.records.MyGrades(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, grades)
}

// GradesReport godoc
// GET /reports/grades/courses/:id
func (h *RecordHandler) GradesReport(c *gin.Context) {
	courseID, ok := pathID(c)
	if !ok {
		return
	}
	rows, err := h.records.GradesReport(c.Request.Context(), courseID)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func pathDate(c *gin.Context) (string, bool) {
	date := c.Param("date")
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		response.Detail(c, http.StatusUnprocessableEntity, detailInvalidDate)
		return "", false
	}
	return date, true
}
