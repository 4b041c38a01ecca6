package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/response"
	"github.com/stemsi/campus-portal/internal/view"
)

// AttendanceHandler serves taking, viewing and reporting attendance.
type AttendanceHandler struct {
	portal
	now func() time.Time
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(api *apiclient.Client, log zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		portal: portal{api: api, log: log.With().Str("component", "attendance_handler").Logger()},
		now:    time.Now,
	}
}

type takeAttendanceData struct {
	*view.Roster
	Date string
}

type attendanceReportData struct {
	Courses  []model.Course
	CourseID int
	Date     string
	Rows     []model.AttendanceReportRow
	Searched bool
}

// validDate reports whether s is a calendar date in the wire layout.
func validDate(s string) bool {
	_, err := time.Parse(model.DateLayout, s)
	return err == nil
}

// TakePage godoc
// GET /take-attendance?course_id=&date=
// Lists the roster of the selected course with every student marked present.
func (h *AttendanceHandler) TakePage(c *gin.Context) {
	date := c.Query("date")
	if !validDate(date) {
		date = h.now().Format(model.DateLayout)
	}
	h.showRoster(c, http.StatusOK, queryID(c, "course_id"), date, "")
}

// Take godoc
// POST /take-attendance
// Form: course_id, date, status[<student id>]=present|absent|late.
func (h *AttendanceHandler) Take(c *gin.Context) {
	courseID, _ := strconv.Atoi(c.PostForm("course_id"))
	date := c.PostForm("date")
	if courseID <= 0 || !validDate(date) {
		h.showRoster(c, http.StatusBadRequest, courseID, h.now().Format(model.DateLayout), response.GetMessage(response.ErrInvalidDate))
		return
	}

	statuses := c.PostFormMap("status")
	entries := make([]model.AttendanceEntry, 0, len(statuses))
	for rawID, rawStatus := range statuses {
		studentID, err := strconv.Atoi(rawID)
		status := model.AttendanceStatus(rawStatus)
		if err != nil || studentID <= 0 || !status.Valid() {
			h.showRoster(c, http.StatusBadRequest, courseID, date, response.GetMessage(response.ErrInvalidPayload))
			return
		}
		entries = append(entries, model.AttendanceEntry{StudentID: studentID, Status: status})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].StudentID < entries[j].StudentID })

	if len(entries) == 0 {
		h.showRoster(c, http.StatusBadRequest, courseID, date, "No students to record.")
		return
	}

	if _, err := h.conn(c).SubmitAttendance(c.Request.Context(), courseID, date, entries); err != nil {
		if h.sessionEnded(c, err) {
			return
		}
		h.log.Warn().Err(err).Int("course_id", courseID).Str("date", date).Msg("Submit attendance failed")
		h.showRoster(c, statusFor(err), courseID, date, errorMessage(err, "Failed to submit attendance."))
		return
	}

	h.redirect(c, fmt.Sprintf("%s?course_id=%d&date=%s", access.PathTakeAttendance, courseID, date), "Attendance submitted successfully!")
}

func (h *AttendanceHandler) showRoster(c *gin.Context, status, courseID int, date, errMsg string) {
	pg := h.newPage(c, access.PathTakeAttendance)
	roster, err := view.LoadRoster(c.Request.Context(), h.conn(c), courseID)
	if err != nil {
		pg.Data = takeAttendanceData{Roster: &view.Roster{}, Date: date}
		h.fail(c, "take_attendance.html", pg, err, "Failed to fetch students.")
		return
	}
	pg.Error = errMsg
	pg.Data = takeAttendanceData{Roster: roster, Date: date}
	h.render(c, status, "take_attendance.html", pg)
}

// Mine godoc
// GET /my-attendance
// One card per course with the student's attendance percentage.
func (h *AttendanceHandler) Mine(c *gin.Context) {
	pg := h.newPage(c, access.PathMyAttendance)
	summaries, err := view.LoadMyAttendance(c.Request.Context(), h.conn(c))
	if err != nil {
		pg.Data = []view.AttendanceSummary{}
		h.fail(c, "my_attendance.html", pg, err, "Failed to fetch attendance data.")
		return
	}
	pg.Data = summaries
	h.render(c, http.StatusOK, "my_attendance.html", pg)
}

// Report godoc
// GET /view-attendance?course_id=&date=
func (h *AttendanceHandler) Report(c *gin.Context) {
	pg := h.newPage(c, access.PathViewAttendance)
	ctx := c.Request.Context()
	conn := h.conn(c)

	courses, err := conn.ListCourses(ctx)
	if err != nil {
		pg.Data = attendanceReportData{}
		h.fail(c, "view_attendance.html", pg, err, "Failed to fetch courses.")
		return
	}
	data := attendanceReportData{
		Courses:  courses,
		CourseID: queryID(c, "course_id"),
		Date:     c.Query("date"),
	}
	pg.Data = &data

	_, submitted := c.GetQuery("course_id")
	if !submitted {
		h.render(c, http.StatusOK, "view_attendance.html", pg)
		return
	}
	if data.CourseID == 0 || !validDate(data.Date) {
		pg.Error = response.GetMessage(response.ErrInvalidDate)
		h.render(c, http.StatusBadRequest, "view_attendance.html", pg)
		return
	}

	data.Searched = true
	rows, err := view.LoadAttendanceReport(ctx, conn, data.CourseID, data.Date)
	if err != nil {
		h.fail(c, "view_attendance.html", pg, err, view.MsgAttendanceFailed)
		return
	}
	data.Rows = rows
	h.render(c, http.StatusOK, "view_attendance.html", pg)
}
