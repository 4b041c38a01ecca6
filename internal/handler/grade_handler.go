package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/view"
)

// GradeHandler serves entering, viewing and reporting grades.
type GradeHandler struct {
	portal
}

// NewGradeHandler creates a new GradeHandler.
func NewGradeHandler(api *apiclient.Client, log zerolog.Logger) *GradeHandler {
	return &GradeHandler{portal{api: api, log: log.With().Str("component", "grade_handler").Logger()}}
}

const (
	msgSelectCourse = "Please select a course."
	msgScoreRange   = "Scores must be numbers between 0 and 100."
)

type manageGradesData struct {
	*view.Roster
	Assignment string
	Scores     map[string]string
	Comments   map[string]string
}

type gradesReportData struct {
	Courses  []model.Course
	CourseID int
	Rows     []model.GradeReportRow
	Searched bool
}

// ManagePage godoc
// GET /manage-grades?course_id=
func (h *GradeHandler) ManagePage(c *gin.Context) {
	h.showRoster(c, http.StatusOK, queryID(c, "course_id"), manageGradesData{}, "")
}

// parseGrades turns the score[<id>] and comments[<id>] fields into inputs.
// Blank scores are skipped.
func parseGrades(assignment string, scores, comments map[string]string) ([]model.GradeInput, error) {
	var inputs []model.GradeInput
	for rawID, rawScore := range scores {
		rawScore = strings.TrimSpace(rawScore)
		if rawScore == "" {
			continue
		}
		studentID, err := strconv.Atoi(rawID)
		if err != nil || studentID <= 0 {
			return nil, fmt.Errorf("invalid student id %q", rawID)
		}
		score, err := strconv.ParseFloat(rawScore, 64)
		if err != nil || score < model.MinScore || score > model.MaxScore {
			return nil, fmt.Errorf("score %q for student %d out of range", rawScore, studentID)
		}
		in := model.GradeInput{StudentID: studentID, AssignmentName: assignment, Score: score}
		if comment := strings.TrimSpace(comments[rawID]); comment != "" {
			in.Comments = &comment
		}
		inputs = append(inputs, in)
	}
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].StudentID < inputs[j].StudentID })
	return inputs, nil
}

// Manage godoc
// POST /manage-grades
// Form: course_id, assignment_name, score[<student id>], comments[<student id>].
// Every grade is submitted concurrently; one failure fails the batch message.
func (h *GradeHandler) Manage(c *gin.Context) {
	courseID, _ := strconv.Atoi(c.PostForm("course_id"))
	data := manageGradesData{
		Assignment: strings.TrimSpace(c.PostForm("assignment_name")),
		Scores:     c.PostFormMap("score"),
		Comments:   c.PostFormMap("comments"),
	}
	if courseID <= 0 {
		h.showRoster(c, http.StatusBadRequest, 0, data, msgSelectCourse)
		return
	}
	if data.Assignment == "" {
		h.showRoster(c, http.StatusBadRequest, courseID, data, view.MsgAssignmentMissing)
		return
	}

	inputs, err := parseGrades(data.Assignment, data.Scores, data.Comments)
	if err != nil {
		h.log.Debug().Err(err).Msg("Rejected grade form")
		h.showRoster(c, http.StatusBadRequest, courseID, data, msgScoreRange)
		return
	}
	if len(inputs) == 0 {
		h.showRoster(c, http.StatusBadRequest, courseID, data, view.MsgNoScoresEntered)
		return
	}

	results, err := view.SubmitGrades(c.Request.Context(), h.conn(c), courseID, inputs)
	if err != nil {
		failed := 0
		for _, r := range results {
			if r.Err == nil {
				continue
			}
			if h.sessionEnded(c, r.Err) {
				return
			}
			failed++
		}
		h.log.Warn().Err(err).Int("course_id", courseID).Int("failed", failed).Int("total", len(results)).Msg("Grade batch incomplete")
		h.showRoster(c, statusFor(err), courseID, data, view.MsgSomeGradesFailed)
		return
	}

	h.redirect(c, fmt.Sprintf("%s?course_id=%d", access.PathManageGrades, courseID), view.MsgGradesSubmitted)
}

func (h *GradeHandler) showRoster(c *gin.Context, status, courseID int, data manageGradesData, errMsg string) {
	pg := h.newPage(c, access.PathManageGrades)
	roster, err := view.LoadRoster(c.Request.Context(), h.conn(c), courseID)
	if err != nil {
		data.Roster = &view.Roster{}
		pg.Data = data
		h.fail(c, "manage_grades.html", pg, err, "Failed to fetch students.")
		return
	}
	data.Roster = roster
	pg.Error = errMsg
	pg.Data = data
	h.render(c, status, "manage_grades.html", pg)
}

// Mine godoc
// GET /my-grades
// Grades grouped under each course.
func (h *GradeHandler) Mine(c *gin.Context) {
	pg := h.newPage(c, access.PathMyGrades)
	cards, err := view.LoadMyGrades(c.Request.Context(), h.conn(c))
	if err != nil {
		pg.Data = []view.CourseGrades{}
		h.fail(c, "my_grades.html", pg, err, "Failed to fetch grades.")
		return
	}
	pg.Data = cards
	h.render(c, http.StatusOK, "my_grades.html", pg)
}

// Report godoc
// GET /view-grades?course_id=
func (h *GradeHandler) Report(c *gin.Context) {
	pg := h.newPage(c, access.PathViewGrades)
	ctx := c.Request.Context()
	conn := h.conn(c)

	courses, err := conn.ListCourses(ctx)
	if err != nil {
		pg.Data = gradesReportData{}
		h.fail(c, "view_grades.html", pg, err, "Failed to fetch courses.")
		return
	}
	data := gradesReportData{Courses: courses, CourseID: queryID(c, "course_id")}
	pg.Data = &data

	if _, submitted := c.GetQuery("course_id"); !submitted {
		h.render(c, http.StatusOK, "view_grades.html", pg)
		return
	}
	if data.CourseID == 0 {
		pg.Error = msgSelectCourse
		h.render(c, http.StatusBadRequest, "view_grades.html", pg)
		return
	}

	data.Searched = true
	rows, err := view.LoadGradesReport(ctx, conn, data.CourseID)
	if err != nil {
		h.fail(c, "view_grades.html", pg, err, view.MsgGradesFailed)
		return
	}
	data.Rows = rows
	h.render(c, http.StatusOK, "view_grades.html", pg)
}
