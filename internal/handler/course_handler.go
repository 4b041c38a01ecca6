package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/validator"
)

// CourseHandler serves the course catalogue and its management actions.
type CourseHandler struct {
	portal
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(api *apiclient.Client, log zerolog.Logger) *CourseHandler {
	return &CourseHandler{portal{api: api, log: log.With().Str("component", "course_handler").Logger()}}
}

// CourseForm is the create/edit course form.
type CourseForm struct {
	Name        string `form:"name" binding:"required,max=200"`
	Code        string `form:"code" binding:"required,max=20"`
	Description string `form:"description" binding:"max=2000"`
}

func (f CourseForm) input() model.CourseInput {
	in := model.CourseInput{Name: strings.TrimSpace(f.Name), Code: strings.TrimSpace(f.Code)}
	if d := strings.TrimSpace(f.Description); d != "" {
		in.Description = &d
	}
	return in
}

type coursesData struct {
	Courses []model.Course
	// EditingID is the course being edited, 0 when the form creates.
	EditingID int
	Form      CourseForm
}

// List godoc
// GET /courses
// ?edit=<id> fills the form with that course for editing.
func (h *CourseHandler) List(c *gin.Context) {
	h.show(c, http.StatusOK, queryID(c, "edit"), nil, "")
}

// Create godoc
// POST /courses
func (h *CourseHandler) Create(c *gin.Context) {
	var form CourseForm
	if fields := validator.BindForm(c, &form); fields != nil {
		h.show(c, http.StatusBadRequest, 0, &form, validator.Summary(fields))
		return
	}
	if _, err := h.conn(c).CreateCourse(c.Request.Context(), form.input()); err != nil {
		if h.sessionEnded(c, err) {
			return
		}
		h.show(c, statusFor(err), 0, &form, errorMessage(err, "Failed to create course. The course code may already exist."))
		return
	}
	h.redirect(c, access.PathCourses, "Course created.")
}

// Update godoc
// POST /courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, access.PathCourses, "Invalid course.")
		return
	}
	var form CourseForm
	if fields := validator.BindForm(c, &form); fields != nil {
		h.show(c, http.StatusBadRequest, id, &form, validator.Summary(fields))
		return
	}
	if _, err := h.conn(c).UpdateCourse(c.Request.Context(), id, form.input()); err != nil {
		if h.sessionEnded(c, err) {
			return
		}
		h.show(c, statusFor(err), id, &form, errorMessage(err, "Failed to update course. The course code may already exist."))
		return
	}
	h.redirect(c, access.PathCourses, "Course updated.")
}

// Delete godoc
// POST /courses/:id/delete
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, access.PathCourses, "Invalid course.")
		return
	}
	if err := h.conn(c).DeleteCourse(c.Request.Context(), id); err != nil {
		if h.sessionEnded(c, err) {
			return
		}
		h.log.Warn().Err(err).Int("course_id", id).Msg("Delete course failed")
		h.redirect(c, access.PathCourses, "Failed to delete course.")
		return
	}
	h.redirect(c, access.PathCourses, "Course deleted.")
}

// show renders the catalogue. form, when set, is the rejected submission.
func (h *CourseHandler) show(c *gin.Context, status, editingID int, form *CourseForm, errMsg string) {
	pg := h.newPage(c, access.PathCourses)
	courses, err := h.conn(c).ListCourses(c.Request.Context())
	if err != nil {
		pg.Data = coursesData{}
		h.fail(c, "courses.html", pg, err, "Failed to fetch courses.")
		return
	}

	data := coursesData{Courses: courses}
	if pg.Can(access.CapManageCourses) {
		data.EditingID = editingID
		switch {
		case form != nil:
			data.Form = *form
		case editingID != 0:
			data.EditingID = 0
			for _, course := range courses {
				if course.ID == editingID {
					data.EditingID = course.ID
					data.Form = CourseForm{Name: course.Name, Code: course.Code, Description: course.DescriptionText()}
				}
			}
		}
	}
	pg.Error = errMsg
	pg.Data = data
	h.render(c, status, "courses.html", pg)
}
