package view

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/model"
)

// API is the slice of the gateway the pages use. *apiclient.Conn satisfies it.
type API interface {
	AdminDashboard(ctx context.Context) (*model.AdminDashboardData, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	CourseStudents(ctx context.Context, courseID int) ([]model.User, error)
	MyAttendance(ctx context.Context, courseID int) ([]model.AttendanceRecord, error)
	AttendanceReport(ctx context.Context, courseID int, date string) ([]model.AttendanceReportRow, error)
	SubmitGrade(ctx context.Context, courseID int, in model.GradeInput) (*model.MessageResponse, error)
	MyGrades(ctx context.Context) ([]model.Grade, error)
	GradesReport(ctx context.Context, courseID int) ([]model.GradeReportRow, error)
}

var _ API = (*apiclient.Conn)(nil)

// AdminPage is the system administration screen.
type AdminPage struct {
	Dashboard *model.AdminDashboardData
	Users     []model.User
}

// LoadAdmin fetches the metrics and the user list concurrently.
func LoadAdmin(ctx context.Context, api API) (*AdminPage, error) {
	tasks := NewTasks(ctx)
	defer tasks.Close()

	page := &AdminPage{}
	Go(tasks, api.AdminDashboard, func(d *model.AdminDashboardData) { page.Dashboard = d })
	Go(tasks, api.ListUsers, func(u []model.User) { page.Users = u })
	if err := tasks.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

// CourseGrades is one course card on the my-grades screen.
type CourseGrades struct {
	Course model.Course
	Grades []model.Grade
}

// LoadMyGrades fetches courses and the student's grades concurrently and
// files each grade under its course.
func LoadMyGrades(ctx context.Context, api API) ([]CourseGrades, error) {
	tasks := NewTasks(ctx)
	defer tasks.Close()

	var (
		courses []model.Course
		grades  []model.Grade
	)
	Go(tasks, api.ListCourses, func(c []model.Course) { courses = c })
	Go(tasks, api.MyGrades, func(g []model.Grade) { grades = g })
	if err := tasks.Wait(); err != nil {
		return nil, err
	}

	byCourse := GroupGradesByCourse(grades)
	cards := make([]CourseGrades, 0, len(courses))
	for _, c := range courses {
		cards = append(cards, CourseGrades{Course: c, Grades: byCourse[c.ID]})
	}
	return cards, nil
}

// LoadMyAttendance fetches the course list and then every course's records
// concurrently. Summaries keep course order.
func LoadMyAttendance(ctx context.Context, api API) ([]AttendanceSummary, error) {
	courses, err := api.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	tasks := NewTasks(ctx)
	defer tasks.Close()

	summaries := make([]AttendanceSummary, len(courses))
	for i, c := range courses {
		Go(tasks,
			func(ctx context.Context) ([]model.AttendanceRecord, error) { return api.MyAttendance(ctx, c.ID) },
			func(r []model.AttendanceRecord) { summaries[i] = Summarize(c, r) },
		)
	}
	if err := tasks.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// Roster is a course picker plus the students of the selected course.
type Roster struct {
	Courses  []model.Course
	Selected *model.Course
	Students []model.User
}

// LoadRoster fetches courses, then the students of courseID when it is set.
// A courseID that is not in the list selects nothing.
func LoadRoster(ctx context.Context, api API, courseID int) (*Roster, error) {
	courses, err := api.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	r := &Roster{Courses: courses}
	if courseID == 0 {
		return r, nil
	}
	for i := range courses {
		if courses[i].ID == courseID {
			r.Selected = &courses[i]
		}
	}
	if r.Selected == nil {
		return r, nil
	}
	students, err := api.CourseStudents(ctx, courseID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(students, func(i, j int) bool { return students[i].Name < students[j].Name })
	r.Students = students
	return r, nil
}

// Messages shown inline on the report and grade pages.
const (
	MsgNoAttendance      = "No attendance records found for this course and date."
	MsgAttendanceFailed  = "Failed to fetch attendance data. Please try again."
	MsgNoGrades          = "No grades found for this course."
	MsgGradesFailed      = "Failed to fetch grades data. Please try again."
	MsgGradesSubmitted   = "Grades submitted successfully!"
	MsgSomeGradesFailed  = "Failed to submit some grades."
	MsgNoScoresEntered   = "Enter at least one score."
	MsgAssignmentMissing = "Please enter an assignment name."
)

// ReportError is a report failure with the message to show for it.
type ReportError struct {
	Message string
	Err     error
}

func (e *ReportError) Error() string { return fmt.Sprintf("%s: %v", e.Message, e.Err) }
func (e *ReportError) Unwrap() error { return e.Err }

// reportError maps a failed report fetch to its message. Authorization
// failures pass through untouched so callers can end the session.
func reportError(err error, notFound, failed string) error {
	var authErr *apiclient.AuthorizationError
	if errors.As(err, &authErr) {
		return err
	}
	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) && reqErr.NotFound() {
		return &ReportError{Message: notFound, Err: err}
	}
	return &ReportError{Message: failed, Err: err}
}

func LoadAttendanceReport(ctx context.Context, api API, courseID int, date string) ([]model.AttendanceReportRow, error) {
	rows, err := api.AttendanceReport(ctx, courseID, date)
	if err != nil {
		return nil, reportError(err, MsgNoAttendance, MsgAttendanceFailed)
	}
	return rows, nil
}

func LoadGradesReport(ctx context.Context, api API, courseID int) ([]model.GradeReportRow, error) {
	rows, err := api.GradesReport(ctx, courseID)
	if err != nil {
		return nil, reportError(err, MsgNoGrades, MsgGradesFailed)
	}
	return rows, nil
}

// GradeResult is the outcome of one grade in a batch.
type GradeResult struct {
	Input model.GradeInput
	Err   error
}

// SubmitGrades posts every grade of a batch concurrently and waits for all
// of them. It returns the per-grade results in input order and the first
// failure, if any.
func SubmitGrades(ctx context.Context, api API, courseID int, inputs []model.GradeInput) ([]GradeResult, error) {
	tasks := NewTasks(ctx)
	defer tasks.Close()

	results := make([]GradeResult, len(inputs))
	for i, in := range inputs {
		results[i].Input = in
		Go(tasks,
			func(ctx context.Context) (*model.MessageResponse, error) {
				ack, err := api.SubmitGrade(ctx, courseID, in)
				if err != nil {
					results[i].Err = err
				}
				return ack, err
			},
			func(*model.MessageResponse) {},
		)
	}
	return results, tasks.Wait()
}
