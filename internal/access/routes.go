package access

import (
	"github.com/stemsi/campus-portal/internal/model"
)

// Route is a client-visible path and what it takes to open it.
type Route struct {
	Path  string
	Title string
	// Public routes never require a session.
	Public bool
	// Capability gates a protected route. Empty means any authenticated user.
	Capability Capability
}

// AllowedRoles returns the roles that may open the route.
// Nil means any authenticated user.
func (r Route) AllowedRoles() []model.Role {
	if r.Capability == "" {
		return nil
	}
	return RolesWith(r.Capability)
}

const (
	PathHome           = "/"
	PathLogin          = "/login"
	PathSignup         = "/signup"
	PathDashboard      = "/dashboard"
	PathAdmin          = "/admin"
	PathCourses        = "/courses"
	PathTakeAttendance = "/take-attendance"
	PathMyAttendance   = "/my-attendance"
	PathViewAttendance = "/view-attendance"
	PathManageGrades   = "/manage-grades"
	PathMyGrades       = "/my-grades"
	PathViewGrades     = "/view-grades"
)

// Routes is the table of every client-visible route.
var Routes = []Route{
	{Path: PathHome, Title: "College Portal", Public: true},
	{Path: PathLogin, Title: "Login", Public: true},
	{Path: PathSignup, Title: "Sign Up", Public: true},
	{Path: PathDashboard, Title: "Dashboard"},
	{Path: PathAdmin, Title: "System Administration", Capability: CapAdministerSystem},
	{Path: PathCourses, Title: "Courses", Capability: CapViewCourses},
	{Path: PathTakeAttendance, Title: "Take Attendance", Capability: CapTakeAttendance},
	{Path: PathMyAttendance, Title: "My Attendance", Capability: CapViewOwnAttendance},
	{Path: PathViewAttendance, Title: "View Attendance", Capability: CapViewAttendanceReports},
	{Path: PathManageGrades, Title: "Enter Grades", Capability: CapManageGrades},
	{Path: PathMyGrades, Title: "My Grades", Capability: CapViewOwnGrades},
	{Path: PathViewGrades, Title: "View Grades", Capability: CapViewGradeReports},
}

// Lookup finds the route registered for path.
func Lookup(path string) (Route, bool) {
	for _, r := range Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// MustLookup is Lookup for paths known at compile time.
func MustLookup(path string) Route {
	r, ok := Lookup(path)
	if !ok {
		panic("access: no route for " + path)
	}
	return r
}
