package access

import (
	"fmt"

	"github.com/stemsi/campus-portal/internal/model"
)

// ViewVariant names the dashboard rendered for a role.
type ViewVariant string

const (
	StudentView  ViewVariant = "student"
	TeacherView  ViewVariant = "teacher"
	HodView      ViewVariant = "hod"
	AdminView    ViewVariant = "admin"
	FallbackView ViewVariant = "fallback"
)

var variants = map[model.Role]ViewVariant{
	model.RoleStudent: StudentView,
	model.RoleTeacher: TeacherView,
	model.RoleHOD:     HodView,
	model.RoleAdmin:   AdminView,
}

// UnknownRoleError flags a role outside the closed set.
type UnknownRoleError struct {
	Role model.Role
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("unknown role %q", string(e.Role))
}

// Dispatch selects the dashboard for role. Any role outside the closed set
// yields FallbackView together with an *UnknownRoleError; there is no
// default dashboard.
func Dispatch(role model.Role) (ViewVariant, error) {
	if v, ok := variants[role]; ok {
		return v, nil
	}
	return FallbackView, &UnknownRoleError{Role: role}
}

// NavLink is one navigation affordance.
type NavLink struct {
	Label      string
	Path       string
	Capability Capability
}

// NavLinks is the allow-list of dashboard links. Each link is shown to the
// roles holding its capability.
var NavLinks = []NavLink{
	{Label: "Courses", Path: PathCourses, Capability: CapViewCourses},
	{Label: "Take Attendance", Path: PathTakeAttendance, Capability: CapTakeAttendance},
	{Label: "Enter Grades", Path: PathManageGrades, Capability: CapManageGrades},
	{Label: "My Attendance", Path: PathMyAttendance, Capability: CapViewOwnAttendance},
	{Label: "My Grades", Path: PathMyGrades, Capability: CapViewOwnGrades},
	{Label: "View Attendance", Path: PathViewAttendance, Capability: CapViewAttendanceReports},
	{Label: "View Grades", Path: PathViewGrades, Capability: CapViewGradeReports},
	{Label: "System Administration", Path: PathAdmin, Capability: CapAdministerSystem},
}

// LinksFor returns the links role may see, in table order.
func LinksFor(role model.Role) []NavLink {
	var links []NavLink
	for _, l := range NavLinks {
		if Can(role, l.Capability) {
			links = append(links, l)
		}
	}
	return links
}
