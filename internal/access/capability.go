// Package access holds the declarative role tables shared by the route guard,
// the dashboard dispatcher and the views. Changing what a role may do is an
// edit to Capabilities and nothing else.
package access

import (
	"slices"

	"github.com/stemsi/campus-portal/internal/model"
)

// Capability is a string code for an action a role may perform.
type Capability string

const (
	// CapViewCourses allows listing the course catalogue.
	CapViewCourses Capability = "courses:view"

	// CapManageCourses allows creating and editing courses.
	CapManageCourses Capability = "courses:manage"

	// CapDeleteCourses allows deleting courses.
	CapDeleteCourses Capability = "courses:delete"

	// CapTakeAttendance allows submitting attendance for a class.
	CapTakeAttendance Capability = "attendance:take"

	// CapViewOwnAttendance allows a student to see their own attendance.
	CapViewOwnAttendance Capability = "attendance:view_own"

	// CapViewAttendanceReports allows viewing attendance for a course and date.
	CapViewAttendanceReports Capability = "attendance:view_reports"

	// CapManageGrades allows entering grades.
	CapManageGrades Capability = "grades:manage"

	// CapViewOwnGrades allows a student to see their own grades.
	CapViewOwnGrades Capability = "grades:view_own"

	// CapViewGradeReports allows viewing every grade of a course.
	CapViewGradeReports Capability = "grades:view_reports"

	// CapAdministerSystem allows user management and system metrics.
	CapAdministerSystem Capability = "system:administer"
)

// Capabilities maps each known role to what it may do.
var Capabilities = map[model.Role][]Capability{
	model.RoleStudent: {
		CapViewCourses,
		CapViewOwnAttendance,
		CapViewOwnGrades,
	},
	model.RoleTeacher: {
		CapViewCourses,
		CapTakeAttendance,
		CapManageGrades,
		CapViewGradeReports,
	},
	model.RoleHOD: {
		CapViewCourses,
		CapManageCourses,
		CapViewAttendanceReports,
		CapViewGradeReports,
	},
	model.RoleAdmin: {
		CapViewCourses,
		CapManageCourses,
		CapDeleteCourses,
		CapViewAttendanceReports,
		CapViewGradeReports,
		CapAdministerSystem,
	},
}

// Can reports whether role holds capability. Unknown roles hold nothing.
func Can(role model.Role, capability Capability) bool {
	return slices.Contains(Capabilities[role], capability)
}

// RolesWith returns the roles holding capability, in model.AllRoles order.
func RolesWith(capability Capability) []model.Role {
	var roles []model.Role
	for _, r := range model.AllRoles {
		if Can(r, capability) {
			roles = append(roles, r)
		}
	}
	return roles
}
