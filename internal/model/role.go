package model

// Role is the access level of a portal user.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleHOD     Role = "hod"
	RoleAdmin   Role = "admin"
)

// wireSuperuser is the name the college API uses for RoleAdmin.
const wireSuperuser = "superuser"

// AllRoles lists the closed set of known roles.
var AllRoles = []Role{RoleStudent, RoleTeacher, RoleHOD, RoleAdmin}

// ParseRole maps the wire name "superuser" to RoleAdmin. Every other value,
// including differently cased known names, is kept verbatim so the
// dispatcher flags it instead of granting a role.
func ParseRole(s string) Role {
	if s == wireSuperuser {
		return RoleAdmin
	}
	return Role(s)
}

// Valid reports whether r is one of AllRoles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleHOD, RoleAdmin:
		return true
	}
	return false
}

// Label is the display name used in navigation and tables.
func (r Role) Label() string {
	switch r {
	case RoleStudent:
		return "Student"
	case RoleTeacher:
		return "Teacher"
	case RoleHOD:
		return "HOD"
	case RoleAdmin:
		return "Admin"
	}
	return string(r)
}

// MarshalText writes the API's wire name.
func (r Role) MarshalText() ([]byte, error) {
	if r == RoleAdmin {
		return []byte(wireSuperuser), nil
	}
	return []byte(r), nil
}

// UnmarshalText accepts both "admin" and "superuser".
func (r *Role) UnmarshalText(b []byte) error {
	*r = ParseRole(string(b))
	return nil
}
