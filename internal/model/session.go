package model

// Session is the client's view of who is logged in.
// User is set only when Token is set and the API accepted it.
type Session struct {
	Token string
	User  *User
}

// Authenticated reports whether a resolved identity is present.
func (s Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}
