package session

// DefaultLoginFailure is shown when the API rejects a login without saying why.
const DefaultLoginFailure = "Login failed. Please check your credentials."

// AuthenticationError is a failed login. Reason is safe to show on the form.
type AuthenticationError struct {
	Reason string
	Err    error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return "authentication failed: " + e.Reason + ": " + e.Err.Error()
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthenticationError) Unwrap() error { return e.Err }
