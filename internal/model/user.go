package model

// User is the identity the API reports for a bearer token.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Credentials is what a user submits on the login form.
type Credentials struct {
	Email    string
	Password string
}

// Registration is the public signup payload. The API always creates students.
type Registration struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}

// NewUser is the admin create-user payload.
type NewUser struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
	Role     Role   `json:"role" binding:"required,oneof=student teacher hod admin"`
}

// RoleUpdate is the body of PUT /admin/users/{id}/role.
type RoleUpdate struct {
	Role Role `json:"role" binding:"required,oneof=student teacher hod admin"`
}

// TokenResponse is returned by the login endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
