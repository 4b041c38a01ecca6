package model

import "time"

// Account is a stored user together with its credential hash.
// Only the development API holds accounts; the portal sees User.
type Account struct {
	User
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LoginForm is the OAuth2 password-grant form posted to /auth/token.
// The username field carries the email.
type LoginForm struct {
	Username string `form:"username" binding:"required,max=255"`
	Password string `form:"password" binding:"required,max=128"`
}

// LoginRequest is the JSON login payload accepted on /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=128"`
}
