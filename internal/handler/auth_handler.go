package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/middleware"
	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/response"
	"github.com/stemsi/campus-portal/internal/session"
	"github.com/stemsi/campus-portal/internal/validator"
)

// AuthHandler serves the public pages: home, login, signup and logout.
type AuthHandler struct {
	portal
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(api *apiclient.Client, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{portal{api: api, log: log.With().Str("component", "auth_handler").Logger()}}
}

// LoginForm is the login form submission.
type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// SignupForm is the public registration form.
type SignupForm struct {
	Name     string `form:"name" binding:"required,max=100"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
}

// publicPage resolves the session if the cookie carries one, so public pages
// can greet a logged-in user.
func (h *AuthHandler) publicPage(c *gin.Context, path string) *Page {
	pg := h.newPage(c, path)
	if store := middleware.GetSession(c); store != nil {
		pg.User = store.Resolve(c.Request.Context())
		if pg.User != nil {
			pg.Links = access.LinksFor(pg.User.Role)
		}
	}
	return pg
}

// Home godoc
// GET /
func (h *AuthHandler) Home(c *gin.Context) {
	h.render(c, http.StatusOK, "home.html", h.publicPage(c, access.PathHome))
}

// LoginPage godoc
// GET /login
// Already authenticated users go straight to their dashboard.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	pg := h.publicPage(c, access.PathLogin)
	if pg.User != nil {
		c.Redirect(http.StatusSeeOther, access.PathDashboard)
		return
	}
	h.render(c, http.StatusOK, "login.html", pg)
}

// Login godoc
// POST /login
// Exchanges the submitted credentials for a session.
func (h *AuthHandler) Login(c *gin.Context) {
	pg := h.newPage(c, access.PathLogin)

	var form LoginForm
	if fields := validator.BindForm(c, &form); fields != nil {
		pg.Error = validator.Summary(fields)
		pg.Data = gin.H{"Email": form.Email}
		h.render(c, http.StatusBadRequest, "login.html", pg)
		return
	}

	store := middleware.GetSession(c)
	_, err := store.Login(c.Request.Context(), model.Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		var authErr *session.AuthenticationError
		if !errors.As(err, &authErr) {
			authErr = &session.AuthenticationError{Reason: response.GetMessage(response.ErrInvalidCredentials)}
		}
		h.log.Info().Err(err).Str("client_ip", c.ClientIP()).Msg("Login rejected")
		pg.Error = authErr.Reason
		pg.Data = gin.H{"Email": form.Email}
		h.render(c, http.StatusUnauthorized, "login.html", pg)
		return
	}

	c.Redirect(http.StatusSeeOther, access.PathDashboard)
}

// LoginThrottled renders the login page for a client that has exhausted
// its attempts.
func (h *AuthHandler) LoginThrottled(c *gin.Context) {
	pg := h.newPage(c, access.PathLogin)
	pg.Error = response.GetMessage(response.ErrRateLimitExceeded)
	h.render(c, http.StatusTooManyRequests, "login.html", pg)
}

// SignupPage godoc
// GET /signup
func (h *AuthHandler) SignupPage(c *gin.Context) {
	h.render(c, http.StatusOK, "signup.html", h.publicPage(c, access.PathSignup))
}

// Signup godoc
// POST /signup
// Registers a student account. The API decides the role.
func (h *AuthHandler) Signup(c *gin.Context) {
	pg := h.newPage(c, access.PathSignup)

	var form SignupForm
	if fields := validator.BindForm(c, &form); fields != nil {
		pg.Error = validator.Summary(fields)
		pg.Data = gin.H{"Name": form.Name, "Email": form.Email}
		h.render(c, http.StatusBadRequest, "signup.html", pg)
		return
	}

	_, err := h.api.Register(c.Request.Context(), model.Registration{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		pg.Data = gin.H{"Name": form.Name, "Email": form.Email}
		h.fail(c, "signup.html", pg, err, "Registration failed. Please try again.")
		return
	}

	h.redirect(c, access.PathLogin, "Account created. Please log in.")
}

// Logout godoc
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if store := middleware.GetSession(c); store != nil {
		store.Logout(c.Request.Context())
	}
	h.redirect(c, access.PathLogin, "You have been logged out.")
}
