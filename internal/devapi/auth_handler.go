package devapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/middleware"
	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/response"
	"github.com/stemsi/campus-portal/internal/service"
	"github.com/stemsi/campus-portal/internal/validator"
)

// AuthHandler serves login, signup and identity endpoints.
type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
	log   zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, users *service.UserService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, users: users, log: log}
}

// Token godoc
// POST /auth/token
// OAuth2 password grant. The username field carries the email.
func (h *AuthHandler) Token(c *gin.Context) {
	var form model.LoginForm
	if fields := validator.BindForm(c, &form); fields != nil {
		response.Invalid(c, http.StatusUnprocessableEntity, fields)
		return
	}
	h.issue(c, form.Username, form.Password)
}

// Login godoc
// POST /auth/login
// JSON variant of Token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.Invalid(c, http.StatusUnprocessableEntity, fields)
		return
	}
	h.issue(c, req.Email, req.Password)
}

func (h *AuthHandler) issue(c *gin.Context, email, password string) {
	token, err := h.auth.Authenticate(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.Header("WWW-Authenticate", "Bearer")
			response.Detail(c, http.StatusUnauthorized, detailBadLogin)
			return
		}
		fail(c, h.log, err)
		return
	}

	h.log.Info().Str("email", email).Msg("Issued access token")
	c.JSON(http.StatusOK, model.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Register godoc
// POST /auth/register (also /auth/signup)
// Creates a student account.
func (h *AuthHandler) Register(c *gin.Context) {
	var reg model.Registration
	if fields := validator.Bind(c, &reg); fields != nil {
		response.Invalid(c, http.StatusUnprocessableEntity, fields)
		return
	}

	user, err := h.users.Register(c.Request.Context(), reg)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me godoc
// GET /users/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.GetUser(c))
}
