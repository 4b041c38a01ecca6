package devapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/response"
	"github.com/stemsi/campus-portal/internal/service"
	"github.com/stemsi/campus-portal/internal/validator"
)

// AdminHandler serves the superuser endpoints.
type AdminHandler struct {
	users     *service.UserService
	dashboard *service.DashboardService
	log       zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(users *service.UserService, dashboard *service.DashboardService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{users: users, dashboard: dashboard, log: log}
}

// Dashboard godoc
// GET /admin/dashboard-data
func (h *AdminHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.GetDashboardData(c.Request.Context()))
}

// ListUsers godoc
// GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// POST /admin/create-user
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var in model.NewUser
	if fields := validator.Bind(c, &in); fields != nil {
		response.Invalid(c, http.StatusUnprocessableEntity, fields)
		return
	}

	user, err := h.users.Create(c.Request.Context(), in)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	h.log.Info().Int("user_id", user.ID).Str("role", string(user.Role)).Msg("User created")
	c.JSON(http.StatusOK, user)
}

// UpdateRole godoc
// PUT /admin/users/:id/role
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var in model.RoleUpdate
	if fields := validator.Bind(c, &in); fields != nil {
		response.Invalid(c, http.StatusUnprocessableEntity, fields)
		return
	}

	user, err := h.users.UpdateRole(c.Request.Context(), id, in.Role)
	if err != nil {
		fail(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
