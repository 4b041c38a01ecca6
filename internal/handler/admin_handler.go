package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/validator"
	"github.com/stemsi/campus-portal/internal/view"
)

// AdminHandler serves system administration: metrics and user management.
type AdminHandler struct {
	portal
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(api *apiclient.Client, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{portal{api: api, log: log.With().Str("component", "admin_handler").Logger()}}
}

// CreateUserForm is the admin create-user form.
type CreateUserForm struct {
	Name     string `form:"name" binding:"required,max=100"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6"`
	Role     string `form:"role" binding:"required,oneof=student teacher hod admin"`
}

// RoleForm is the change-role form.
type RoleForm struct {
	Role string `form:"role" binding:"required,oneof=student teacher hod admin"`
}

// adminData is what admin.html renders.
type adminData struct {
	*view.AdminPage
	Form CreateUserForm
}

const msgAdminLoadFailed = "Failed to fetch admin data. Please ensure the backend is running and you have permissions."

// Dashboard godoc
// GET /admin
// Loads system metrics and the user list concurrently.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	pg := h.newPage(c, access.PathAdmin)
	page, err := view.LoadAdmin(c.Request.Context(), h.conn(c))
	if err != nil {
		pg.Data = adminData{AdminPage: &view.AdminPage{}}
		h.fail(c, "admin.html", pg, err, msgAdminLoadFailed)
		return
	}
	pg.Data = adminData{AdminPage: page, Form: CreateUserForm{Role: string(model.RoleStudent)}}
	h.render(c, http.StatusOK, "admin.html", pg)
}

// CreateUser godoc
// POST /admin/users
// Creates an account with an explicit role. On failure the page is rendered
// again with the unchanged user list.
func (h *AdminHandler) CreateUser(c *gin.Context) {
	var form CreateUserForm
	if fields := validator.BindForm(c, &form); fields != nil {
		h.renderWithError(c, form, validator.Summary(fields), http.StatusBadRequest)
		return
	}

	conn := h.conn(c)
	created, err := conn.CreateUser(c.Request.Context(), model.NewUser{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Role:     model.ParseRole(form.Role),
	})
	if err != nil {
		if h.sessionEnded(c, err) {
			return
		}
		h.log.Warn().Err(err).Str("email", form.Email).Msg("Create user failed")
		form.Password = ""
		h.renderWithError(c, form, errorMessage(err, "Failed to create user. Email may already exist."), statusFor(err))
		return
	}

	h.redirect(c, access.PathAdmin, "Successfully created user: "+created.Name)
}

// UpdateRole godoc
// POST /admin/users/:id/role
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		h.redirect(c, access.PathAdmin, "Invalid user.")
		return
	}
	var form RoleForm
	if fields := validator.BindForm(c, &form); fields != nil {
		h.redirect(c, access.PathAdmin, validator.Summary(fields))
		return
	}

	updated, err := h.conn(c).UpdateUserRole(c.Request.Context(), id, model.ParseRole(form.Role))
	if err != nil {
		if h.sessionEnded(c, err) {
			return
		}
		h.log.Warn().Err(err).Int("user_id", id).Msg("Update role failed")
		h.redirect(c, access.PathAdmin, "Failed to update role. Please try again.")
		return
	}
	h.redirect(c, access.PathAdmin, "Updated "+updated.Name+" to "+updated.Role.Label()+".")
}

// renderWithError reloads the page data and shows msg above the form.
func (h *AdminHandler) renderWithError(c *gin.Context, form CreateUserForm, msg string, status int) {
	pg := h.newPage(c, access.PathAdmin)
	page, err := view.LoadAdmin(c.Request.Context(), h.conn(c))
	if err != nil {
		pg.Data = adminData{AdminPage: &view.AdminPage{}, Form: form}
		h.fail(c, "admin.html", pg, err, msgAdminLoadFailed)
		return
	}
	pg.Error = msg
	pg.Data = adminData{AdminPage: page, Form: form}
	h.render(c, status, "admin.html", pg)
}
