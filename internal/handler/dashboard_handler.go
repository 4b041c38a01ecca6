package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/response"
)

// DashboardHandler renders the role-scoped landing page.
type DashboardHandler struct {
	portal
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(api *apiclient.Client, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{portal{api: api, log: log.With().Str("component", "dashboard_handler").Logger()}}
}

// Dashboard godoc
// GET /dashboard
// Picks the dashboard for the user's role. An unrecognised role gets the
// support notice and no navigation.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	pg := h.newPage(c, access.PathDashboard)

	variant, err := access.Dispatch(pg.User.Role)
	var unknown *access.UnknownRoleError
	if errors.As(err, &unknown) {
		h.log.Warn().Int("user_id", pg.User.ID).Str("role", string(unknown.Role)).Msg("Unknown role on dashboard")
		pg.Error = response.GetMessage(response.ErrUnknownRole)
	}
	pg.Data = variant
	h.render(c, http.StatusOK, "dashboard.html", pg)
}
