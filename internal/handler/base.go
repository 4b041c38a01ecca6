package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/apiclient"
	"github.com/stemsi/campus-portal/internal/guard"
	"github.com/stemsi/campus-portal/internal/middleware"
	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/response"
	"github.com/stemsi/campus-portal/internal/view"
)

// Page is the data every template receives.
type Page struct {
	Title   string
	Path    string
	User    *model.User
	Links   []access.NavLink
	Message string
	Error   string
	Data    any
}

// Can lets templates show actions only to roles that hold them.
func (p *Page) Can(capability access.Capability) bool {
	return p.User != nil && access.Can(p.User.Role, capability)
}

// portal holds what every page handler needs.
type portal struct {
	api *apiclient.Client
	log zerolog.Logger
}

func (p *portal) newPage(c *gin.Context, path string) *Page {
	pg := &Page{Path: path, User: middleware.GetUser(c)}
	if r, ok := access.Lookup(path); ok {
		pg.Title = r.Title
	}
	if pg.User != nil {
		pg.Links = access.LinksFor(pg.User.Role)
	}
	pg.Message = takeFlash(c)
	return pg
}

// conn binds the gateway to the request's session.
func (p *portal) conn(c *gin.Context) *apiclient.Conn {
	return p.api.As(middleware.GetSession(c))
}

func (p *portal) render(c *gin.Context, status int, tmpl string, pg *Page) {
	c.HTML(status, tmpl, pg)
}

// fail reports err on pg, or ends the request when the session is gone.
// generic is shown when the API gave no detail.
func (p *portal) fail(c *gin.Context, tmpl string, pg *Page, err error, generic string) {
	if p.sessionEnded(c, err) {
		return
	}
	pg.Error = errorMessage(err, generic)
	p.log.Warn().Err(err).Str("request_id", response.RequestID(c)).Str("path", c.Request.URL.Path).Msg("API call failed")
	p.render(c, statusFor(err), tmpl, pg)
}

// sessionEnded redirects to the login page when the API rejected the token
// or the client went away. The store has already been invalidated by then.
func (p *portal) sessionEnded(c *gin.Context, err error) bool {
	if c.Request.Context().Err() != nil {
		c.Abort()
		return true
	}
	var authErr *apiclient.AuthorizationError
	if errors.As(err, &authErr) {
		setFlash(c, response.GetMessage(response.ErrSessionExpired))
		c.Redirect(http.StatusSeeOther, guard.LoginPath)
		c.Abort()
		return true
	}
	return false
}

// redirect finishes a successful form post.
func (p *portal) redirect(c *gin.Context, location, flash string) {
	if flash != "" {
		setFlash(c, flash)
	}
	c.Redirect(http.StatusSeeOther, location)
}

// errorMessage picks the text shown for a failed API call: the backend's
// detail when it sent one, otherwise a message for the kind of failure.
// generic describes a rejected request; a server-side failure without detail
// gets ErrRequestFailed instead.
func errorMessage(err error, generic string) string {
	var reportErr *view.ReportError
	if errors.As(err, &reportErr) {
		return reportErr.Message
	}
	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Detail != "" {
			return reqErr.Detail
		}
		switch {
		case reqErr.Status == 0:
			return response.GetMessage(response.ErrBackendUnavailable)
		case reqErr.Status >= 500:
			return response.GetMessage(response.ErrRequestFailed)
		}
	}
	return generic
}

func statusFor(err error) int {
	var reqErr *apiclient.RequestError
	if errors.As(err, &reqErr) {
		switch {
		case reqErr.Status == 0:
			return http.StatusBadGateway
		case reqErr.Status >= 400 && reqErr.Status < 500:
			return reqErr.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusOK
}

const flashKey = "flash"

func setFlash(c *gin.Context, msg string) {
	s := sessions.Default(c)
	s.AddFlash(msg, flashKey)
	_ = s.Save()
}

func takeFlash(c *gin.Context) string {
	s := sessions.Default(c)
	flashes := s.Flashes(flashKey)
	if len(flashes) == 0 {
		return ""
	}
	_ = s.Save()
	msg, _ := flashes[len(flashes)-1].(string)
	return msg
}

// queryID reads a positive integer query parameter; 0 means absent or invalid.
func queryID(c *gin.Context, name string) int {
	id, err := strconv.Atoi(c.Query(name))
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil && id > 0
}
