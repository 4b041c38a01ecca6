package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/campus-portal/internal/access"
	"github.com/stemsi/campus-portal/internal/guard"
	"github.com/stemsi/campus-portal/internal/model"
)

// ContextKeyUser is the Gin context key for the resolved *model.User.
const ContextKeyUser = "user"

// RequireRoute resolves the session and applies the guard rule for path.
// Denied requests are redirected to the login page. A request whose client
// has gone away while resolving is dropped without a response.
func RequireRoute(path string) gin.HandlerFunc {
	route := access.MustLookup(path)
	return func(c *gin.Context) {
		store := GetSession(c)
		var user *model.User
		if store != nil {
			user = store.Resolve(c.Request.Context())
		}
		if c.Request.Context().Err() != nil {
			c.Abort()
			return
		}

		if guard.Evaluate(user, route) != guard.Authorized {
			c.Redirect(http.StatusSeeOther, guard.LoginPath)
			c.Abort()
			return
		}

		if user != nil {
			c.Set(ContextKeyUser, user)
		}
		c.Next()
	}
}

// RequireCapability gates an action inside an already guarded page, such as
// deleting a course. It must run after RequireRoute.
func RequireCapability(capability access.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil {
			c.Redirect(http.StatusSeeOther, guard.LoginPath)
			c.Abort()
			return
		}
		if !access.Can(user.Role, capability) {
			c.Redirect(http.StatusSeeOther, access.PathDashboard)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUser returns the identity RequireRoute or RequireBearer resolved, or nil.
func GetUser(c *gin.Context) *model.User {
	val, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, _ := val.(*model.User)
	return user
}
