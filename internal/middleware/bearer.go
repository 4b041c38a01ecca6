package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/model"
	"github.com/stemsi/campus-portal/internal/response"
	"github.com/stemsi/campus-portal/internal/service"
)

// RequireBearer validates the Authorization bearer token and stores the
// account it belongs to under ContextKeyUser.
func RequireBearer(authService *service.AuthService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.Header("WWW-Authenticate", "Bearer")
			response.AbortDetail(c, http.StatusUnauthorized, response.GetMessage(response.ErrTokenRequired))
			return
		}

		user, err := authService.Identify(c.Request.Context(), tokenStr)
		if err != nil {
			if !errors.Is(err, service.ErrInvalidToken) {
				log.Error().Err(err).Msg("Failed to identify bearer token")
			}
			c.Header("WWW-Authenticate", "Bearer")
			response.AbortDetail(c, http.StatusUnauthorized, response.GetMessage(response.ErrTokenInvalid))
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// RequireRoles rejects accounts whose role is not listed.
// Must run after RequireBearer.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil {
			response.AbortDetail(c, http.StatusUnauthorized, response.GetMessage(response.ErrTokenInvalid))
			return
		}

		for _, r := range roles {
			if user.Role == r {
				c.Next()
				return
			}
		}

		response.AbortDetail(c, http.StatusForbidden, response.GetMessage(response.ErrForbidden))
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
