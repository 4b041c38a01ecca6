package middleware

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stemsi/campus-portal/internal/session"
)

const (
	// SessionCookie is the name of the signed cookie holding the session.
	SessionCookie = "campus_session"
	// TokenKey is the one key the portal keeps in the cookie.
	TokenKey = "token"

	// ContextKeySession is the Gin context key for the request's *session.Store.
	ContextKeySession = "session_store"
)

// CookieStorage keeps the bearer token in the gin-contrib session cookie.
type CookieStorage struct {
	s sessions.Session
}

func NewCookieStorage(s sessions.Session) *CookieStorage {
	return &CookieStorage{s: s}
}

func (c *CookieStorage) Load(context.Context) (string, error) {
	token, _ := c.s.Get(TokenKey).(string)
	return token, nil
}

func (c *CookieStorage) Save(_ context.Context, token string) error {
	c.s.Set(TokenKey, token)
	return c.s.Save()
}

func (c *CookieStorage) Clear(context.Context) error {
	c.s.Delete(TokenKey)
	return c.s.Save()
}

// Session attaches a *session.Store backed by the request's cookie. It must
// run after sessions.Sessions. The store starts empty; the guard resolves it.
func Session(gateway session.Gateway, cache session.IdentityCache, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		opts := []session.Option{session.WithLogger(log)}
		if cache != nil {
			opts = append(opts, session.WithIdentityCache(cache))
		}
		store := session.New(gateway, NewCookieStorage(sessions.Default(c)), opts...)
		c.Set(ContextKeySession, store)
		c.Next()
	}
}

// GetSession returns the request's store, or nil outside Session.
func GetSession(c *gin.Context) *session.Store {
	val, exists := c.Get(ContextKeySession)
	if !exists {
		return nil
	}
	store, _ := val.(*session.Store)
	return store
}
