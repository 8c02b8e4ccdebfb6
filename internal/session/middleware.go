package session

import (
	"aduan/frontend/internal/backend"
	"aduan/frontend/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

const contextKey = "session"

func set(c *gin.Context, s State) {
	c.Set(contextKey, s)
	if auth, ok := s.(Authenticated); ok {
		c.Request = c.Request.WithContext(backend.WithToken(c.Request.Context(), auth.Token))
	}
}

// FromContext returns the state Middleware stored, or Pending if none ran.
func FromContext(c *gin.Context) State {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(State); ok {
			return s
		}
	}
	return Pending{}
}

// Current returns the authenticated session, if there is one.
func Current(c *gin.Context) (Authenticated, bool) {
	auth, ok := FromContext(c).(Authenticated)
	return auth, ok
}

// Middleware bootstraps the session for every request. Authenticated
// requests get the token attached to their context for backend calls.
func Middleware(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		set(c, m.Bootstrap(c))
		c.Next()
	}
}

// Require guards the routes after it. loading renders the neutral page shown
// while the session is still pending.
func Require(loading gin.HandlerFunc, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch Decide(FromContext(c), roles...) {
		case Render:
			c.Next()
		case Loading:
			loading(c)
			c.Abort()
		case RedirectLogin:
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		case RedirectUnauthorized:
			c.Redirect(http.StatusFound, "/unauthorized")
			c.Abort()
		}
	}
}

// RedirectAuthenticated sends a logged-in user away from the login and
// registration pages to their home page.
func RedirectAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth, ok := Current(c); ok {
			c.Redirect(http.StatusFound, HomePath(auth.User.Role))
			c.Abort()
			return
		}
		c.Next()
	}
}
