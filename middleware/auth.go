package middleware

import (
	"restaurant/logger"
	"restaurant/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionKey = "Session"

// AuthMiddleware loads the session behind the cookie. A bad or stale cookie
// leaves the request anonymous instead of failing it.
func AuthMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := manager.Load(c)
		if err != nil {
			logger.FromGin(c).Warn("load session", zap.Error(err))
		}
		if s != nil {
			c.Set(sessionKey, s)
		}
		c.Next()
	}
}

// CurrentSession returns the loaded session, or nil for a visitor without one.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

func CurrentIdentity(c *gin.Context) (session.Identity, bool) {
	return CurrentSession(c).Identity()
}
