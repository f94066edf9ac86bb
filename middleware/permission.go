package middleware

import (
	"net/http"

	"restaurant/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireAdmin aborts with 403 unless the session belongs to an administrator.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok || !id.IsAdmin {
			logger.FromGin(c).Info("admin access denied", zap.Uint("user_id", id.UserID))
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Access denied",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
