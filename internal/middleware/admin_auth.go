package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminTokenHeader is the header carrying the shared admin token.
const AdminTokenHeader = "X-Admin-Token"

// AdminAuthMiddleware guards the moderation routes with a shared token.
// Full admin authentication lives outside this service; this shim only keeps
// the moderation surface from being anonymously reachable.
func AdminAuthMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminToken == "" {
			GetLoggerFromCtx(c.Request.Context()).Error("Admin token not configured; rejecting request")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Admin access not configured"})
			return
		}

		provided := c.GetHeader(AdminTokenHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(adminToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
