package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireCronToken protects scheduled/cron-triggered endpoints with a
// static bearer token (CRON_SECRET). Endpoints stay closed when the
// secret is unset.
func RequireCronToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := strings.TrimSpace(os.Getenv("CRON_SECRET"))
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "cron endpoints disabled"})
			return
		}

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing bearer token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid cron token"})
			return
		}
		c.Next()
	}
}
