package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// InternalAuthMiddleware guards service-to-service routes with the
// X-Internal-API-Key header. Comparison is constant time.
func InternalAuthMiddleware() gin.HandlerFunc {
	apiKey := []byte(os.Getenv("INTERNAL_API_KEY"))
	if len(apiKey) == 0 {
		// Refusing every request beats silently running unauthenticated.
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "server misconfigured: INTERNAL_API_KEY not set",
			})
		}
	}

	return func(c *gin.Context) {
		key := []byte(c.GetHeader("X-Internal-API-Key"))
		if subtle.ConstantTimeCompare(key, apiKey) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
			})
			return
		}
		c.Next()
	}
}
