package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ValidateAPIKey guards admin routes with the X-API-KEY header. An empty
// configured key locks the routes entirely.
func ValidateAPIKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-KEY")
		if expected == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or missing API key"})
			return
		}
		c.Next()
	}
}
