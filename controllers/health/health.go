package healthcontroller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GET /health
func Health(environment string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "OK",
			"timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
			"environment": environment,
		})
	}
}

// NotFound answers unknown routes with the standard error envelope.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Endpoint not found"})
}
