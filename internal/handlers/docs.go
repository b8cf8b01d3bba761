package handlers

import (
	"net/http"
	"time"

	"begw/api_contact/pkg/version"

	"github.com/gin-gonic/gin"
)

// APIDocs describes the public endpoints for GET /api.
func APIDocs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "BEGW Contact API",
		"version": version.Version,
		"endpoints": gin.H{
			"POST /api/contact":    "Submit contact form",
			"POST /api/membership": "Submit membership application",
			"GET /health":          "Health check",
			"GET /api":             "API documentation",
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
