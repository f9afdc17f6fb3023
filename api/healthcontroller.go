package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const backendCheckTimeout = 3 * time.Second

// RegisterHealthRoutes registers the health endpoint. With a backend it also
// reports whether the media backend answers a listing.
func RegisterHealthRoutes(r *gin.Engine, backend BackendChecker) {
	r.GET("/api/health", func(c *gin.Context) {
		handleHealth(c, backend)
	})
}

func handleHealth(c *gin.Context, backend BackendChecker) {
	if backend == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), backendCheckTimeout)
	defer cancel()

	body := gin.H{"status": "ok", "backend": backend.BaseURL(), "backend_reachable": true}
	backgrounds, err := backend.ListBackgrounds(ctx)
	if err != nil {
		body["status"] = "degraded"
		body["backend_reachable"] = false
		body["error"] = err.Error()
	} else {
		body["backgrounds"] = len(backgrounds)
	}
	c.JSON(http.StatusOK, body)
}
