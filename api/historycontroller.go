package api

import (
	"net/http"
	"strconv"

	"whisperstudio/types"

	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 20

// RegisterHistoryRoutes registers the run history endpoints.
func RegisterHistoryRoutes(r *gin.Engine, history RunHistory, archive RunArchive) {
	r.GET("/api/history", func(c *gin.Context) {
		handleHistory(c, history)
	})
	r.GET("/api/history/archived", func(c *gin.Context) {
		handleArchived(c, archive)
	})
}

// handleHistory returns recent runs, newest first.
// Query params: limit (int, optional)
func handleHistory(c *gin.Context, history RunHistory) {
	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	if history == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []types.RunRecord{}, "count": 0})
		return
	}
	runs, err := history.Recent(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// handleArchived lists the run IDs with a video in the archive
func handleArchived(c *gin.Context, archive RunArchive) {
	if archive == nil {
		c.JSON(http.StatusOK, gin.H{"runs": []string{}, "count": 0, "archive": "disabled"})
		return
	}
	runs, err := archive.ListRuns(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}
