package api

import (
	"errors"
	"net/http"
	"strconv"

	"whisperstudio/config"
	"whisperstudio/sources"

	"github.com/gin-gonic/gin"
)

// RegisterSourceRoutes registers the feed item endpoint.
func RegisterSourceRoutes(r *gin.Engine, feeds FeedFetcher, defaultFeed string) {
	if defaultFeed == "" {
		defaultFeed = config.DefaultFeedPreset
	}
	g := r.Group("/api/sources")
	g.GET("/presets", handlePresets)
	g.GET("/items", func(c *gin.Context) {
		handleItems(c, feeds, defaultFeed)
	})
}

func handlePresets(c *gin.Context) {
	c.JSON(http.StatusOK, sources.FeedPresets)
}

// handleItems lists feed items to narrate.
// Query params: feed (preset or URL), count (int), extract (bool)
func handleItems(c *gin.Context, feeds FeedFetcher, defaultFeed string) {
	if feeds == nil {
		abortWithError(c, http.StatusServiceUnavailable, errors.New("content sources are disabled"))
		return
	}

	feedURL := sources.ResolveFeedURL(c.DefaultQuery("feed", defaultFeed))
	count := config.DefaultFeedCount
	if v := c.Query("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			abortWithError(c, http.StatusBadRequest, errors.New("count must be a positive integer"))
			return
		}
		count = n
	}

	items, err := feeds.FetchFeed(c.Request.Context(), feedURL, count)
	if err != nil {
		abortWithError(c, http.StatusBadGateway, err)
		return
	}
	if extract, _ := strconv.ParseBool(c.Query("extract")); extract {
		sources.ExtractAll(c.Request.Context(), items)
	}

	c.JSON(http.StatusOK, gin.H{"feed_url": feedURL, "count": len(items), "items": items})
}
