// Package api exposes both workflows over HTTP for a browser or script.
package api

import (
	"context"
	"net/http"

	"whisperstudio/types"
	"whisperstudio/workflow"

	"github.com/gin-gonic/gin"
)

// BackgroundStreamer opens a background video stream on the backend
type BackgroundStreamer interface {
	StreamBackground(ctx context.Context, name, rangeHeader string) (*http.Response, error)
}

// BackendChecker reports which backend is in use and whether it answers
type BackendChecker interface {
	BaseURL() string
	ListBackgrounds(ctx context.Context) ([]types.Background, error)
}

// AudioFetcher downloads synthesized narration from the backend
type AudioFetcher interface {
	GetTTS(ctx context.Context, filename string) ([]byte, error)
}

// RunArchive lists runs whose video was archived
type RunArchive interface {
	ListRuns(ctx context.Context) ([]string, error)
}

// RunHistory lists recent generation runs
type RunHistory interface {
	Recent(ctx context.Context, n int) ([]types.RunRecord, error)
}

// FeedFetcher retrieves feed items
type FeedFetcher interface {
	FetchFeed(ctx context.Context, feedURL string, maxCount int) ([]*types.ContentItem, error)
}

// Deps are the services the routes delegate to. Nil Backend, Audio, History,
// Archive and Feeds disable their routes' data, not the routes.
type Deps struct {
	Backgrounds *workflow.BackgroundManager
	Runner      *workflow.Runner
	Streamer    BackgroundStreamer
	Backend     BackendChecker
	Audio       AudioFetcher
	History     RunHistory
	Archive     RunArchive
	Feeds       FeedFetcher
	// FeedPreset is used when a request names no feed
	FeedPreset string
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterHealthRoutes(r, deps.Backend)
	RegisterBackgroundRoutes(r, deps.Backgrounds, deps.Streamer)
	RegisterContentRoutes(r, deps.Runner, deps.Audio)
	RegisterHistoryRoutes(r, deps.History, deps.Archive)
	RegisterSourceRoutes(r, deps.Feeds, deps.FeedPreset)
	return r
}

func abortWithError(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
