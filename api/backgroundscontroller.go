package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"whisperstudio/client"
	"whisperstudio/workflow"

	"github.com/gin-gonic/gin"
)

// DownloadRequest is the body of POST /api/backgrounds/download
type DownloadRequest struct {
	URL string `json:"url"`
}

// SelectRequest is the body of POST /api/backgrounds/select
type SelectRequest struct {
	Name string `json:"name" binding:"required"`
}

type backgroundController struct {
	manager  *workflow.BackgroundManager
	streamer BackgroundStreamer
}

// RegisterBackgroundRoutes registers the Background Manager endpoints.
func RegisterBackgroundRoutes(r *gin.Engine, m *workflow.BackgroundManager, s BackgroundStreamer) {
	ctl := &backgroundController{manager: m, streamer: s}
	g := r.Group("/api/backgrounds")
	g.GET("", ctl.handleStatus)
	g.POST("/refresh", ctl.handleRefresh)
	g.POST("/download", ctl.handleDownload)
	g.POST("/select", ctl.handleSelect)
	g.GET("/preview/:name", ctl.handlePreview)
	g.POST("/preview/loading", ctl.handlePreviewLoading)
	g.POST("/preview/ready", ctl.handlePreviewReady)
}

func (ctl *backgroundController) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.manager.Status())
}

func (ctl *backgroundController) handleRefresh(c *gin.Context) {
	if err := ctl.manager.Refresh(c.Request.Context()); err != nil {
		abortWithError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, ctl.manager.Status())
}

// handleDownload downloads synchronously; the list in the response already
// includes the new background
func (ctl *backgroundController) handleDownload(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		abortWithError(c, http.StatusBadRequest, workflow.ErrBlankURL)
		return
	}

	err := ctl.manager.DownloadURL(c.Request.Context(), req.URL)
	switch {
	case errors.Is(err, workflow.ErrDownloadInProgress):
		abortWithError(c, http.StatusConflict, err)
	case err != nil:
		abortWithError(c, http.StatusBadGateway, err)
	default:
		c.JSON(http.StatusOK, ctl.manager.Status())
	}
}

func (ctl *backgroundController) handleSelect(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	if !ctl.manager.Select(req.Name) {
		abortWithError(c, http.StatusNotFound, fmt.Errorf("unknown background %q", req.Name))
		return
	}
	previewURL, _ := ctl.manager.Preview()
	c.JSON(http.StatusOK, gin.H{"selected": req.Name, "preview_url": previewURL})
}

// handlePreview proxies the backend stream, passing Range through so the
// player can seek
func (ctl *backgroundController) handlePreview(c *gin.Context) {
	name := c.Param("name")
	resp, err := ctl.streamer.StreamBackground(c.Request.Context(), name, c.GetHeader("Range"))
	if err != nil {
		status := http.StatusBadGateway
		if client.IsStatus(err, http.StatusNotFound) {
			status = http.StatusNotFound
		}
		log.Printf("❌ Error streaming background %s: %v", name, err)
		abortWithError(c, status, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusMultipleChoices {
		ctl.manager.PreviewServed(name)
	}

	extra := map[string]string{}
	for _, h := range []string{"Accept-Ranges", "Content-Range", "Cache-Control", "Last-Modified", "ETag"} {
		if v := resp.Header.Get(h); v != "" {
			extra[h] = v
		}
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	c.DataFromReader(resp.StatusCode, resp.ContentLength, contentType, resp.Body, extra)
}

// handlePreviewLoading mirrors the player's load-start signal
func (ctl *backgroundController) handlePreviewLoading(c *gin.Context) {
	ctl.manager.PreviewLoadStarted()
	c.JSON(http.StatusOK, ctl.manager.Status())
}

// handlePreviewReady mirrors the player's can-play signal
func (ctl *backgroundController) handlePreviewReady(c *gin.Context) {
	ctl.manager.PreviewCanPlay()
	c.JSON(http.StatusOK, ctl.manager.Status())
}
