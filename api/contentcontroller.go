package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"whisperstudio/client"
	"whisperstudio/naming"
	"whisperstudio/workflow"

	"github.com/gin-gonic/gin"
)

// GenerateRequest is the body of POST /api/content/generate
type GenerateRequest struct {
	Text       string `json:"text"`
	Background string `json:"background"`
	Voice      string `json:"voice"`
}

type contentController struct {
	runner *workflow.Runner
	audio  AudioFetcher
}

// RegisterContentRoutes registers the Content Creator endpoints.
func RegisterContentRoutes(r *gin.Engine, runner *workflow.Runner, audio AudioFetcher) {
	ctl := &contentController{runner: runner, audio: audio}
	g := r.Group("/api/content")
	g.GET("", ctl.handleStatus)
	g.POST("/refresh", ctl.handleRefresh)
	g.POST("/generate", ctl.handleGenerate)
	g.POST("/cancel", ctl.handleCancel)
	g.GET("/video", ctl.handleVideo)
	g.GET("/audio", ctl.handleAudio)
}

func (ctl *contentController) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, ctl.runner.Status())
}

func (ctl *contentController) handleRefresh(c *gin.Context) {
	if err := ctl.runner.Refresh(c.Request.Context()); err != nil {
		abortWithError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, ctl.runner.Status())
}

// handleGenerate starts a run and returns 202 immediately; poll GET
// /api/content for progress
func (ctl *contentController) handleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	// The run outlives the request
	runID, err := ctl.runner.StartWith(context.WithoutCancel(c.Request.Context()), workflow.RunRequest{
		Text:       req.Text,
		Background: req.Background,
		Voice:      req.Voice,
	})
	switch {
	case errors.Is(err, workflow.ErrRunInProgress):
		abortWithError(c, http.StatusConflict, err)
	case err != nil:
		abortWithError(c, http.StatusBadRequest, err)
	default:
		c.JSON(http.StatusAccepted, gin.H{"run_id": runID, "status": "started"})
	}
}

func (ctl *contentController) handleCancel(c *gin.Context) {
	if err := ctl.runner.Cancel(); err != nil {
		abortWithError(c, http.StatusConflict, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelling"})
}

func (ctl *contentController) handleVideo(c *gin.Context) {
	result := ctl.runner.Page().Result()
	if result == nil || len(result.Video) == 0 {
		abortWithError(c, http.StatusNotFound, errors.New("no video generated yet"))
		return
	}
	filename := naming.BaseFilename(result.VideoFile)
	if filename == "" {
		filename = result.RunID + ".mp4"
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "video/mp4", result.Video)
}

// handleAudio serves the narration of the last finished run
func (ctl *contentController) handleAudio(c *gin.Context) {
	result := ctl.runner.Page().Result()
	if result == nil || result.AudioFile == "" {
		abortWithError(c, http.StatusNotFound, errors.New("no narration generated yet"))
		return
	}
	if ctl.audio == nil {
		abortWithError(c, http.StatusServiceUnavailable, errors.New("audio preview unavailable"))
		return
	}
	data, err := ctl.audio.GetTTS(c.Request.Context(), result.AudioFile)
	if err != nil {
		status := http.StatusBadGateway
		if client.IsStatus(err, http.StatusNotFound) {
			status = http.StatusNotFound
		}
		abortWithError(c, status, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", result.AudioFile))
	c.Data(http.StatusOK, "audio/mpeg", data)
}
