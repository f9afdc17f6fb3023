package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"whisperstudio/config"
	"whisperstudio/naming"
	"whisperstudio/types"
)

// GenerateTTS submits text for speech synthesis and returns the bare audio
// filename. An empty voice leaves the backend default in place.
func (c *Client) GenerateTTS(ctx context.Context, text, voice string) (string, error) {
	path := config.PathGenerateTTS
	if voice != "" {
		path += "?voice=" + url.QueryEscape(voice)
	}

	var data types.FilenameResponse
	err := c.doJSON(ctx, request{
		op:          MsgGenerateTTS,
		method:      http.MethodPost,
		path:        path,
		body:        strings.NewReader(text),
		contentType: "text/plain",
	}, &data)
	if err != nil {
		return "", err
	}

	filename := naming.BaseFilename(data.Filename)
	if filename == "" {
		return "", fmt.Errorf("%s: %w", MsgGenerateTTS, ErrEmptyFilename)
	}
	return filename, nil
}

// GetTTS downloads a synthesized audio file
func (c *Client) GetTTS(ctx context.Context, filename string) ([]byte, error) {
	return c.doBytes(ctx, request{
		op:     MsgGetTTS,
		method: http.MethodGet,
		path:   config.PathGetTTS + url.PathEscape(filename),
	})
}

// GetSubtitles asks the backend to transcribe an audio file and returns the
// subtitle document
func (c *Client) GetSubtitles(ctx context.Context, filename string) ([]byte, error) {
	return c.doBytes(ctx, request{
		op:     MsgGetSubtitles,
		method: http.MethodGet,
		path:   config.PathGetSubtitles + "?filename=" + url.QueryEscape(filename),
	})
}

// CreateVideo composes background, audio and subtitles and returns the
// resulting video filename
func (c *Client) CreateVideo(ctx context.Context, backgroundFile, audioFile, subtitlesFile string) (string, error) {
	// Parameter order is kept stable for readable backend logs
	query := "background_file=" + url.QueryEscape(backgroundFile) +
		"&audio_file=" + url.QueryEscape(audioFile) +
		"&subtitles_file=" + url.QueryEscape(subtitlesFile)

	var data types.FilenameResponse
	err := c.doJSON(ctx, request{
		op:     MsgCreateVideo,
		method: http.MethodPost,
		path:   config.PathCreateVideo + "?" + query,
	}, &data)
	if err != nil {
		return "", err
	}
	if data.Filename == "" {
		return "", fmt.Errorf("%s: %w", MsgCreateVideo, ErrEmptyFilename)
	}
	return data.Filename, nil
}

// GetVideo downloads a composed video
func (c *Client) GetVideo(ctx context.Context, filename string) ([]byte, error) {
	return c.doBytes(ctx, request{
		op:     MsgGetVideo,
		method: http.MethodGet,
		path:   config.PathGetVideo + url.PathEscape(filename),
	})
}
