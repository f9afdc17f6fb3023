package client

import (
	"errors"
	"fmt"
)

// Operation messages, one per backend call
const (
	MsgListBackgrounds    = "Failed to fetch backgrounds"
	MsgDownloadBackground = "Failed to download background"
	MsgStreamBackground   = "Failed to stream background"
	MsgGenerateTTS        = "Failed to generate TTS"
	MsgGetTTS             = "Failed to fetch TTS audio"
	MsgGetSubtitles       = "Failed to generate VTT"
	MsgCreateVideo        = "Failed to create video"
	MsgGetVideo           = "Failed to fetch video"
)

// ErrEmptyFilename is returned when the backend answers 2xx without a filename
var ErrEmptyFilename = errors.New("backend returned an empty filename")

// StatusError is returned for any non-2xx response
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: backend returned %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.StatusCode, e.Body)
}

// IsStatus reports whether err is a StatusError with the given code
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
