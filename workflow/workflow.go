// Package workflow drives the two page workflows against the media backend:
// managing background videos and running the text-to-video pipeline.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"whisperstudio/state"
	"whisperstudio/types"
)

// Workflow errors
var (
	ErrBlankURL           = state.ErrBlankURL
	ErrDownloadInProgress = state.ErrDownloadInProgress
	ErrEmptyText          = state.ErrEmptyText
	ErrNoBackground       = state.ErrNoBackground
	ErrUnknownBackground  = state.ErrUnknownBackground
	ErrRunInProgress      = state.ErrRunInProgress
	ErrNoActiveRun        = errors.New("no generation run in progress")
)

// BackgroundAPI is the part of the backend the Background Manager uses
type BackgroundAPI interface {
	ListBackgrounds(ctx context.Context) ([]types.Background, error)
	DownloadBackground(ctx context.Context, url string) (*types.DownloadResponse, error)
	BackgroundURL(name string, t time.Time) string
}

// GenerationAPI is the part of the backend the Content Creator uses
type GenerationAPI interface {
	ListBackgrounds(ctx context.Context) ([]types.Background, error)
	GenerateTTS(ctx context.Context, text, voice string) (string, error)
	GetSubtitles(ctx context.Context, filename string) ([]byte, error)
	CreateVideo(ctx context.Context, backgroundFile, audioFile, subtitlesFile string) (string, error)
	GetVideo(ctx context.Context, filename string) ([]byte, error)
}

// EventPublisher announces run state transitions
type EventPublisher interface {
	Publish(ctx context.Context, event types.RunEvent) error
}

// RunJournal records finished runs
type RunJournal interface {
	Record(ctx context.Context, record types.RunRecord) error
}

// VideoArchiver stores a finished video somewhere durable and returns its location
type VideoArchiver interface {
	ArchiveVideo(ctx context.Context, runID, filename string, data []byte) (string, error)
}

// StageError tags a pipeline failure with the stage that produced it
type StageError struct {
	Stage types.State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", StageLabel(e.Stage), e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StageOf returns the failed stage of err, if it is a StageError
func StageOf(err error) (types.State, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// StageLabel is the human readable name of a pipeline stage
func StageLabel(s types.State) string {
	switch s {
	case types.StateSynthesizing:
		return "speech synthesis"
	case types.StateFetchingSubtitles:
		return "subtitle generation"
	case types.StateComposing:
		return "video composition"
	case types.StateFetchingVideo:
		return "video download"
	default:
		return string(s)
	}
}
