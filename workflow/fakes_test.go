package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"whisperstudio/types"
)

// fakeBackend records every call in order and answers from canned values
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	backgrounds []types.Background
	listErr     error
	downloadErr error

	ttsFilename string
	ttsErr      error
	subsErr     error
	videoFile   string
	composeErr  error
	video       []byte
	videoErr    error

	// block, when set, holds GenerateTTS until it is closed or ctx ends
	block chan struct{}

	ttsText      string
	ttsVoice     string
	subsFilename string
	composeArgs  [3]string
	downloadURL  string
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

func (f *fakeBackend) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) ListBackgrounds(ctx context.Context) ([]types.Background, error) {
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]types.Background{}, f.backgrounds...), nil
}

func (f *fakeBackend) DownloadBackground(ctx context.Context, url string) (*types.DownloadResponse, error) {
	f.record("download")
	f.downloadURL = url
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return &types.DownloadResponse{Message: "Video downloaded successfully"}, nil
}

func (f *fakeBackend) BackgroundURL(name string, t time.Time) string {
	return fmt.Sprintf("http://backend/api/py/background/%s?t=%d", name, t.UnixMilli())
}

func (f *fakeBackend) GenerateTTS(ctx context.Context, text, voice string) (string, error) {
	f.record("tts")
	f.ttsText, f.ttsVoice = text, voice
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.ttsErr != nil {
		return "", f.ttsErr
	}
	return f.ttsFilename, nil
}

func (f *fakeBackend) GetSubtitles(ctx context.Context, filename string) ([]byte, error) {
	f.record("subtitles")
	f.subsFilename = filename
	if f.subsErr != nil {
		return nil, f.subsErr
	}
	return []byte("WEBVTT\n"), nil
}

func (f *fakeBackend) CreateVideo(ctx context.Context, backgroundFile, audioFile, subtitlesFile string) (string, error) {
	f.record("compose")
	f.composeArgs = [3]string{backgroundFile, audioFile, subtitlesFile}
	if f.composeErr != nil {
		return "", f.composeErr
	}
	return f.videoFile, nil
}

func (f *fakeBackend) GetVideo(ctx context.Context, filename string) ([]byte, error) {
	f.record("video")
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	return f.video, nil
}

// fakeSinks collects events, records and archived videos
type fakeSinks struct {
	mu       sync.Mutex
	events   []types.RunEvent
	records  []types.RunRecord
	archived []string
	failPub  bool
}

func (s *fakeSinks) Publish(ctx context.Context, event types.RunEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPub {
		return errors.New("broker down")
	}
	s.events = append(s.events, event)
	return nil
}

func (s *fakeSinks) Record(ctx context.Context, record types.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *fakeSinks) ArchiveVideo(ctx context.Context, runID, filename string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := "videos/" + runID + "/" + filename
	s.archived = append(s.archived, key)
	return "s3://bucket/" + key, nil
}

func (s *fakeSinks) states() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	parts := make([]string, len(s.events))
	for i, e := range s.events {
		parts[i] = string(e.State)
	}
	return strings.Join(parts, ",")
}
