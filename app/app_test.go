package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"whisperstudio/config"
	"whisperstudio/events"
	"whisperstudio/journal"
	"whisperstudio/types"
)

// newBackend serves the media backend endpoints used by a full run
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(config.PathAvailableBackgrounds, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.BackgroundListResponse{
			Backgrounds: []string{"beach.mp4"},
			Paths:       []string{"/bg/beach.mp4"},
		})
	})
	mux.HandleFunc(config.PathGenerateTTS, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.FilenameResponse{Filename: "audio123.mp3"})
	})
	mux.HandleFunc(config.PathGetSubtitles, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("WEBVTT\n"))
	})
	mux.HandleFunc(config.PathCreateVideo, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(types.FilenameResponse{Filename: "final.mp4"})
	})
	mux.HandleFunc(config.PathGetVideo, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp4-bytes"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewWithoutSinks(t *testing.T) {
	srv := newBackend(t)
	a := New(context.Background(), config.Settings{BackendURL: srv.URL, OutputDir: t.TempDir()})
	defer a.Close()

	if _, ok := a.Publisher.(events.NopPublisher); !ok {
		t.Fatalf("Publisher = %T; want NopPublisher", a.Publisher)
	}
	if _, ok := a.Journal.(*journal.MemoryJournal); !ok {
		t.Fatalf("Journal = %T; want *MemoryJournal", a.Journal)
	}
	if a.Archive != nil {
		t.Fatal("Archive set without S3_BUCKET")
	}
}

func TestFullRunAgainstBackend(t *testing.T) {
	srv := newBackend(t)
	dir := t.TempDir()
	a := New(context.Background(), config.Settings{BackendURL: srv.URL, OutputDir: dir})
	defer a.Close()
	a.Refresh(context.Background())

	if got := a.Backgrounds.Status().Backgrounds; len(got) != 1 || got[0].Name != "beach.mp4" {
		t.Fatalf("backgrounds = %+v", got)
	}

	a.Runner.SetText("Hello world")
	result, err := a.Runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.SubtitleFile != "audio123.vtt" || string(result.Video) != "mp4-bytes" {
		t.Fatalf("result = %+v", result)
	}

	saved, err := os.ReadFile(result.SavedPath)
	if err != nil || string(saved) != "mp4-bytes" {
		t.Fatalf("saved video = %q, %v", saved, err)
	}

	runs, err := a.Journal.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != result.RunID || runs[0].State != types.StateDone {
		t.Fatalf("journal = %+v", runs)
	}
}
