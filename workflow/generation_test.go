package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"whisperstudio/naming"
	"whisperstudio/types"
)

func newScenarioBackend() *fakeBackend {
	return &fakeBackend{
		backgrounds: []types.Background{
			{Name: "beach.mp4", Path: "/bg/beach.mp4"},
			{Name: "city.mp4", Path: "/bg/city.mp4"},
		},
		ttsFilename: "audio123.mp3",
		videoFile:   "final.mp4",
		video:       []byte("mp4-bytes"),
	}
}

func newScenarioRunner(t *testing.T, backend *fakeBackend, cfg RunnerConfig) *Runner {
	t.Helper()
	r := NewRunner(backend, cfg)
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	return r
}

func TestRunEndToEnd(t *testing.T) {
	backend := newScenarioBackend()
	sinks := &fakeSinks{}
	dir := t.TempDir()
	r := newScenarioRunner(t, backend, RunnerConfig{
		OutputDir: dir,
		Publisher: sinks,
		Journal:   sinks,
		Archive:   sinks,
	})
	r.SetText("Hello world")
	r.Select("beach.mp4")

	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if got := strings.Join(backend.Calls(), ","); got != "list,tts,subtitles,compose,video" {
		t.Fatalf("calls = %s", got)
	}
	if backend.ttsText != "Hello world" {
		t.Fatalf("TTS body = %q", backend.ttsText)
	}
	if backend.subsFilename != "audio123.mp3" {
		t.Fatalf("subtitles requested for %q", backend.subsFilename)
	}
	if backend.composeArgs != [3]string{"beach.mp4", "audio123.mp3", "audio123.vtt"} {
		t.Fatalf("compose args = %v", backend.composeArgs)
	}

	if string(result.Video) != "mp4-bytes" || result.VideoFile != "final.mp4" {
		t.Fatalf("result = %+v", result)
	}
	saved, err := os.ReadFile(result.SavedPath)
	if err != nil || string(saved) != "mp4-bytes" {
		t.Fatalf("saved video = %q, %v", saved, err)
	}
	if filepath.Dir(result.SavedPath) != dir {
		t.Fatalf("SavedPath = %q; want under %q", result.SavedPath, dir)
	}

	s := r.Status()
	if s.State != types.StateDone || s.Loading || s.Result == nil {
		t.Fatalf("status = %+v", s)
	}
	if got := sinks.states(); got != "synthesizing,fetching_subtitles,composing,fetching_video,done" {
		t.Fatalf("events = %s", got)
	}
	if len(sinks.records) != 1 || sinks.records[0].State != types.StateDone {
		t.Fatalf("records = %+v", sinks.records)
	}
	if len(sinks.archived) != 1 {
		t.Fatalf("archived = %v", sinks.archived)
	}
}

func TestRunFailureAbortsLaterStages(t *testing.T) {
	cases := []struct {
		name      string
		breakIt   func(*fakeBackend)
		wantStage types.State
		wantCalls string
	}{
		{"tts", func(b *fakeBackend) { b.ttsErr = errors.New("Failed to generate TTS") },
			types.StateSynthesizing, "list,tts"},
		{"subtitles", func(b *fakeBackend) { b.subsErr = errors.New("Failed to generate VTT") },
			types.StateFetchingSubtitles, "list,tts,subtitles"},
		{"compose", func(b *fakeBackend) { b.composeErr = errors.New("Failed to create video") },
			types.StateComposing, "list,tts,subtitles,compose"},
		{"video", func(b *fakeBackend) { b.videoErr = errors.New("Failed to fetch video") },
			types.StateFetchingVideo, "list,tts,subtitles,compose,video"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			backend := newScenarioBackend()
			c.breakIt(backend)
			sinks := &fakeSinks{}
			r := newScenarioRunner(t, backend, RunnerConfig{Publisher: sinks, Journal: sinks, Archive: sinks})
			r.SetText("Hello world")

			result, err := r.Run(context.Background())
			if result != nil {
				t.Fatalf("result = %+v; want nil", result)
			}
			stage, ok := StageOf(err)
			if !ok || stage != c.wantStage {
				t.Fatalf("error = %v; want StageError at %s", err, c.wantStage)
			}
			if got := strings.Join(backend.Calls(), ","); got != c.wantCalls {
				t.Fatalf("calls = %s; want %s", got, c.wantCalls)
			}

			s := r.Status()
			if s.Result != nil || s.Loading || s.State != types.StateError || s.FailedStage != string(c.wantStage) {
				t.Fatalf("status = %+v", s)
			}
			if len(sinks.archived) != 0 {
				t.Fatal("failed run archived a video")
			}
			if len(sinks.records) != 1 || sinks.records[0].FailedStage != string(c.wantStage) {
				t.Fatalf("records = %+v", sinks.records)
			}
		})
	}
}

func TestRunUnexpectedAudioExtension(t *testing.T) {
	backend := newScenarioBackend()
	backend.ttsFilename = "/media/speech.wav"
	r := newScenarioRunner(t, backend, RunnerConfig{})
	r.SetText("Hello world")

	_, err := r.Run(context.Background())
	if !errors.Is(err, naming.ErrUnexpectedAudioExtension) {
		t.Fatalf("error = %v; want ErrUnexpectedAudioExtension", err)
	}
	if stage, _ := StageOf(err); stage != types.StateFetchingSubtitles {
		t.Fatalf("stage = %s; want fetching_subtitles", stage)
	}
	if backend.count("compose") != 0 {
		t.Fatal("compose called after a naming mismatch")
	}
}

func TestRunPreconditions(t *testing.T) {
	backend := newScenarioBackend()
	r := NewRunner(backend, RunnerConfig{})

	r.SetText("   ")
	if _, err := r.Run(context.Background()); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("error = %v; want ErrEmptyText", err)
	}

	r.SetText("Hello world")
	if _, err := r.Run(context.Background()); !errors.Is(err, ErrNoBackground) {
		t.Fatalf("error = %v; want ErrNoBackground", err)
	}
	if calls := backend.Calls(); len(calls) != 0 {
		t.Fatalf("calls = %v; want none", calls)
	}
}

func TestStartWithUnknownBackgroundKeepsPage(t *testing.T) {
	backend := newScenarioBackend()
	r := newScenarioRunner(t, backend, RunnerConfig{})
	r.SetText("Original text")
	r.Select("city.mp4")

	_, err := r.StartWith(context.Background(), RunRequest{Text: "New text", Background: "gone.mp4"})
	if !errors.Is(err, ErrUnknownBackground) {
		t.Fatalf("StartWith error = %v; want ErrUnknownBackground", err)
	}
	if bg, ok := r.Page().Selected(); !ok || bg.Name != "city.mp4" {
		t.Fatalf("selection = %+v, %v; want city.mp4 kept", bg, ok)
	}
	if r.Page().Text() != "Original text" {
		t.Fatalf("text = %q; want it unchanged", r.Page().Text())
	}
	if r.Page().Loading() || backend.count("tts") != 0 {
		t.Fatal("refused request started a run")
	}
}

func TestRunRejectsConcurrentRunAndCancels(t *testing.T) {
	backend := newScenarioBackend()
	backend.block = make(chan struct{})
	r := newScenarioRunner(t, backend, RunnerConfig{})
	r.SetText("Hello world")

	done := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background())
		done <- err
	}()

	deadline := time.Now().Add(2 * time.Second)
	for r.Status().State != types.StateSynthesizing {
		if time.Now().After(deadline) {
			t.Fatal("first run never reached synthesizing")
		}
		time.Sleep(time.Millisecond)
	}

	if r.CanGenerate() {
		t.Fatal("CanGenerate = true while loading")
	}
	if _, err := r.Run(context.Background()); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("second Run error = %v; want ErrRunInProgress", err)
	}

	if err := r.Cancel(); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("first Run error = %v; want context.Canceled", err)
		}
		if stage, _ := StageOf(err); stage != types.StateSynthesizing {
			t.Fatalf("stage = %s; want synthesizing", stage)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled run did not return")
	}

	if backend.count("subtitles") != 0 {
		t.Fatal("subtitles fetched after cancellation")
	}
	if err := r.Cancel(); !errors.Is(err, ErrNoActiveRun) {
		t.Fatalf("Cancel after run = %v; want ErrNoActiveRun", err)
	}
}

func TestRunPublisherFailureDoesNotFailRun(t *testing.T) {
	backend := newScenarioBackend()
	r := newScenarioRunner(t, backend, RunnerConfig{Publisher: &fakeSinks{failPub: true}})
	r.SetText("Hello world")

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run error = %v; want success despite publisher failure", err)
	}
}

func TestRunClearsPreviousVideoOnNewRun(t *testing.T) {
	backend := newScenarioBackend()
	r := newScenarioRunner(t, backend, RunnerConfig{})
	r.SetText("Hello world")
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("first Run error: %v", err)
	}

	backend.composeErr = errors.New("Failed to create video")
	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("second Run error = nil")
	}
	if r.Status().Result != nil {
		t.Fatal("stale video shown after a failed run")
	}
}

func TestStageErrorMessageNamesStage(t *testing.T) {
	err := &StageError{Stage: types.StateFetchingSubtitles, Err: errors.New("Failed to generate VTT")}
	if !strings.HasPrefix(err.Error(), "subtitle generation:") {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestStartRunsInBackgroundWithVoice(t *testing.T) {
	backend := newScenarioBackend()
	backend.block = make(chan struct{})
	r := newScenarioRunner(t, backend, RunnerConfig{Voice: "default-voice"})

	runID, err := r.StartWith(context.Background(), RunRequest{Text: "Hello world", Voice: "en_us_002"})
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if runID == "" || r.Status().RunID != runID {
		t.Fatalf("run id = %q; status = %q", runID, r.Status().RunID)
	}
	if _, err := r.StartWith(context.Background(), RunRequest{Text: "Other text"}); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("second Start error = %v; want ErrRunInProgress", err)
	}

	close(backend.block)
	deadline := time.Now().Add(2 * time.Second)
	for r.Page().Loading() {
		if time.Now().After(deadline) {
			t.Fatal("background run never finished")
		}
		time.Sleep(time.Millisecond)
	}

	status := r.Status()
	if status.State != types.StateDone || status.Result == nil {
		t.Fatalf("status = %+v", status)
	}
	if backend.ttsVoice != "en_us_002" {
		t.Fatalf("voice = %q; want en_us_002", backend.ttsVoice)
	}
	if r.Page().Text() != "Hello world" {
		t.Fatalf("text = %q; a refused run overwrote it", r.Page().Text())
	}
}
