package workflow

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"whisperstudio/naming"
	"whisperstudio/state"
	"whisperstudio/types"

	"github.com/google/uuid"
)

// RunnerConfig holds the Content Creator settings and optional sinks.
// Nil sinks are skipped.
type RunnerConfig struct {
	Voice     string
	OutputDir string

	Publisher EventPublisher
	Journal   RunJournal
	Archive   VideoArchiver
}

// Runner executes the text-to-video pipeline
type Runner struct {
	api  GenerationAPI
	page *state.ContentPage
	cfg  RunnerConfig
	now  func() time.Time
}

// NewRunner creates a new pipeline runner over a fresh page state
func NewRunner(api GenerationAPI, cfg RunnerConfig) *Runner {
	return &Runner{
		api:  api,
		page: state.NewContentPage(),
		cfg:  cfg,
		now:  time.Now,
	}
}

// Page exposes the underlying page state
func (r *Runner) Page() *state.ContentPage {
	return r.page
}

// Refresh refetches the background list, keeping the old one on failure
func (r *Runner) Refresh(ctx context.Context) error {
	backgrounds, err := r.api.ListBackgrounds(ctx)
	if err != nil {
		log.Printf("❌ Error fetching backgrounds: %v", err)
		r.page.AddLog(fmt.Sprintf("Error fetching backgrounds: %v", err))
		return err
	}
	r.page.SetBackgrounds(backgrounds)
	r.page.AddLog(fmt.Sprintf("Fetched %d backgrounds", len(backgrounds)))
	return nil
}

// SetText stores the narration text
func (r *Runner) SetText(text string) {
	r.page.SetText(text)
}

// Select selects the background to compose over
func (r *Runner) Select(name string) bool {
	return r.page.Select(name)
}

// CanGenerate reports whether the generate control is enabled
func (r *Runner) CanGenerate() bool {
	return r.page.CanGenerate()
}

// Cancel aborts the run in flight
func (r *Runner) Cancel() error {
	if !r.page.Cancel() {
		return ErrNoActiveRun
	}
	return nil
}

// Status returns a snapshot of the page
func (r *Runner) Status() types.ContentStatus {
	return r.page.Snapshot()
}

// pipelineRun carries the artifacts threaded between stages
type pipelineRun struct {
	id         string
	startedAt  time.Time
	text       string
	voice      string
	background string

	audioFile    string
	subtitleFile string
	videoFile    string
	video        []byte

	timings map[string]float64
}

// RunRequest names what a run narrates and composes over. Empty Background
// keeps the current selection; empty Voice uses the configured one.
type RunRequest struct {
	Text       string
	Background string
	Voice      string
}

// Run executes the four stages strictly in order:
// synthesize speech, fetch subtitles, compose video, fetch video.
// A failure at any stage aborts the rest and is returned as a *StageError.
// Only one run may be in flight; it can be aborted with Cancel.
func (r *Runner) Run(ctx context.Context) (*types.GenerationResult, error) {
	run, runCtx, err := r.begin(ctx, RunRequest{Text: r.page.Text()})
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, runCtx, run)
}

// StartWith checks the preconditions, claims the page with req and runs the
// pipeline in the background. It returns the run ID; the outcome lands in
// the page state. A refused request leaves text and selection as they were.
func (r *Runner) StartWith(ctx context.Context, req RunRequest) (string, error) {
	run, runCtx, err := r.begin(ctx, req)
	if err != nil {
		return "", err
	}
	go func() {
		_, _ = r.execute(ctx, runCtx, run)
	}()
	return run.id, nil
}

// begin claims the page for req and marks it as running
func (r *Runner) begin(ctx context.Context, req RunRequest) (*pipelineRun, context.Context, error) {
	voice := req.Voice
	if voice == "" {
		voice = r.cfg.Voice
	}
	run := &pipelineRun{
		id:        uuid.New().String(),
		startedAt: r.now(),
		text:      req.Text,
		voice:     voice,
		timings:   make(map[string]float64),
	}

	runCtx, cancel := context.WithCancel(ctx)
	bg, err := r.page.BeginRun(run.id, cancel, req.Text, req.Background)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	run.background = bg.Name
	r.page.AddLog(fmt.Sprintf("Run %s started with background %s", run.id, run.background))
	return run, runCtx, nil
}

// execute walks the stages; ctx is used for side effects so they still
// happen after the run context is canceled
func (r *Runner) execute(ctx, runCtx context.Context, run *pipelineRun) (*types.GenerationResult, error) {
	defer r.page.FinishRun()

	stages := []struct {
		state types.State
		exec  func(context.Context, *pipelineRun) error
	}{
		{types.StateSynthesizing, r.synthesize},
		{types.StateFetchingSubtitles, r.fetchSubtitles},
		{types.StateComposing, r.compose},
		{types.StateFetchingVideo, r.fetchVideo},
	}

	for _, st := range stages {
		r.transition(ctx, run, st.state, "")

		began := r.now()
		err := st.exec(runCtx, run)
		run.timings[string(st.state)] = r.now().Sub(began).Seconds()

		if err == nil && runCtx.Err() != nil {
			err = runCtx.Err()
		}
		if err != nil {
			stageErr := &StageError{Stage: st.state, Err: err}
			r.fail(ctx, run, stageErr)
			return nil, stageErr
		}
	}

	result := &types.GenerationResult{
		RunID:        run.id,
		Background:   run.background,
		AudioFile:    run.audioFile,
		SubtitleFile: run.subtitleFile,
		VideoFile:    run.videoFile,
		Video:        run.video,
		Duration:     r.now().Sub(run.startedAt),
	}
	r.finish(ctx, run, result)
	return result, nil
}

// synthesize submits the text for speech synthesis
func (r *Runner) synthesize(ctx context.Context, run *pipelineRun) error {
	audioFile, err := r.api.GenerateTTS(ctx, run.text, run.voice)
	if err != nil {
		return err
	}
	run.audioFile = naming.BaseFilename(audioFile)
	r.page.AddLog(fmt.Sprintf("TTS generated: %s", run.audioFile))
	return nil
}

// fetchSubtitles derives the subtitle filename and asks the backend to
// transcribe the audio
func (r *Runner) fetchSubtitles(ctx context.Context, run *pipelineRun) error {
	subtitleFile, err := naming.SubtitleFilename(run.audioFile)
	if err != nil {
		return err
	}
	if _, err := r.api.GetSubtitles(ctx, run.audioFile); err != nil {
		return err
	}
	run.subtitleFile = subtitleFile
	r.page.AddLog(fmt.Sprintf("Subtitles generated: %s", run.subtitleFile))
	return nil
}

// compose asks the backend to mux background, audio and subtitles
func (r *Runner) compose(ctx context.Context, run *pipelineRun) error {
	videoFile, err := r.api.CreateVideo(ctx, run.background, run.audioFile, run.subtitleFile)
	if err != nil {
		return err
	}
	run.videoFile = videoFile
	r.page.AddLog(fmt.Sprintf("Video created: %s", run.videoFile))
	return nil
}

// fetchVideo downloads the composed video
func (r *Runner) fetchVideo(ctx context.Context, run *pipelineRun) error {
	video, err := r.api.GetVideo(ctx, run.videoFile)
	if err != nil {
		return err
	}
	run.video = video
	return nil
}

// transition moves the page to a new state and announces it
func (r *Runner) transition(ctx context.Context, run *pipelineRun, s types.State, message string) {
	r.page.SetState(s)
	r.publish(ctx, types.RunEvent{
		RunID:     run.id,
		State:     s,
		Stage:     string(s),
		Message:   message,
		Timestamp: r.now(),
	})
}

// fail records a failed run; the page keeps no partial artifacts
func (r *Runner) fail(ctx context.Context, run *pipelineRun, stageErr *StageError) {
	log.Printf("❌ Error generating video (run %s, %s): %v", run.id, StageLabel(stageErr.Stage), stageErr.Err)
	r.page.SetError(string(stageErr.Stage), stageErr)

	r.publish(ctx, types.RunEvent{
		RunID:     run.id,
		State:     types.StateError,
		Stage:     string(stageErr.Stage),
		Error:     stageErr.Err.Error(),
		Timestamp: r.now(),
	})

	record := r.record(run, types.StateError)
	record.FailedStage = string(stageErr.Stage)
	record.Error = stageErr.Err.Error()
	r.journal(ctx, record)
}

// finish stores the result and runs the side effects of a successful run.
// None of them can fail the run.
func (r *Runner) finish(ctx context.Context, run *pipelineRun, result *types.GenerationResult) {
	if r.cfg.OutputDir != "" {
		path, err := saveVideo(r.cfg.OutputDir, run.id, run.videoFile, run.video)
		if err != nil {
			log.Printf("⚠️  Failed to save video for run %s: %v", run.id, err)
		} else {
			result.SavedPath = path
		}
	}

	if r.cfg.Archive != nil {
		location, err := r.cfg.Archive.ArchiveVideo(ctx, run.id, run.videoFile, run.video)
		if err != nil {
			log.Printf("⚠️  Failed to archive video for run %s: %v", run.id, err)
		} else {
			r.page.AddLog(fmt.Sprintf("Archived to %s", location))
		}
	}

	r.page.SetResult(result)
	log.Printf("✅ Run %s complete: %s (%d bytes)", run.id, run.videoFile, len(run.video))

	r.publish(ctx, types.RunEvent{
		RunID:     run.id,
		State:     types.StateDone,
		Message:   run.videoFile,
		Timestamp: r.now(),
	})
	r.journal(ctx, r.record(run, types.StateDone))
}

func (r *Runner) record(run *pipelineRun, final types.State) types.RunRecord {
	return types.RunRecord{
		RunID:        run.id,
		StartedAt:    run.startedAt,
		FinishedAt:   r.now(),
		Background:   run.background,
		TextLength:   len(run.text),
		AudioFile:    run.audioFile,
		SubtitleFile: run.subtitleFile,
		VideoFile:    run.videoFile,
		State:        final,
		Timings:      run.timings,
	}
}

func (r *Runner) publish(ctx context.Context, event types.RunEvent) {
	if r.cfg.Publisher == nil {
		return
	}
	if err := r.cfg.Publisher.Publish(ctx, event); err != nil {
		log.Printf("⚠️  Failed to publish run event: %v", err)
	}
}

func (r *Runner) journal(ctx context.Context, record types.RunRecord) {
	if r.cfg.Journal == nil {
		return
	}
	if err := r.cfg.Journal.Record(ctx, record); err != nil {
		log.Printf("⚠️  Failed to journal run %s: %v", record.RunID, err)
	}
}

// saveVideo writes the video as <dir>/<run id>_<video file>
func saveVideo(dir, runID, videoFile string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	name := naming.BaseFilename(videoFile)
	if name == "" {
		name = "video.mp4"
	}
	path := filepath.Join(dir, runID+"_"+name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write video: %w", err)
	}
	return path, nil
}
