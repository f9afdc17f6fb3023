package types

import "time"

// State represents the generation run state machine
type State string

const (
	StateIdle              State = "idle"
	StateSynthesizing      State = "synthesizing"
	StateFetchingSubtitles State = "fetching_subtitles"
	StateComposing         State = "composing"
	StateFetchingVideo     State = "fetching_video"
	StateDone              State = "done"
	StateError             State = "error"
)

// Active reports whether a run is in flight in this state
func (s State) Active() bool {
	switch s {
	case StateSynthesizing, StateFetchingSubtitles, StateComposing, StateFetchingVideo:
		return true
	}
	return false
}

// LogEntry represents a single log line with timestamp
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// GenerationResult holds the artifacts of a successful run
type GenerationResult struct {
	RunID        string        `json:"run_id"`
	Background   string        `json:"background"`
	AudioFile    string        `json:"audio_file"`
	SubtitleFile string        `json:"subtitle_file"`
	VideoFile    string        `json:"video_file"`
	Video        []byte        `json:"-"`
	SavedPath    string        `json:"saved_path,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// RunRecord is the journal entry written at the end of every run
type RunRecord struct {
	RunID        string             `json:"run_id"`
	StartedAt    time.Time          `json:"started_at"`
	FinishedAt   time.Time          `json:"finished_at"`
	Background   string             `json:"background"`
	TextLength   int                `json:"text_length"`
	AudioFile    string             `json:"audio_file,omitempty"`
	SubtitleFile string             `json:"subtitle_file,omitempty"`
	VideoFile    string             `json:"video_file,omitempty"`
	State        State              `json:"state"`
	FailedStage  string             `json:"failed_stage,omitempty"`
	Error        string             `json:"error,omitempty"`
	Timings      map[string]float64 `json:"timings,omitempty"`
}

// RunEvent is published on every state transition of a run
type RunEvent struct {
	RunID     string    `json:"run_id"`
	State     State     `json:"state"`
	Stage     string    `json:"stage,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ContentStatus is the snapshot of the Content Creator page
type ContentStatus struct {
	State       State             `json:"state"`
	RunID       string            `json:"run_id,omitempty"`
	Loading     bool              `json:"loading"`
	Text        string            `json:"text"`
	Backgrounds []Background      `json:"backgrounds"`
	Selected    string            `json:"selected,omitempty"`
	Result      *GenerationResult `json:"result,omitempty"`
	FailedStage string            `json:"failed_stage,omitempty"`
	Logs        []LogEntry        `json:"logs"`
	Error       string            `json:"error,omitempty"`
}
