package config

import "time"

// Backend endpoints
const (
	PathAvailableBackgrounds = "/api/py/available-backgrounds"
	PathDownloadVideo        = "/api/py/download-video/"
	PathBackground           = "/api/py/background/"
	PathGenerateTTS          = "/api/py/generate_tts"
	PathGetTTS               = "/api/py/get_tts/"
	PathGetSubtitles         = "/api/py/get_subtitles/"
	PathCreateVideo          = "/api/py/create_video/"
	PathGetVideo             = "/api/py/get_video/"
)

// Defaults
const (
	// DefaultBackendURL is where the media backend listens locally
	DefaultBackendURL = "http://localhost:8000"

	// DefaultHTTPTimeout bounds a single backend call; composition can be slow
	DefaultHTTPTimeout = 10 * time.Minute

	// DefaultPort is the preview API port
	DefaultPort = "8090"

	// DefaultOutputDir receives generated videos
	DefaultOutputDir = "output"

	// MaxLogs is the size of each page's log ring buffer
	MaxLogs = 50

	// MaxErrorBody caps how much of a failed response body is kept in errors
	MaxErrorBody = 512
)

// Subtitle naming convention of the backend
const (
	AudioExtension    = ".mp3"
	SubtitleExtension = ".vtt"
)

// Kafka defaults
const (
	DefaultKafkaTopic   = "studio-run-events"
	DefaultKafkaGroupID = "studio-watch"
)

// Journal defaults
const (
	DefaultJournalKey = "studio:runs"
	DefaultJournalTTL = 7 * 24 * time.Hour
	JournalMaxEntries = 200
)

// Content source defaults
const (
	DefaultFeedPreset = "tifu"
	DefaultFeedCount  = 10
)
