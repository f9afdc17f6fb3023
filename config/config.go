package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds everything the binaries read from the environment
type Settings struct {
	BackendURL  string
	HTTPTimeout time.Duration
	Port        string
	OutputDir   string
	Voice       string
	Feed        string

	KafkaBrokers []string
	KafkaTopic   string

	RedisAddr  string
	RedisPass  string
	RedisDB    int
	JournalKey string
	JournalTTL time.Duration

	S3Bucket       string
	S3Region       string
	S3Profile      string
	S3Prefix       string
	S3Endpoint     string
	S3UsePathStyle bool
}

// Load reads .env (if present) and the process environment
func Load() Settings {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds Settings from the current environment only
func FromEnv() Settings {
	s := Settings{
		BackendURL:  strings.TrimRight(GetEnvOrDefault("STUDIO_BACKEND_URL", DefaultBackendURL), "/"),
		HTTPTimeout: durationEnv("STUDIO_HTTP_TIMEOUT", DefaultHTTPTimeout),
		Port:        GetEnvOrDefault("PORT", DefaultPort),
		OutputDir:   GetEnvOrDefault("STUDIO_OUTPUT_DIR", DefaultOutputDir),
		Voice:       strings.TrimSpace(os.Getenv("STUDIO_VOICE")),
		Feed:        GetEnvOrDefault("FEED", DefaultFeedPreset),

		KafkaTopic: GetEnvOrDefault("KAFKA_TOPIC", DefaultKafkaTopic),

		RedisAddr:  strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPass:  os.Getenv("REDIS_PASS"),
		JournalKey: GetEnvOrDefault("JOURNAL_KEY", DefaultJournalKey),
		JournalTTL: DefaultJournalTTL,

		S3Bucket:       strings.TrimSpace(os.Getenv("S3_BUCKET")),
		S3Region:       strings.TrimSpace(os.Getenv("S3_REGION")),
		S3Profile:      strings.TrimSpace(os.Getenv("S3_PROFILE")),
		S3Endpoint:     strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		S3UsePathStyle: strings.EqualFold(strings.TrimSpace(os.Getenv("S3_USE_PATH_STYLE")), "true"),
	}

	if brokers := strings.TrimSpace(os.Getenv("KAFKA_BOOTSTRAP_SERVERS")); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				s.KafkaBrokers = append(s.KafkaBrokers, b)
			}
		}
	}

	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil && db >= 0 {
			s.RedisDB = db
		}
	}
	if t := os.Getenv("JOURNAL_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			s.JournalTTL = time.Duration(secs) * time.Second
		}
	}

	if prefix := strings.TrimSpace(os.Getenv("S3_PREFIX")); prefix != "" {
		s.S3Prefix = strings.Trim(prefix, "/") + "/"
	}

	return s
}

// GetEnvOrDefault returns the value of an environment variable or a default value
func GetEnvOrDefault(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

// durationEnv accepts Go durations ("90s") or plain seconds ("90")
func durationEnv(key string, defaultVal time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}
