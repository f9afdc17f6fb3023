// Package app wires the backend client, both workflows and the optional
// sinks from Settings. Every binary builds on it.
package app

import (
	"context"
	"log"
	"time"

	"whisperstudio/client"
	"whisperstudio/config"
	"whisperstudio/events"
	"whisperstudio/journal"
	"whisperstudio/sources"
	"whisperstudio/storage"
	"whisperstudio/workflow"
)

// App holds the wired services
type App struct {
	Settings    config.Settings
	Client      *client.Client
	Backgrounds *workflow.BackgroundManager
	Runner      *workflow.Runner
	Publisher   events.Publisher
	Journal     journal.Journal
	Archive     *storage.VideoArchive
	Feeds       *sources.Fetcher
	Queue       *sources.Queue
}

// New builds the app. Kafka, Redis and S3 are optional: when one is not
// configured or unreachable the app logs it and carries on without it.
func New(ctx context.Context, s config.Settings) *App {
	c := client.NewClient(s.BackendURL, s.HTTPTimeout)
	log.Printf("Backend: %s (timeout %s)", c.BaseURL(), s.HTTPTimeout)

	a := &App{
		Settings:    s,
		Client:      c,
		Backgrounds: workflow.NewBackgroundManager(c),
		Publisher: events.NewPublisher(events.ProducerConfig{
			Brokers: s.KafkaBrokers,
			Topic:   s.KafkaTopic,
		}),
		Journal: journal.New(journal.RedisConfig{
			Addr:     s.RedisAddr,
			Password: s.RedisPass,
			DB:       s.RedisDB,
			Key:      s.JournalKey,
			TTL:      s.JournalTTL,
		}),
		Archive: newArchive(ctx, s),
		Feeds:   sources.NewFetcher(nil),
	}
	a.Queue = sources.NewQueue(a.Feeds, s.Feed, config.DefaultFeedCount, true)

	cfg := workflow.RunnerConfig{
		Voice:     s.Voice,
		OutputDir: s.OutputDir,
		Publisher: a.Publisher,
		Journal:   a.Journal,
	}
	// A nil *VideoArchive must not become a non-nil interface
	if a.Archive != nil {
		cfg.Archive = a.Archive
	}
	a.Runner = workflow.NewRunner(c, cfg)
	return a
}

// Refresh loads the background list into both pages
func (a *App) Refresh(ctx context.Context) {
	if err := a.Backgrounds.Refresh(ctx); err != nil {
		log.Printf("Warning: initial background fetch failed: %v", err)
	}
	if err := a.Runner.Refresh(ctx); err != nil {
		log.Printf("Warning: initial background fetch failed: %v", err)
	}
}

// Close releases the sinks
func (a *App) Close() {
	if err := a.Publisher.Close(); err != nil {
		log.Printf("Warning: closing publisher: %v", err)
	}
	if err := a.Journal.Close(); err != nil {
		log.Printf("Warning: closing journal: %v", err)
	}
}

// newArchive returns the S3 archive if S3_BUCKET is set
func newArchive(ctx context.Context, s config.Settings) *storage.VideoArchive {
	if s.S3Bucket == "" {
		log.Printf("S3 not configured; skipping video archive")
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	store, err := storage.NewS3(ctx, storage.S3Config{
		Region:       s.S3Region,
		Profile:      s.S3Profile,
		Endpoint:     s.S3Endpoint,
		UsePathStyle: s.S3UsePathStyle,
	})
	if err != nil {
		log.Printf("Warning: failed to init S3 client: %v (archive disabled)", err)
		return nil
	}
	log.Printf("✅ Archiving videos to s3://%s/%s", s.S3Bucket, s.S3Prefix)
	return storage.NewVideoArchive(store, s.S3Bucket, s.S3Prefix)
}
