package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whisperstudio/api"
	"whisperstudio/app"
	"whisperstudio/config"
)

func main() {
	settings := config.Load()

	port := flag.String("port", settings.Port, "port for the preview API")
	backend := flag.String("backend", settings.BackendURL, "media backend base URL")
	flag.Parse()
	settings.Port, settings.BackendURL = *port, *backend

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.New(ctx, settings)
	defer a.Close()
	a.Refresh(ctx)

	deps := api.Deps{
		Backgrounds: a.Backgrounds,
		Runner:      a.Runner,
		Streamer:    a.Client,
		Backend:     a.Client,
		Audio:       a.Client,
		History:     a.Journal,
		Feeds:       a.Feeds,
		FeedPreset:  settings.Feed,
	}
	if a.Archive != nil {
		deps.Archive = a.Archive
	}
	r := api.NewRouter(deps)

	addr := ":" + settings.Port
	server := &http.Server{Addr: addr, Handler: r}

	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  GET  /api/backgrounds")
	log.Println("  POST /api/backgrounds/refresh")
	log.Println("  POST /api/backgrounds/download")
	log.Println("  POST /api/backgrounds/select")
	log.Println("  GET  /api/backgrounds/preview/:name")
	log.Println("  POST /api/backgrounds/preview/loading")
	log.Println("  POST /api/backgrounds/preview/ready")
	log.Println("  GET  /api/content")
	log.Println("  POST /api/content/refresh")
	log.Println("  POST /api/content/generate")
	log.Println("  POST /api/content/cancel")
	log.Println("  GET  /api/content/video")
	log.Println("  GET  /api/content/audio")
	log.Println("  GET  /api/history")
	log.Println("  GET  /api/history/archived")
	log.Println("  GET  /api/sources/presets")
	log.Println("  GET  /api/sources/items")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Runner.Cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
	log.Println("👋 Server stopped")
}
