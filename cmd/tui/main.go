package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"whisperstudio/app"
	"whisperstudio/config"
	"whisperstudio/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	settings := config.Load()

	backend := flag.String("backend", settings.BackendURL, "media backend base URL")
	feed := flag.String("feed", settings.Feed, "feed preset, r/<subreddit> or URL for the 'n' key")
	logFile := flag.String("log", "", "write logs to this file instead of discarding them")
	flag.Parse()
	settings.BackendURL, settings.Feed = *backend, *feed

	// Logs would tear the alt screen
	log.SetOutput(io.Discard)
	if *logFile != "" {
		f, err := tea.LogToFile(*logFile, "studio")
		if err != nil {
			fmt.Printf("Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	a := app.New(context.Background(), settings)
	defer a.Close()

	m := tui.NewModel(a.Backgrounds, a.Runner, a.Client, a.Queue)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	// Don't leave a run going against the backend
	_ = a.Runner.Cancel()
}
