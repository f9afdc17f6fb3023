package tui

import (
	"context"
	"errors"
	"time"

	"whisperstudio/sources"
	"whisperstudio/workflow"

	tea "github.com/charmbracelet/bubbletea"
)

// refreshBackgrounds refetches the Background Manager list
func refreshBackgrounds(m *workflow.BackgroundManager) tea.Cmd {
	return func() tea.Msg {
		return backgroundsLoadedMsg{Err: m.Refresh(context.Background())}
	}
}

// refreshContent refetches the Content Creator list
func refreshContent(r *workflow.Runner) tea.Cmd {
	return func() tea.Msg {
		return contentBackgroundsLoadedMsg{Err: r.Refresh(context.Background())}
	}
}

// downloadBackground downloads the URL currently in the page input
func downloadBackground(m *workflow.BackgroundManager) tea.Cmd {
	return func() tea.Msg {
		return downloadDoneMsg{Err: m.Download(context.Background())}
	}
}

// probePreview asks for the first byte of the background so the preview can
// be marked ready, the way a player's can-play signal would
func probePreview(s Streamer, name string) tea.Cmd {
	return func() tea.Msg {
		if s == nil {
			return previewReadyMsg{Name: name}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		resp, err := s.StreamBackground(ctx, name, "bytes=0-0")
		if err != nil {
			return previewReadyMsg{Name: name, Err: err}
		}
		resp.Body.Close()
		return previewReadyMsg{Name: name}
	}
}

// generateVideo runs the pipeline to completion
func generateVideo(r *workflow.Runner) tea.Cmd {
	return func() tea.Msg {
		result, err := r.Run(context.Background())
		return runDoneMsg{Result: result, Err: err}
	}
}

// nextSourceItem pulls the next unseen feed item
func nextSourceItem(q *sources.Queue) tea.Cmd {
	return func() tea.Msg {
		if q == nil {
			return sourceItemMsg{Err: errors.New("no content feed configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		item, err := q.Next(ctx)
		return sourceItemMsg{Item: item, Err: err}
	}
}

// tickCmd creates a command that ticks every 250ms for redraws
func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg{Time: t}
	})
}
