package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"whisperstudio/state"
	"whisperstudio/types"
)

// BackgroundManager lists, downloads and previews background videos
type BackgroundManager struct {
	api  BackgroundAPI
	page *state.BackgroundPage
	now  func() time.Time
}

// NewBackgroundManager creates a manager over a fresh page state
func NewBackgroundManager(api BackgroundAPI) *BackgroundManager {
	return &BackgroundManager{
		api:  api,
		page: state.NewBackgroundPage(),
		now:  time.Now,
	}
}

// Page exposes the underlying page state
func (m *BackgroundManager) Page() *state.BackgroundPage {
	return m.page
}

// Refresh refetches the background list. On failure the previous list is
// kept; on success a selection that disappeared is cleared.
func (m *BackgroundManager) Refresh(ctx context.Context) error {
	backgrounds, err := m.api.ListBackgrounds(ctx)
	if err != nil {
		log.Printf("❌ Error fetching backgrounds: %v", err)
		m.page.SetError(err)
		return err
	}

	m.page.SetBackgrounds(backgrounds)
	m.page.AddLog(fmt.Sprintf("Fetched %d backgrounds", len(backgrounds)))
	return nil
}

// SetInput stores the URL to download
func (m *BackgroundManager) SetInput(url string) {
	m.page.SetInput(url)
}

// CanDownload reports whether the download control is enabled
func (m *BackgroundManager) CanDownload() bool {
	return m.page.CanDownload()
}

// Download downloads the background at the current input URL. Blank input
// or a running download make it a no-op that returns a sentinel error
// without touching the network. On success the input is cleared and the
// list refreshed once. Failures are logged only.
func (m *BackgroundManager) Download(ctx context.Context) error {
	url, err := m.page.BeginDownload()
	if err != nil {
		return err
	}
	return m.download(ctx, url)
}

// DownloadURL claims the page for url and downloads it. The input field is
// only overwritten when no other download holds the page.
func (m *BackgroundManager) DownloadURL(ctx context.Context, raw string) error {
	url, err := m.page.BeginDownloadURL(raw)
	if err != nil {
		return err
	}
	return m.download(ctx, url)
}

func (m *BackgroundManager) download(ctx context.Context, url string) error {
	m.page.AddLog(fmt.Sprintf("Downloading %s...", url))
	if _, err := m.api.DownloadBackground(ctx, url); err != nil {
		log.Printf("❌ Error downloading background: %v", err)
		m.page.EndDownload(err)
		return err
	}

	m.page.AddLog("Download complete")
	_ = m.Refresh(ctx)
	m.page.EndDownload(nil)
	return nil
}

// Select selects a background for preview. Every selection stamps a new
// cache-busting timestamp.
func (m *BackgroundManager) Select(name string) bool {
	return m.page.Select(name, m.now())
}

// Preview returns the playback URL of the selected background
func (m *BackgroundManager) Preview() (string, bool) {
	bg, ok := m.page.Selected()
	if !ok {
		return "", false
	}
	return m.api.BackgroundURL(bg.Name, m.page.PreviewStamp()), true
}

// PreviewLoadStarted mirrors the player's load-start signal
func (m *BackgroundManager) PreviewLoadStarted() {
	m.page.SetPreviewLoading(true)
}

// PreviewCanPlay mirrors the player's can-play signal
func (m *BackgroundManager) PreviewCanPlay() {
	m.page.SetPreviewLoading(false)
}

// PreviewServed records that the backend answered a preview request for
// name, which is as far as a proxy can see the player's can-play signal
func (m *BackgroundManager) PreviewServed(name string) {
	m.page.PreviewReady(name)
}

// Status returns a snapshot of the page
func (m *BackgroundManager) Status() types.BackgroundStatus {
	return m.page.Snapshot(m.api.BackgroundURL)
}
