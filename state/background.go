package state

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"whisperstudio/types"
)

// Download claim failures
var (
	ErrBlankURL           = errors.New("background URL is empty")
	ErrDownloadInProgress = errors.New("a download is already running")
)

// BackgroundPage holds the Background Manager state with thread-safe access
type BackgroundPage struct {
	mu sync.RWMutex

	backgrounds []types.Background
	selected    string
	input       string
	downloading bool

	// Preview bookkeeping: stamp is the cache-busting time of the last
	// selection, loading mirrors the player's load-start/can-play signals
	previewStamp   time.Time
	previewLoading bool

	logs    logRing
	lastErr error
}

// NewBackgroundPage creates an empty Background Manager state
func NewBackgroundPage() *BackgroundPage {
	return &BackgroundPage{logs: newLogRing()}
}

// SetBackgrounds replaces the list wholesale and drops a selection that is
// no longer listed. It reports whether the selection was cleared.
func (p *BackgroundPage) SetBackgrounds(list []types.Background) (cleared bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.backgrounds = append([]types.Background{}, list...)
	kept := reconcileSelection(p.backgrounds, p.selected)
	if kept != p.selected {
		p.logs.add(fmt.Sprintf("Selected background %q is gone, selection cleared", p.selected))
		p.selected = ""
		p.previewStamp = time.Time{}
		p.previewLoading = false
		return true
	}
	return false
}

// Backgrounds returns a copy of the current list
func (p *BackgroundPage) Backgrounds() []types.Background {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]types.Background{}, p.backgrounds...)
}

// Select selects a listed background and stamps a fresh preview time.
// Unknown names clear the selection.
func (p *BackgroundPage) Select(name string, now time.Time) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := findBackground(p.backgrounds, name); !ok {
		p.selected = ""
		p.previewStamp = time.Time{}
		p.previewLoading = false
		return false
	}
	p.selected = name
	p.previewStamp = now
	p.previewLoading = true
	return true
}

// Selected returns the selected background, if any
func (p *BackgroundPage) Selected() (types.Background, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.selected == "" {
		return types.Background{}, false
	}
	return findBackground(p.backgrounds, p.selected)
}

// PreviewStamp returns the cache-busting time of the current selection
func (p *BackgroundPage) PreviewStamp() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.previewStamp
}

// SetPreviewLoading records the player's loading signal
func (p *BackgroundPage) SetPreviewLoading(loading bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == "" {
		p.previewLoading = false
		return
	}
	p.previewLoading = loading
}

// PreviewReady clears the loading flag if name is still the selection.
// A stale answer for an earlier selection is ignored.
func (p *BackgroundPage) PreviewReady(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == "" || p.selected != name {
		return false
	}
	p.previewLoading = false
	return true
}

// SetInput stores the URL typed by the user
func (p *BackgroundPage) SetInput(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.input = url
}

// Input returns the URL typed by the user
func (p *BackgroundPage) Input() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.input
}

// BeginDownload flips downloading on if the stored input is usable and no
// download is running. It returns the trimmed URL to download.
func (p *BackgroundPage) BeginDownload() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.claimDownload(p.input)
}

// BeginDownloadURL is BeginDownload for a URL that did not come from the
// input field. The input is replaced only when the claim succeeds.
func (p *BackgroundPage) BeginDownloadURL(raw string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	url, err := p.claimDownload(raw)
	if err != nil {
		return "", err
	}
	p.input = raw
	return url, nil
}

func (p *BackgroundPage) claimDownload(raw string) (string, error) {
	if p.downloading {
		return "", ErrDownloadInProgress
	}
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", ErrBlankURL
	}
	p.downloading = true
	p.lastErr = nil
	return url, nil
}

// EndDownload clears the downloading flag, and the input on success
func (p *BackgroundPage) EndDownload(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.downloading = false
	if err != nil {
		p.lastErr = err
		p.logs.add(fmt.Sprintf("Error downloading background: %v", err))
		return
	}
	p.input = ""
}

// Downloading reports whether a download is in flight
func (p *BackgroundPage) Downloading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.downloading
}

// CanDownload mirrors the enabled state of the download control
func (p *BackgroundPage) CanDownload() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return strings.TrimSpace(p.input) != "" && !p.downloading
}

// AddLog adds a log entry (thread-safe)
func (p *BackgroundPage) AddLog(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logs.add(message)
}

// SetError records a failure without touching the list
func (p *BackgroundPage) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastErr = err
	p.logs.add(fmt.Sprintf("Error: %v", err))
}

// Snapshot returns a copy of the page state. previewURL builds the playback
// URL for the selected background.
func (p *BackgroundPage) Snapshot(previewURL func(name string, t time.Time) string) types.BackgroundStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := types.BackgroundStatus{
		Backgrounds:    append([]types.Background{}, p.backgrounds...),
		Selected:       p.selected,
		Input:          p.input,
		Downloading:    p.downloading,
		PreviewLoading: p.previewLoading,
		Logs:           p.logs.snapshot(),
	}
	if p.selected != "" && previewURL != nil {
		status.PreviewURL = previewURL(p.selected, p.previewStamp)
	}
	if p.lastErr != nil {
		status.Error = p.lastErr.Error()
	}
	return status
}
