package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"whisperstudio/types"
)

// Run claim failures
var (
	ErrEmptyText         = errors.New("content text is empty")
	ErrNoBackground      = errors.New("no background selected")
	ErrUnknownBackground = errors.New("background is not listed")
	ErrRunInProgress     = errors.New("a generation run is already in progress")
)

// ContentPage holds the Content Creator state with thread-safe access
type ContentPage struct {
	mu sync.RWMutex

	currentState types.State
	runID        string
	loading      bool
	cancel       context.CancelFunc

	text        string
	backgrounds []types.Background
	selected    string

	result      *types.GenerationResult
	failedStage string
	lastErr     error

	logs logRing
}

// NewContentPage creates an idle Content Creator state
func NewContentPage() *ContentPage {
	return &ContentPage{
		currentState: types.StateIdle,
		logs:         newLogRing(),
	}
}

// SetBackgrounds replaces the list, drops a selection that is no longer
// listed and defaults to the first entry when nothing is selected
func (p *ContentPage) SetBackgrounds(list []types.Background) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.backgrounds = append([]types.Background{}, list...)
	if kept := reconcileSelection(p.backgrounds, p.selected); kept != p.selected {
		p.logs.add(fmt.Sprintf("Selected background %q is gone, selection cleared", p.selected))
		p.selected = ""
	}
	if p.selected == "" && len(p.backgrounds) > 0 {
		p.selected = p.backgrounds[0].Name
	}
}

// Backgrounds returns a copy of the current list
func (p *ContentPage) Backgrounds() []types.Background {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]types.Background{}, p.backgrounds...)
}

// Select selects a listed background; unknown names clear the selection
func (p *ContentPage) Select(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := findBackground(p.backgrounds, name); !ok {
		p.selected = ""
		return false
	}
	p.selected = name
	return true
}

// Selected returns the selected background, if any
func (p *ContentPage) Selected() (types.Background, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.selected == "" {
		return types.Background{}, false
	}
	return findBackground(p.backgrounds, p.selected)
}

// SetText stores the narration text
func (p *ContentPage) SetText(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = text
}

// Text returns the narration text
func (p *ContentPage) Text() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.text
}

// CanGenerate mirrors the enabled state of the generate control
func (p *ContentPage) CanGenerate() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return strings.TrimSpace(p.text) != "" && p.selected != "" && !p.loading
}

// BeginRun stores the text and background of a new run and marks it as
// started, all under one lock. An empty background keeps the current
// selection. A refused claim leaves the page untouched. The previous result
// and error are cleared.
func (p *ContentPage) BeginRun(runID string, cancel context.CancelFunc, text, background string) (types.Background, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return types.Background{}, ErrEmptyText
	}
	name := background
	if name == "" {
		name = p.selected
	}
	if name == "" {
		return types.Background{}, ErrNoBackground
	}
	bg, ok := findBackground(p.backgrounds, name)
	if !ok {
		if background != "" {
			return types.Background{}, fmt.Errorf("%w: %q", ErrUnknownBackground, background)
		}
		return types.Background{}, ErrNoBackground
	}
	if p.loading {
		return types.Background{}, ErrRunInProgress
	}

	p.text = text
	p.selected = bg.Name
	p.loading = true
	p.runID = runID
	p.cancel = cancel
	p.result = nil
	p.failedStage = ""
	p.lastErr = nil
	p.currentState = types.StateIdle
	return bg, nil
}

// SetState sets the current state (thread-safe)
func (p *ContentPage) SetState(state types.State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentState = state
}

// GetState gets the current state (thread-safe)
func (p *ContentPage) GetState() types.State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.currentState
}

// SetResult stores the final video and transitions to done
func (p *ContentPage) SetResult(result *types.GenerationResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.result = result
	p.currentState = types.StateDone
	p.logs.add(fmt.Sprintf("Video ready: %s", result.VideoFile))
}

// SetError records the failed stage and transitions to the error state
func (p *ContentPage) SetError(stage string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.currentState = types.StateError
	p.failedStage = stage
	p.lastErr = err
	p.logs.add(fmt.Sprintf("Error: %v", err))
}

// FinishRun clears the loading flag; always called when a run ends
func (p *ContentPage) FinishRun() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// Cancel aborts the run in flight. It reports whether there was one.
func (p *ContentPage) Cancel() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loading || p.cancel == nil {
		return false
	}
	p.cancel()
	p.logs.add("Cancellation requested")
	return true
}

// Loading reports whether a run is in flight
func (p *ContentPage) Loading() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loading
}

// Result returns the last successful result, if any
func (p *ContentPage) Result() *types.GenerationResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.result
}

// AddLog adds a log entry (thread-safe)
func (p *ContentPage) AddLog(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logs.add(message)
}

// Snapshot returns a copy of the page state (thread-safe)
func (p *ContentPage) Snapshot() types.ContentStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := types.ContentStatus{
		State:       p.currentState,
		RunID:       p.runID,
		Loading:     p.loading,
		Text:        p.text,
		Backgrounds: append([]types.Background{}, p.backgrounds...),
		Selected:    p.selected,
		Result:      p.result,
		FailedStage: p.failedStage,
		Logs:        p.logs.snapshot(),
	}
	if p.lastErr != nil {
		status.Error = p.lastErr.Error()
	}
	return status
}
