package tui

import (
	"time"

	"whisperstudio/types"
)

// Messages for the tea program

// backgroundsLoadedMsg is sent when the Background Manager list was refetched
type backgroundsLoadedMsg struct {
	Err error
}

// contentBackgroundsLoadedMsg is sent when the Content Creator list was refetched
type contentBackgroundsLoadedMsg struct {
	Err error
}

// downloadDoneMsg is sent when a background download finished
type downloadDoneMsg struct {
	Err error
}

// previewReadyMsg is sent when the selected background's stream answered
type previewReadyMsg struct {
	Name string
	Err  error
}

// runDoneMsg is sent when a generation run finished
type runDoneMsg struct {
	Result *types.GenerationResult
	Err    error
}

// sourceItemMsg carries the next feed item to narrate
type sourceItemMsg struct {
	Item *types.ContentItem
	Err  error
}

// tickMsg is sent periodically so progress from running commands is redrawn
type tickMsg struct {
	Time time.Time
}
