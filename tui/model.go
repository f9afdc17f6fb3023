// Package tui is the terminal front-end for the Background Manager and
// Content Creator pages.
package tui

import (
	"context"
	"net/http"

	"whisperstudio/sources"
	"whisperstudio/workflow"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Screen identifies the page on display
type Screen int

const (
	ScreenBackgrounds Screen = iota
	ScreenContent
)

// Streamer opens a background stream; used to probe preview readiness
type Streamer interface {
	StreamBackground(ctx context.Context, name, rangeHeader string) (*http.Response, error)
}

// Model represents the TUI state. Page state lives in the workflows; the
// model only holds widgets and cursors.
type Model struct {
	Backgrounds *workflow.BackgroundManager
	Runner      *workflow.Runner
	Streamer    Streamer
	Queue       *sources.Queue

	Screen Screen

	urlInput textinput.Model
	textArea textarea.Model
	spinner  spinner.Model

	bgCursor      int
	contentCursor int
	// editing is true while the content text area has focus
	editing bool

	// Alert is a blocking message that must be dismissed with a key press
	Alert  string
	Status string

	width  int
	height int
}

// NewModel creates a new TUI model. Streamer and Queue may be nil.
func NewModel(manager *workflow.BackgroundManager, runner *workflow.Runner, streamer Streamer, queue *sources.Queue) Model {
	input := textinput.New()
	input.Prompt = "URL > "
	input.Placeholder = TextURLPlaceholder
	input.CharLimit = 2048
	input.Width = 60
	input.Focus()

	area := textarea.New()
	area.Placeholder = TextContentPlaceholder
	area.SetWidth(72)
	area.SetHeight(8)
	area.CharLimit = 0

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = StatusStyle

	return Model{
		Backgrounds: manager,
		Runner:      runner,
		Streamer:    streamer,
		Queue:       queue,
		Screen:      ScreenBackgrounds,
		urlInput:    input,
		textArea:    area,
		spinner:     spin,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		refreshBackgrounds(m.Backgrounds),
		refreshContent(m.Runner),
		m.spinner.Tick,
		tickCmd(),
	)
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
