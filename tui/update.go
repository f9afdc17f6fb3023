package tui

import (
	"errors"
	"fmt"
	"strings"

	"whisperstudio/workflow"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.urlInput.Width = max(msg.Width-12, 20)
		m.textArea.SetWidth(max(msg.Width-4, 20))
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tickMsg:
		return m, tickCmd()
	case backgroundsLoadedMsg:
		return m.handleBackgroundsLoaded(msg)
	case contentBackgroundsLoadedMsg:
		return m.handleContentBackgroundsLoaded(msg)
	case downloadDoneMsg:
		return m.handleDownloadDone(msg)
	case previewReadyMsg:
		return m.handlePreviewReady(msg)
	case runDoneMsg:
		return m.handleRunDone(msg)
	case sourceItemMsg:
		return m.handleSourceItem(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The alert blocks everything until dismissed
	if m.Alert != "" {
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc {
			m.Alert = ""
		}
		return m, nil
	}

	if msg.Type == tea.KeyTab {
		return m.switchScreen(), nil
	}

	if m.Screen == ScreenBackgrounds {
		if m.urlInput.Focused() {
			return m.handleInputKey(msg)
		}
		return m.handleBackgroundListKey(msg)
	}
	if m.editing {
		return m.handleEditorKey(msg)
	}
	return m.handleContentKey(msg)
}

// switchScreen toggles between the two pages
func (m Model) switchScreen() Model {
	if m.Screen == ScreenBackgrounds {
		m.Screen = ScreenContent
		m.urlInput.Blur()
		if m.editing {
			m.textArea.Focus()
		}
		return m
	}
	m.Screen = ScreenBackgrounds
	m.textArea.Blur()
	return m
}

// handleInputKey edits the URL input; enter starts the download
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.urlInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.Backgrounds.SetInput(m.urlInput.Value())
		if !m.Backgrounds.CanDownload() {
			if m.Backgrounds.Page().Downloading() {
				m.Status = workflow.ErrDownloadInProgress.Error()
			} else {
				m.Status = "Enter a URL to download"
			}
			return m, nil
		}
		// The input is disabled until the download ends
		m.urlInput.Blur()
		m.Status = ""
		return m, downloadBackground(m.Backgrounds)
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	m.Backgrounds.SetInput(m.urlInput.Value())
	return m, cmd
}

// handleBackgroundListKey moves through the list and selects for preview
func (m Model) handleBackgroundListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	backgrounds := m.Backgrounds.Page().Backgrounds()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.bgCursor = clampCursor(m.bgCursor-1, len(backgrounds))
	case "down", "j":
		m.bgCursor = clampCursor(m.bgCursor+1, len(backgrounds))
	case "enter", " ":
		if len(backgrounds) == 0 {
			return m, nil
		}
		name := backgrounds[m.bgCursor].Name
		if !m.Backgrounds.Select(name) {
			return m, nil
		}
		m.Backgrounds.PreviewLoadStarted()
		return m, probePreview(m.Streamer, name)
	case "i":
		if !m.Backgrounds.Page().Downloading() {
			m.urlInput.Focus()
		}
	case "r":
		return m, refreshBackgrounds(m.Backgrounds)
	}
	return m, nil
}

// handleEditorKey edits the narration text
func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.textArea.Blur()
		return m, nil
	case "ctrl+g":
		return m.generate()
	}

	var cmd tea.Cmd
	m.textArea, cmd = m.textArea.Update(msg)
	m.Runner.SetText(m.textArea.Value())
	return m, cmd
}

// handleContentKey picks the background and drives the run
func (m Model) handleContentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	backgrounds := m.Runner.Page().Backgrounds()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		m.contentCursor = clampCursor(m.contentCursor-1, len(backgrounds))
		m = m.selectContentBackground()
	case "down", "j":
		m.contentCursor = clampCursor(m.contentCursor+1, len(backgrounds))
		m = m.selectContentBackground()
	case "e":
		if m.Runner.Page().Loading() {
			m.Status = TextEditLocked
			return m, nil
		}
		m.editing = true
		m.textArea.Focus()
	case "n":
		m.Status = "Fetching next feed item..."
		return m, nextSourceItem(m.Queue)
	case "g", "ctrl+g":
		return m.generate()
	case "x":
		if err := m.Runner.Cancel(); err != nil {
			m.Status = err.Error()
		}
	case "r":
		return m, refreshContent(m.Runner)
	}
	return m, nil
}

func (m Model) selectContentBackground() Model {
	backgrounds := m.Runner.Page().Backgrounds()
	if len(backgrounds) > 0 {
		m.Runner.Select(backgrounds[m.contentCursor].Name)
	}
	return m
}

// generate starts a run when the page allows it
func (m Model) generate() (tea.Model, tea.Cmd) {
	if m.Runner.Page().Loading() {
		m.Status = workflow.ErrRunInProgress.Error()
		return m, nil
	}
	m.Runner.SetText(m.textArea.Value())
	if !m.Runner.CanGenerate() {
		switch {
		case strings.TrimSpace(m.textArea.Value()) == "":
			m.Status = "Enter some text first"
		default:
			m.Status = "Select a background first"
		}
		return m, nil
	}
	m.editing = false
	m.textArea.Blur()
	m.Status = ""
	return m, generateVideo(m.Runner)
}

func (m Model) handleBackgroundsLoaded(msg backgroundsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Status = fmt.Sprintf("Error fetching backgrounds: %v", msg.Err)
	}
	m.bgCursor = clampCursor(m.bgCursor, len(m.Backgrounds.Page().Backgrounds()))
	return m, nil
}

func (m Model) handleContentBackgroundsLoaded(msg contentBackgroundsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Status = fmt.Sprintf("Error fetching backgrounds: %v", msg.Err)
		return m, nil
	}
	// Put the cursor on the (possibly defaulted) selection
	if selected, ok := m.Runner.Page().Selected(); ok {
		for i, bg := range m.Runner.Page().Backgrounds() {
			if bg.Name == selected.Name {
				m.contentCursor = i
			}
		}
	}
	m.contentCursor = clampCursor(m.contentCursor, len(m.Runner.Page().Backgrounds()))
	return m, nil
}

func (m Model) handleDownloadDone(msg downloadDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Status = fmt.Sprintf("Error downloading background: %v", msg.Err)
	} else {
		m.Status = "Download complete"
		m.urlInput.SetValue(m.Backgrounds.Page().Input())
	}
	m.bgCursor = clampCursor(m.bgCursor, len(m.Backgrounds.Page().Backgrounds()))
	if m.Screen == ScreenBackgrounds {
		m.urlInput.Focus()
	}
	// The Content Creator keeps its own list
	return m, refreshContent(m.Runner)
}

func (m Model) handlePreviewReady(msg previewReadyMsg) (tea.Model, tea.Cmd) {
	selected, ok := m.Backgrounds.Page().Selected()
	if !ok || selected.Name != msg.Name {
		return m, nil
	}
	m.Backgrounds.PreviewCanPlay()
	if msg.Err != nil {
		m.Status = fmt.Sprintf("Preview unavailable: %v", msg.Err)
	}
	return m, nil
}

func (m Model) handleRunDone(msg runDoneMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, workflow.ErrRunInProgress):
		m.Status = msg.Err.Error()
	case msg.Err != nil:
		m.Alert = fmt.Sprintf("Error generating video: %v", msg.Err)
	case msg.Result.SavedPath != "":
		m.Status = fmt.Sprintf("Video saved to %s", msg.Result.SavedPath)
	default:
		m.Status = fmt.Sprintf("Video ready: %s", msg.Result.VideoFile)
	}
	return m, nil
}

func (m Model) handleSourceItem(msg sourceItemMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Status = fmt.Sprintf("Error fetching feed item: %v", msg.Err)
		return m, nil
	}
	if m.Runner.Page().Loading() {
		m.Status = TextEditLocked
		return m, nil
	}
	m.textArea.SetValue(msg.Item.Narration())
	m.Runner.SetText(m.textArea.Value())
	m.Status = fmt.Sprintf("Loaded %q", msg.Item.Title)
	return m, nil
}
