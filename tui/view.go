package tui

import (
	"fmt"
	"strings"
	"time"

	"whisperstudio/types"
	"whisperstudio/workflow"
)

const visibleLogs = 5

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(TextTitle))
	b.WriteString("  ")
	b.WriteString(m.tabs())
	b.WriteString("\n\n")

	if m.Alert != "" {
		b.WriteString(AlertStyle.Render(m.Alert))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render(TextFooterAlert))
		return b.String()
	}

	if m.Screen == ScreenBackgrounds {
		b.WriteString(m.backgroundsView())
	} else {
		b.WriteString(m.contentView())
	}

	if m.Status != "" {
		b.WriteString(WarningStyle.Render(m.Status))
		b.WriteString("\n\n")
	}
	b.WriteString(InfoStyle.Render(m.footer()))
	return b.String()
}

func (m Model) tabs() string {
	names := []string{TextTabBackgrounds, TextTabContent}
	parts := make([]string, len(names))
	for i, name := range names {
		if Screen(i) == m.Screen {
			parts[i] = HighlightStyle.Render(name)
		} else {
			parts[i] = TabStyle.Render(name)
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) footer() string {
	switch {
	case m.Screen == ScreenBackgrounds && m.urlInput.Focused():
		return TextFooterInput
	case m.Screen == ScreenBackgrounds:
		return TextFooterList
	case m.editing:
		return TextFooterEditing
	default:
		return TextFooterContent
	}
}

func (m Model) backgroundsView() string {
	status := m.Backgrounds.Status()
	var b strings.Builder

	if status.Downloading {
		b.WriteString(StatusStyle.Render(fmt.Sprintf("%s Downloading %s...", m.spinner.View(), status.Input)))
	} else {
		b.WriteString(m.urlInput.View())
	}
	b.WriteString("\n\n")

	b.WriteString(InfoStyle.Render(fmt.Sprintf("📹 Backgrounds (%d)", len(status.Backgrounds))))
	b.WriteString("\n")
	b.WriteString(renderList(status.Backgrounds, m.bgCursor, status.Selected, !m.urlInput.Focused()))
	b.WriteString("\n")

	if status.PreviewURL != "" {
		marker := StatusStyle.Render("▶ ready")
		if status.PreviewLoading {
			marker = m.spinner.View() + " loading"
		}
		b.WriteString(fmt.Sprintf("Preview: %s  %s\n\n", status.PreviewURL, marker))
	}

	b.WriteString(renderLogs(status.Logs))
	return b.String()
}

func (m Model) contentView() string {
	status := m.Runner.Status()
	var b strings.Builder

	b.WriteString(InfoStyle.Render("Background"))
	b.WriteString("\n")
	b.WriteString(renderList(status.Backgrounds, m.contentCursor, status.Selected, !m.editing))
	b.WriteString("\n")

	b.WriteString(m.textArea.View())
	b.WriteString("\n\n")

	switch {
	case status.Loading:
		b.WriteString(StatusStyle.Render(fmt.Sprintf("%s %s...", m.spinner.View(), stageText(status.State))))
		b.WriteString("\n\n")
	case status.State == types.StateError && status.FailedStage != "":
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("❌ Failed during %s", workflow.StageLabel(types.State(status.FailedStage)))))
		b.WriteString("\n\n")
	case status.Result != nil:
		b.WriteString(BoxStyle.Render(formatResult(status.Result)))
		b.WriteString("\n\n")
	}

	b.WriteString(renderLogs(status.Logs))
	return b.String()
}

// stageText describes a running stage
func stageText(s types.State) string {
	switch s {
	case types.StateSynthesizing:
		return "Generating speech"
	case types.StateFetchingSubtitles:
		return "Generating subtitles"
	case types.StateComposing:
		return "Composing video"
	case types.StateFetchingVideo:
		return "Downloading video"
	default:
		return "Starting"
	}
}

func formatResult(r *types.GenerationResult) string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render("✅ Video ready"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf("Video: %s (%d bytes)\n", r.VideoFile, len(r.Video)))
	b.WriteString(fmt.Sprintf("Audio: %s  Subtitles: %s\n", r.AudioFile, r.SubtitleFile))
	if r.SavedPath != "" {
		b.WriteString(fmt.Sprintf("Saved to: %s\n", r.SavedPath))
	}
	b.WriteString(fmt.Sprintf("Took: %s", r.Duration.Round(100*time.Millisecond)))
	return b.String()
}

func renderList(backgrounds []types.Background, cursor int, selected string, showCursor bool) string {
	if len(backgrounds) == 0 {
		return InfoStyle.Render("   (none)") + "\n"
	}
	var b strings.Builder
	for i, bg := range backgrounds {
		pointer := "  "
		if showCursor && i == cursor {
			pointer = "> "
		}
		line := bg.Name
		if bg.Name == selected {
			line = SelectedStyle.Render("● " + bg.Name)
		} else {
			line = "  " + line
		}
		b.WriteString(pointer + line + "\n")
	}
	return b.String()
}

func renderLogs(logs []types.LogEntry) string {
	if len(logs) == 0 {
		return ""
	}
	if len(logs) > visibleLogs {
		logs = logs[len(logs)-visibleLogs:]
	}
	var b strings.Builder
	b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
	b.WriteString("\n")
	for _, entry := range logs {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("   %s %s", entry.Timestamp.Format("15:04:05"), entry.Message)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
