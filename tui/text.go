package tui

// UI Text Constants
const (
	TextTitle              = "🎬 Whisper Studio"
	TextURLPlaceholder     = "https://www.youtube.com/watch?v=..."
	TextContentPlaceholder = "Type or paste the text to narrate..."

	TextEditLocked         = "Text is locked while a video is generating"

	TextTabBackgrounds = "Backgrounds"
	TextTabContent     = "Create"

	// Footers
	TextFooterInput   = "enter download | esc list | tab switch | ctrl+c quit"
	TextFooterList    = "↑/↓ move | enter preview | i edit URL | r refresh | tab switch | q quit"
	TextFooterEditing = "esc done editing | ctrl+g generate | tab switch | ctrl+c quit"
	TextFooterContent = "↑/↓ background | e edit text | n next feed item | g generate | x cancel | r refresh | tab switch | q quit"
	TextFooterAlert   = "Press enter to dismiss"
)
