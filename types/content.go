package types

import "time"

// ContentItem is a piece of narration text pulled from a feed
type ContentItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary"`
	Text        string    `json:"text,omitempty"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Error       string    `json:"extraction_error,omitempty"`
}

// Narration returns the best available text for speech synthesis
func (c ContentItem) Narration() string {
	if c.Text != "" {
		return c.Text
	}
	if c.Summary != "" {
		return c.Summary
	}
	return c.Title
}
