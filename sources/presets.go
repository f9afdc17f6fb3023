// Package sources pulls narration text from RSS/Atom feeds.
package sources

import (
	"sort"
	"strings"
)

// FeedConfig represents the configuration for a single feed
type FeedConfig struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FeedPresets maps friendly keys to feed configurations
var FeedPresets = map[string]FeedConfig{
	"tifu": {
		Name: "r/tifu",
		URL:  "https://www.reddit.com/r/tifu/hot/.rss",
	},
	"aita": {
		Name: "r/AmItheAsshole",
		URL:  "https://www.reddit.com/r/AmItheAsshole/hot/.rss",
	},
	"nosleep": {
		Name: "r/nosleep",
		URL:  "https://www.reddit.com/r/nosleep/hot/.rss",
	},
	"confession": {
		Name: "r/confession",
		URL:  "https://www.reddit.com/r/confession/hot/.rss",
	},
	"hn": {
		Name: "Hacker News",
		URL:  "https://hnrss.org/newest",
	},
}

// ResolveFeedURL resolves a feed identifier to a URL.
// "r/<name>" expands to the subreddit's hot feed; unknown input is
// assumed to be a direct URL.
func ResolveFeedURL(feedInput string) string {
	feedInput = strings.TrimSpace(feedInput)
	if config, exists := FeedPresets[feedInput]; exists {
		return config.URL
	}
	if sub, ok := strings.CutPrefix(feedInput, "r/"); ok && sub != "" && !strings.Contains(sub, "/") {
		return "https://www.reddit.com/r/" + sub + "/hot/.rss"
	}
	return feedInput
}

// PresetNames returns the preset keys in alphabetical order
func PresetNames() []string {
	names := make([]string, 0, len(FeedPresets))
	for name := range FeedPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
