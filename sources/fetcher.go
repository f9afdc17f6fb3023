package sources

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"whisperstudio/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// UserAgent is sent with feed and page requests; reddit rejects the Go default
const UserAgent = "whisperstudio/1.0 (+feed reader)"

// GenerateID creates a short, stable ID by hashing the provided string input
func GenerateID(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}

// Fetcher retrieves feed items
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a fetcher; a nil client uses one with a 30s timeout
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client}
}

// FetchFeed retrieves and parses an RSS/Atom feed, returning up to maxCount items
func (f *Fetcher) FetchFeed(ctx context.Context, feedURL string, maxCount int) ([]*types.ContentItem, error) {
	parser := gofeed.NewParser()
	parser.Client = f.client
	parser.UserAgent = UserAgent

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	count := min(len(feed.Items), max(maxCount, 0))
	items := make([]*types.ContentItem, 0, count)

	for _, item := range feed.Items[:count] {
		// Use GUID if available, otherwise generate from URL
		id := item.GUID
		if id == "" && item.Link != "" {
			id = GenerateID(item.Link)
		}

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		author := ""
		if item.Author != nil {
			author = strings.TrimPrefix(item.Author.Name, "/u/")
		}

		// reddit puts the post body in content, most feeds in description
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		items = append(items, &types.ContentItem{
			ID:          id,
			Title:       strings.TrimSpace(item.Title),
			URL:         item.Link,
			Author:      author,
			PublishedAt: publishedAt,
			Summary:     PlainText(summary),
		})
	}

	return items, nil
}

// PlainText strips markup from an HTML fragment and collapses whitespace
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}
