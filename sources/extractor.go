package sources

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"whisperstudio/types"

	readability "github.com/go-shiori/go-readability"
)

const (
	WorkerCount      = 5
	extractorTimeout = 30 * time.Second
)

var articleClient = &http.Client{Timeout: extractorTimeout}

// ExtractAll fetches and extracts full text for all items using a worker pool.
// Failures are recorded on the item; the rest of the batch continues.
func ExtractAll(ctx context.Context, items []*types.ContentItem) {
	var wg sync.WaitGroup
	itemChan := make(chan *types.ContentItem)

	for i := 0; i < WorkerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for item := range itemChan {
				if err := ctx.Err(); err != nil {
					item.Error = err.Error()
					continue
				}
				if err := Extract(ctx, item); err != nil {
					item.Error = err.Error()
					log.Printf("[Worker %d] Failed to extract %s: %v", workerID, item.URL, err)
				}
			}
		}(i)
	}

	for _, item := range items {
		itemChan <- item
	}
	close(itemChan)
	wg.Wait()
}

// Extract fetches the item's page and fills in its readable text. The fetch
// stops when ctx is cancelled.
func Extract(ctx context.Context, item *types.ContentItem) error {
	if item.URL == "" {
		return fmt.Errorf("item URL is empty")
	}
	pageURL, err := url.Parse(item.URL)
	if err != nil {
		return fmt.Errorf("invalid item URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := articleClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch article: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("failed to fetch article: status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return fmt.Errorf("readability extraction failed: %w", err)
	}

	item.Text = strings.Join(strings.Fields(article.TextContent), " ")
	item.Excerpt = article.Excerpt
	if item.Author == "" {
		item.Author = article.Byline
	}
	if item.Title == "" {
		item.Title = article.Title
	}

	log.Printf("✓ Extracted: %s", item.Title)
	return nil
}
