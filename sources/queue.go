package sources

import (
	"context"
	"errors"
	"log"
	"sync"

	"whisperstudio/types"
)

// ErrQueueEmpty is returned by Next when every loaded item was handed out
var ErrQueueEmpty = errors.New("no more feed items")

// Queue hands out feed items one at a time, skipping ones already seen
type Queue struct {
	fetcher *Fetcher
	feedURL string
	count   int
	extract bool

	mu    sync.Mutex
	items []*types.ContentItem
	seen  map[string]bool
}

// NewQueue creates a queue over feed (a preset name or URL)
func NewQueue(fetcher *Fetcher, feed string, count int, extract bool) *Queue {
	return &Queue{
		fetcher: fetcher,
		feedURL: ResolveFeedURL(feed),
		count:   count,
		extract: extract,
		seen:    make(map[string]bool),
	}
}

// FeedURL returns the resolved feed URL
func (q *Queue) FeedURL() string {
	return q.feedURL
}

// Load fetches the feed and replaces the pending items with unseen ones
func (q *Queue) Load(ctx context.Context) ([]*types.ContentItem, error) {
	items, err := q.fetcher.FetchFeed(ctx, q.feedURL, q.count)
	if err != nil {
		return nil, err
	}
	if q.extract {
		ExtractAll(ctx, items)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = q.items[:0]
	for _, item := range items {
		if !q.seen[item.ID] {
			q.items = append(q.items, item)
		}
	}
	log.Printf("Loaded %d new items from %s", len(q.items), q.feedURL)
	return items, nil
}

// Next returns the next unseen item, reloading the feed once when empty
func (q *Queue) Next(ctx context.Context) (*types.ContentItem, error) {
	if item, ok := q.pop(); ok {
		return item, nil
	}
	if _, err := q.Load(ctx); err != nil {
		return nil, err
	}
	if item, ok := q.pop(); ok {
		return item, nil
	}
	return nil, ErrQueueEmpty
}

func (q *Queue) pop() (*types.ContentItem, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) > 0 {
		item := q.items[0]
		q.items = q.items[1:]
		if q.seen[item.ID] {
			continue
		}
		q.seen[item.ID] = true
		return item, true
	}
	return nil, false
}
