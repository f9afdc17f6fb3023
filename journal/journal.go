// Package journal keeps a short history of generation runs.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"whisperstudio/config"
	"whisperstudio/types"

	"github.com/redis/go-redis/v9"
)

// Journal records finished runs and lists the most recent ones
type Journal interface {
	Record(ctx context.Context, record types.RunRecord) error
	Recent(ctx context.Context, n int) ([]types.RunRecord, error)
	Close() error
}

// RedisConfig configures the Redis connection and key
type RedisConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Key      string // redis list holding the records, newest first
	TTL      time.Duration
	// MaxEntries caps the list length
	MaxEntries int
}

// RedisJournal stores run records in a capped Redis list
type RedisJournal struct {
	client     *redis.Client
	key        string
	ttl        time.Duration
	maxEntries int
}

// NewRedisJournal creates a Redis journal and verifies connectivity
func NewRedisJournal(cfg RedisConfig) (*RedisJournal, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	if cfg.Key == "" {
		cfg.Key = config.DefaultJournalKey
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = config.JournalMaxEntries
	}
	return &RedisJournal{client: client, key: cfg.Key, ttl: cfg.TTL, maxEntries: cfg.MaxEntries}, nil
}

// Record pushes a record to the head of the list, trims it and refreshes the TTL
func (j *RedisJournal) Record(ctx context.Context, record types.RunRecord) error {
	b, err := encodeRecord(record)
	if err != nil {
		return err
	}

	pipe := j.client.TxPipeline()
	pipe.LPush(ctx, j.key, b)
	pipe.LTrim(ctx, j.key, 0, int64(j.maxEntries-1))
	// Sliding TTL: the history lives for ttl after the latest run
	if j.ttl > 0 {
		pipe.Expire(ctx, j.key, j.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("journal run %s: %w", record.RunID, err)
	}
	return nil
}

// Recent returns up to n records, newest first
func (j *RedisJournal) Recent(ctx context.Context, n int) ([]types.RunRecord, error) {
	if n <= 0 {
		return []types.RunRecord{}, nil
	}
	raw, err := j.client.LRange(ctx, j.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return decodeRecords(raw), nil
}

// Close closes the underlying Redis client
func (j *RedisJournal) Close() error {
	return j.client.Close()
}

// MemoryJournal keeps records in process; used when Redis is not configured
type MemoryJournal struct {
	mu         sync.RWMutex
	records    []types.RunRecord
	maxEntries int
}

// NewMemoryJournal creates an in-process journal
func NewMemoryJournal(maxEntries int) *MemoryJournal {
	if maxEntries <= 0 {
		maxEntries = config.JournalMaxEntries
	}
	return &MemoryJournal{maxEntries: maxEntries}
}

// Record implements Journal
func (j *MemoryJournal) Record(ctx context.Context, record types.RunRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append([]types.RunRecord{record}, j.records...)
	if len(j.records) > j.maxEntries {
		j.records = j.records[:j.maxEntries]
	}
	return nil
}

// Recent implements Journal
func (j *MemoryJournal) Recent(ctx context.Context, n int) ([]types.RunRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	n = min(max(n, 0), len(j.records))
	return append([]types.RunRecord{}, j.records[:n]...), nil
}

// Close implements Journal
func (j *MemoryJournal) Close() error { return nil }

// New returns a Redis journal when an address is configured and an
// in-memory one otherwise (or when Redis is unreachable)
func New(cfg RedisConfig) Journal {
	if cfg.Addr == "" {
		log.Printf("Redis not configured; keeping run history in memory")
		return NewMemoryJournal(cfg.MaxEntries)
	}
	j, err := NewRedisJournal(cfg)
	if err != nil {
		log.Printf("Warning: %v (run history kept in memory)", err)
		return NewMemoryJournal(cfg.MaxEntries)
	}
	log.Printf("✅ Journaling runs to redis %s key %q", cfg.Addr, j.key)
	return j
}

func encodeRecord(record types.RunRecord) ([]byte, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("marshal run record: %w", err)
	}
	return b, nil
}

// decodeRecords skips entries that no longer decode
func decodeRecords(raw []string) []types.RunRecord {
	records := make([]types.RunRecord, 0, len(raw))
	for _, s := range raw {
		var r types.RunRecord
		if err := json.Unmarshal([]byte(s), &r); err != nil {
			log.Printf("⚠️  Skipping unreadable journal entry: %v", err)
			continue
		}
		records = append(records, r)
	}
	return records
}
