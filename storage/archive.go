package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"strings"

	"whisperstudio/naming"
)

// VideoArchive stores finished videos under <prefix>videos/<run id>/<file>
type VideoArchive struct {
	store  *S3
	bucket string
	prefix string
}

// NewVideoArchive creates an archive writing to bucket under prefix
func NewVideoArchive(store *S3, bucket, prefix string) *VideoArchive {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &VideoArchive{store: store, bucket: bucket, prefix: prefix}
}

// Key returns the object key for a run's video
func (a *VideoArchive) Key(runID, filename string) string {
	name := naming.BaseFilename(filename)
	if name == "" {
		name = "video.mp4"
	}
	return a.prefix + path.Join("videos", runID, name)
}

// ArchiveVideo uploads the video unless it is already there and returns its s3:// location
func (a *VideoArchive) ArchiveVideo(ctx context.Context, runID, filename string, data []byte) (string, error) {
	key := a.Key(runID, filename)
	location := fmt.Sprintf("s3://%s/%s", a.bucket, key)

	exists, err := a.store.Exists(ctx, a.bucket, key)
	if err != nil {
		return "", fmt.Errorf("check %s: %w", location, err)
	}
	if exists {
		log.Printf("Video already archived at %s", location)
		return location, nil
	}

	meta := map[string]string{"run-id": runID}
	if err := a.store.Put(ctx, a.bucket, key, bytes.NewReader(data), "video/mp4", meta); err != nil {
		return "", fmt.Errorf("upload %s: %w", location, err)
	}
	log.Printf("📦 Archived %d bytes to %s", len(data), location)
	return location, nil
}

// ListRuns returns the run IDs that have an archived video
func (a *VideoArchive) ListRuns(ctx context.Context) ([]string, error) {
	root := a.prefix + "videos/"
	keys, err := a.store.ListKeys(ctx, a.bucket, root)
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	seen := make(map[string]bool)
	runs := []string{}
	for _, k := range keys {
		rest := strings.TrimPrefix(k, root)
		runID, _, ok := strings.Cut(rest, "/")
		if !ok || runID == "" || seen[runID] {
			continue
		}
		seen[runID] = true
		runs = append(runs, runID)
	}
	return runs, nil
}
