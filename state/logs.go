package state

import (
	"time"

	"whisperstudio/config"
	"whisperstudio/types"
)

// logRing keeps the most recent log entries (not thread-safe, callers hold the lock)
type logRing struct {
	entries []types.LogEntry
	max     int
}

func newLogRing() logRing {
	return logRing{entries: make([]types.LogEntry, 0), max: config.MaxLogs}
}

func (r *logRing) add(message string) {
	r.entries = append(r.entries, types.LogEntry{
		Timestamp: time.Now(),
		Message:   message,
	})
	if len(r.entries) > r.max {
		r.entries = r.entries[len(r.entries)-r.max:]
	}
}

func (r *logRing) snapshot() []types.LogEntry {
	return append([]types.LogEntry{}, r.entries...)
}

// reconcileSelection returns the selection that survives a refetch: the old
// name if it is still listed, otherwise nothing
func reconcileSelection(list []types.Background, selected string) string {
	if selected == "" {
		return ""
	}
	for _, bg := range list {
		if bg.Name == selected {
			return selected
		}
	}
	return ""
}

func findBackground(list []types.Background, name string) (types.Background, bool) {
	for _, bg := range list {
		if bg.Name == name {
			return bg, true
		}
	}
	return types.Background{}, false
}
