package events

import (
	"context"
	"log"

	"whisperstudio/types"
)

// NewRunEventHandler builds a handler that passes every well-formed run
// event to fn. Malformed events are marked and skipped.
func NewRunEventHandler(fn func(ctx context.Context, event *types.RunEvent) error) *TypedMessageHandler[types.RunEvent] {
	return &TypedMessageHandler[types.RunEvent]{
		Validate: func(event *types.RunEvent) bool {
			if event.RunID == "" {
				log.Printf("❌ Run event missing run ID, skipping")
				return false
			}
			return true
		},
		Process:    fn,
		AlwaysMark: true,
	}
}
