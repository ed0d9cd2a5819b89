// Package events publishes notification events to external consumers.
package events

import (
	"context"
	"time"

	"github.com/erazemk/izposoja/internal/model"
)

// Publisher hands notification events to an external sink.
type Publisher interface {
	Publish(ctx context.Context, e model.Event) error
	Close() error
}

// Envelope is the wire form of a published event.
type Envelope struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	model.Event
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, model.Event) error { return nil }

// Close implements Publisher.
func (Nop) Close() error { return nil }
