// Package events publishes resource lifecycle notifications. Publishing is
// best-effort and asynchronous; consumers that need authoritative state
// must read it through the API, not from the event stream.
package events

import (
	"context"
	"time"
)

// Event describes one lifecycle transition observed through the facade.
type Event struct {
	Action     string    `json:"action"`
	Kind       string    `json:"kind"`
	ResourceID string    `json:"resourceId"`
	At         time.Time `json:"at"`
}

// Publisher is the common interface for event sinks.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NoOpPublisher discards all events.
type NoOpPublisher struct{}

// Publish does nothing and returns no error.
func (NoOpPublisher) Publish(_ context.Context, _ Event) error { return nil }

// Close does nothing and returns no error.
func (NoOpPublisher) Close() error { return nil }
