// Package audit records mutating control-plane operations. The trail is
// best-effort: a failed audit write is logged by the caller and never fails
// the request that produced it.
package audit

import (
	"context"
	"time"
)

// Entry is one recorded operation.
type Entry struct {
	Operation  string
	Kind       string
	ResourceID string
	Outcome    string
	Detail     string
	At         time.Time
}

// Recorder is the common interface for audit sinks. A real Postgres
// recorder is used in production and NoOpRecorder everywhere else.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
	Close()
}

// NoOpRecorder discards all entries.
type NoOpRecorder struct{}

// Record does nothing and returns no error.
func (NoOpRecorder) Record(_ context.Context, _ Entry) error { return nil }

// Close does nothing.
func (NoOpRecorder) Close() {}
