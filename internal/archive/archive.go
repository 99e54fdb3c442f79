// Package archive stores snapshots of resources about to be deleted.
// Deletion through the backend is a purge with no undo, so the last known
// state is parked in blob storage for diagnostics. Best-effort only.
package archive

import "context"

// Archiver is the common interface for snapshot sinks.
type Archiver interface {
	Save(ctx context.Context, objectName string, data []byte) error
	Close() error
}

// NoOpArchiver discards all snapshots.
type NoOpArchiver struct{}

// Save does nothing and returns no error.
func (NoOpArchiver) Save(_ context.Context, _ string, _ []byte) error { return nil }

// Close does nothing and returns no error.
func (NoOpArchiver) Close() error { return nil }
