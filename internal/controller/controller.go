// Package controller implements the resource lifecycle operations: it
// validates input, assigns identity on create, dispatches the matching
// backend job, and maps normalized outcomes onto the error taxonomy.
package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/breederops/breeder-control/internal/archive"
	"github.com/breederops/breeder-control/internal/audit"
	"github.com/breederops/breeder-control/internal/backend"
	"github.com/breederops/breeder-control/internal/events"
	"github.com/breederops/breeder-control/internal/id/uuid"
	"github.com/breederops/breeder-control/internal/resource"
)

// IDGenerator creates resource identities.
type IDGenerator interface {
	NewID() (string, error)
}

// Clock supplies timestamps for audit entries and events.
type Clock interface {
	Now() time.Time
}

// Controller translates lifecycle calls into backend job invocations.
// It is stateless; every read is authoritative from the backend.
type Controller struct {
	backend backend.Invoker
	ids     IDGenerator
	clock   Clock
	audit   audit.Recorder
	events  events.Publisher
	archive archive.Archiver
	logger  *zap.Logger
}

// New creates a Controller.
func New(
	invoker backend.Invoker,
	ids IDGenerator,
	clock Clock,
	auditRec audit.Recorder,
	eventPub events.Publisher,
	archiver archive.Archiver,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		backend: invoker,
		ids:     ids,
		clock:   clock,
		audit:   auditRec,
		events:  eventPub,
		archive: archiver,
		logger:  logger,
	}
}

// NotFoundError reports that the backend explicitly said the target
// resource is absent.
type NotFoundError struct {
	Kind resource.Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NotImplementedError marks operations this facade deliberately rejects.
type NotImplementedError struct {
	Kind      resource.Kind
	Operation string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s %s is not implemented", e.Kind, e.Operation)
}

// JobFailure is a backend-reported failure that is not a not-found. The
// backend's message is carried verbatim for diagnosability.
type JobFailure struct {
	Job     string
	Message string
}

func (e *JobFailure) Error() string {
	return fmt.Sprintf("job %s failed: %s", e.Job, e.Message)
}

// notFoundIndicators are the message fragments the backend uses for absent
// resources. The backend has no structured error codes, so message
// inspection is the contract; a structured NOT_FOUND code is also honored
// in case the jobs ever grow one.
var notFoundIndicators = []string{"not found", "does not exist", "no such"}

func isNotFound(out backend.Outcome) bool {
	if strings.EqualFold(out.Code, "NOT_FOUND") {
		return true
	}
	msg := strings.ToLower(out.Message)
	for _, indicator := range notFoundIndicators {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}

// failureError converts a failure outcome into the taxonomy error for the
// given target. Resource data is never synthesized from a failure.
func failureError(job string, kind resource.Kind, id string, out backend.Outcome) error {
	if isNotFound(out) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return &JobFailure{Job: job, Message: out.Message}
}

func validateID(id string) error {
	if !uuid.Validate(id) {
		return &resource.ValidationError{Field: "id", Reason: "must be a valid UUID"}
	}
	return nil
}

// unwrap peels a single resource-named wrapper key off a payload. List and
// get jobs disagree about whether they wrap their result; both forms are
// accepted.
func unwrap(data json.RawMessage, keys ...string) json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return data
	}
	if len(fields) != 1 {
		return data
	}
	for _, key := range keys {
		if raw, ok := fields[key]; ok {
			return raw
		}
	}
	return data
}

// invoke resolves the job name for (kind, op) and dispatches it.
func (c *Controller) invoke(ctx context.Context, kind resource.Kind, op backend.Operation, payload map[string]any) (string, backend.Outcome, error) {
	job, err := backend.JobName(string(kind), op)
	if err != nil {
		return "", backend.Outcome{}, err
	}
	out, err := c.backend.Invoke(ctx, job, payload)
	if err != nil {
		return job, backend.Outcome{}, err
	}
	return job, out, nil
}

// recordMutation writes the audit entry for a mutating operation and, on
// success, publishes the matching lifecycle event. Both sinks are
// best-effort; failures are logged and swallowed.
func (c *Controller) recordMutation(ctx context.Context, op backend.Operation, kind resource.Kind, id string, opErr error) {
	now := c.clock.Now()
	entry := audit.Entry{
		Operation:  string(op),
		Kind:       string(kind),
		ResourceID: id,
		Outcome:    "success",
		At:         now,
	}
	if opErr != nil {
		entry.Outcome = "failure"
		entry.Detail = opErr.Error()
	}
	if err := c.audit.Record(ctx, entry); err != nil {
		c.logger.Warn("audit record failed",
			zap.String("operation", string(op)),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
	if opErr != nil {
		return
	}
	event := events.Event{
		Action:     eventAction(op),
		Kind:       string(kind),
		ResourceID: id,
		At:         now,
	}
	if err := c.events.Publish(ctx, event); err != nil {
		c.logger.Warn("event publish failed",
			zap.String("action", event.Action),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}

func eventAction(op backend.Operation) string {
	switch op {
	case backend.OpCreate:
		return "created"
	case backend.OpDelete:
		return "deleted"
	case backend.OpStop:
		return "stopped"
	default:
		return string(op)
	}
}

// snapshot archives the last known state of a resource about to be purged.
// Skipped entirely when archiving is disabled, so the conservative path
// stays at one job call per request.
func (c *Controller) snapshot(ctx context.Context, kind resource.Kind, id string, fetch func() (any, error)) {
	if _, disabled := c.archive.(archive.NoOpArchiver); disabled {
		return
	}
	state, err := fetch()
	if err != nil {
		c.logger.Warn("pre-delete snapshot fetch failed",
			zap.String("kind", string(kind)),
			zap.String("id", id),
			zap.Error(err),
		)
		return
	}
	data, err := json.Marshal(state)
	if err != nil {
		c.logger.Warn("pre-delete snapshot marshal failed", zap.String("id", id), zap.Error(err))
		return
	}
	name := fmt.Sprintf("%s/%s.json", kind, id)
	if err := c.archive.Save(ctx, name, data); err != nil {
		c.logger.Warn("pre-delete snapshot save failed", zap.String("object", name), zap.Error(err))
	}
}
