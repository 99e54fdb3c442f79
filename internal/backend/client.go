// Package backend talks to the job-orchestration service: it owns the
// session token lifecycle, dispatches authenticated job invocations, and
// normalizes the heterogeneous result envelopes the jobs respond with.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/breederops/breeder-control/internal/config"
)

// Invoker is the surface the lifecycle controller depends on.
type Invoker interface {
	Invoke(ctx context.Context, job string, payload map[string]any) (Outcome, error)
}

// Client is an authenticated client for the job backend. It is safe for
// concurrent use; the only shared state is the cached session token.
type Client struct {
	cfg        config.BackendConfig
	httpClient *http.Client
	logger     *zap.Logger

	mu    sync.Mutex
	token string
}

// New creates a Client from backend configuration.
func New(cfg config.BackendConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}
}

// Operation identifies a logical resource-lifecycle action.
type Operation string

// Lifecycle operations.
const (
	OpList   Operation = "list"
	OpGet    Operation = "get"
	OpCreate Operation = "create"
	OpDelete Operation = "delete"
	OpStop   Operation = "stop"
)

// jobNames maps (resource kind, operation) onto the backend's job names.
// The list jobs predate the naming convention of the rest, hence the
// irregular plurals.
var jobNames = map[string]string{
	"breeder/list":      "breeders_get",
	"breeder/get":       "breeder_get",
	"breeder/create":    "breeder_create",
	"breeder/delete":    "breeder_delete",
	"breeder/stop":      "breeder_stop",
	"credential/list":   "credentials_get",
	"credential/get":    "credential_get",
	"credential/create": "credential_create",
	"credential/delete": "credential_delete",
}

// JobName resolves the backend job for a resource kind and operation.
func JobName(kind string, op Operation) (string, error) {
	name, ok := jobNames[kind+"/"+string(op)]
	if !ok {
		return "", fmt.Errorf("no backend job for %s %s", kind, op)
	}
	return name, nil
}

// jobURL builds the invocation URL for a job from the configured template.
func (c *Client) jobURL(job string) string {
	path := strings.NewReplacer(
		"{workspace}", c.cfg.Workspace,
		"{folder}", c.cfg.Folder,
		"{job}", job,
	).Replace(c.cfg.JobPathTemplate)
	return strings.TrimRight(c.cfg.BaseURL, "/") + path
}

func (c *Client) loginURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + c.cfg.LoginPath
}
