package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/breederops/breeder-control/internal/metrics"
)

// Invoke runs a backend job with the given payload and returns the
// normalized outcome. The call is a single blocking request/response pair;
// the one permitted retry happens when the backend rejects the session
// token, in which case Invoke re-authenticates once and repeats the call.
func (c *Client) Invoke(ctx context.Context, job string, payload map[string]any) (Outcome, error) {
	token, err := c.sessionToken(ctx)
	if err != nil {
		metrics.ObserveBackendJob(job, "auth_error")
		return Outcome{}, err
	}

	out, err := c.invokeOnce(ctx, job, payload, token)
	var authErr *AuthError
	if errors.As(err, &authErr) {
		c.invalidate(token)
		token, err = c.sessionToken(ctx)
		if err != nil {
			metrics.ObserveBackendJob(job, "auth_error")
			return Outcome{}, err
		}
		out, err = c.invokeOnce(ctx, job, payload, token)
	}
	if err != nil {
		metrics.ObserveBackendJob(job, outcomeLabel(err))
		return Outcome{}, err
	}
	if out.Success {
		metrics.ObserveBackendJob(job, "success")
	} else {
		metrics.ObserveBackendJob(job, "failure")
	}
	return out, nil
}

func (c *Client) invokeOnce(ctx context.Context, job string, payload map[string]any, token string) (Outcome, error) {
	if payload == nil {
		payload = map[string]any{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Outcome{}, fmt.Errorf("marshal job payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.jobURL(job), bytes.NewReader(body))
	if err != nil {
		return Outcome{}, fmt.Errorf("build job request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{}, &DispatchError{Job: job, Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // response body close is best-effort

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, &DispatchError{Job: job, Err: fmt.Errorf("read response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Outcome{}, &AuthError{Reason: fmt.Sprintf("job %s rejected token with status %d", job, resp.StatusCode)}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Warn("backend job returned non-2xx",
			zap.String("job", job),
			zap.Int("status", resp.StatusCode),
		)
		return Outcome{}, &DispatchError{Job: job, StatusCode: resp.StatusCode}
	}

	out, err := Normalize(raw)
	if err != nil {
		return Outcome{}, &MalformedResponseError{Job: job, Err: err}
	}
	return out, nil
}

func outcomeLabel(err error) string {
	var (
		authErr      *AuthError
		dispatchErr  *DispatchError
		malformedErr *MalformedResponseError
	)
	switch {
	case errors.As(err, &authErr):
		return "auth_error"
	case errors.As(err, &dispatchErr):
		return "dispatch_error"
	case errors.As(err, &malformedErr):
		return "malformed_response"
	default:
		return "error"
	}
}
