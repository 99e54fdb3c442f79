package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/breederops/breeder-control/internal/config"
	"github.com/breederops/breeder-control/internal/metrics"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the backend and returns a bearer token.
// Depending on deployment the backend answers with the raw token as the
// body or with a {"token": ...} JSON object; both are accepted.
func (c *Client) Login(ctx context.Context) (string, error) {
	body, err := json.Marshal(loginRequest{Email: c.cfg.AuthEmail, Password: c.cfg.AuthPassword})
	if err != nil {
		return "", fmt.Errorf("marshal login request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveLogin("error")
		return "", &AuthError{Reason: "login call failed", Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // response body close is best-effort

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveLogin("error")
		return "", &AuthError{Reason: "read login response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveLogin("rejected")
		return "", &AuthError{Reason: fmt.Sprintf("login returned status %d", resp.StatusCode)}
	}

	token, err := c.extractToken(raw)
	if err != nil {
		metrics.ObserveLogin("error")
		return "", &AuthError{Reason: "unusable login response", Err: err}
	}
	metrics.ObserveLogin("ok")
	return token, nil
}

func (c *Client) extractToken(raw []byte) (string, error) {
	if c.cfg.AuthTokenField == config.TokenFieldJSON {
		var parsed struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return "", fmt.Errorf("decode token field: %w", err)
		}
		if parsed.Token == "" {
			return "", fmt.Errorf("login response has no token field")
		}
		return parsed.Token, nil
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("login response body is empty")
	}
	return token, nil
}

// sessionToken returns a token for the next job call, reusing the cached
// one when caching is enabled. Only one caller at a time performs the
// login, so concurrent requests never trigger a refresh stampede.
func (c *Client) sessionToken(ctx context.Context) (string, error) {
	if !c.cfg.CacheToken {
		return c.Login(ctx)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	token, err := c.Login(ctx)
	if err != nil {
		return "", err
	}
	c.token = token
	return token, nil
}

// invalidate drops the cached token, but only if it is still the one the
// failing caller used. A token refreshed by a concurrent request survives.
func (c *Client) invalidate(stale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == stale {
		c.token = ""
		c.logger.Debug("session token invalidated")
	}
}
