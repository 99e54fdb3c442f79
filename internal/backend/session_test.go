package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/breederops/breeder-control/internal/config"
)

func testBackendConfig(baseURL string) config.BackendConfig {
	return config.BackendConfig{
		BaseURL:         baseURL,
		Workspace:       "godon",
		Folder:          "controller",
		JobPathTemplate: "/api/w/{workspace}/jobs/run/p/f/{folder}/{job}",
		LoginPath:       "/auth/login",
		AuthEmail:       "admin@example.com",
		AuthPassword:    "changeme",
		AuthTokenField:  config.TokenFieldRawBody,
		CacheToken:      true,
		TimeoutSeconds:  5,
	}
}

func TestLogin_RawBodyToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "admin@example.com", req["email"])
		_, _ = w.Write([]byte("tok-abc\n"))
	}))
	defer srv.Close()

	client := New(testBackendConfig(srv.URL), zap.NewNop())
	token, err := client.Login(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-abc", token)
}

func TestLogin_JSONTokenField(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-json"}`))
	}))
	defer srv.Close()

	cfg := testBackendConfig(srv.URL)
	cfg.AuthTokenField = config.TokenFieldJSON
	client := New(cfg, zap.NewNop())
	token, err := client.Login(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-json", token)
}

func TestLogin_Non2xxIsAuthError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(testBackendConfig(srv.URL), zap.NewNop())
	_, err := client.Login(context.Background())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestLogin_EmptyBodyIsAuthError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	defer srv.Close()

	client := New(testBackendConfig(srv.URL), zap.NewNop())
	_, err := client.Login(context.Background())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestLogin_MissingTokenFieldIsAuthError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"user":"admin"}`))
	}))
	defer srv.Close()

	cfg := testBackendConfig(srv.URL)
	cfg.AuthTokenField = config.TokenFieldJSON
	client := New(cfg, zap.NewNop())
	_, err := client.Login(context.Background())
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestSessionToken_CachesAcrossCalls(t *testing.T) {
	t.Parallel()

	var logins atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		logins.Add(1)
		_, _ = w.Write([]byte("tok-cached"))
	}))
	defer srv.Close()

	client := New(testBackendConfig(srv.URL), zap.NewNop())
	for range 3 {
		token, err := client.sessionToken(context.Background())
		require.NoError(t, err)
		require.Equal(t, "tok-cached", token)
	}
	require.Equal(t, int32(1), logins.Load())
}

func TestSessionToken_CacheDisabledLogsInEveryCall(t *testing.T) {
	t.Parallel()

	var logins atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		logins.Add(1)
		_, _ = w.Write([]byte("tok-fresh"))
	}))
	defer srv.Close()

	cfg := testBackendConfig(srv.URL)
	cfg.CacheToken = false
	client := New(cfg, zap.NewNop())
	for range 3 {
		_, err := client.sessionToken(context.Background())
		require.NoError(t, err)
	}
	require.Equal(t, int32(3), logins.Load())
}

func TestInvalidate_OnlyDropsTheStaleToken(t *testing.T) {
	t.Parallel()

	client := New(testBackendConfig("http://backend.invalid"), zap.NewNop())
	client.token = "tok-new"

	client.invalidate("tok-old")
	require.Equal(t, "tok-new", client.token)

	client.invalidate("tok-new")
	require.Empty(t, client.token)
}
