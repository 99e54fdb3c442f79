package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/breederops/breeder-control/internal/archive"
	"github.com/breederops/breeder-control/internal/audit"
	"github.com/breederops/breeder-control/internal/backend"
	"github.com/breederops/breeder-control/internal/clock/system"
	"github.com/breederops/breeder-control/internal/config"
	"github.com/breederops/breeder-control/internal/controller"
	"github.com/breederops/breeder-control/internal/events"
	"github.com/breederops/breeder-control/internal/id/uuid"
)

// scripted is one canned backend response.
type scripted struct {
	out backend.Outcome
	err error
}

type fakeInvoker struct {
	responses []scripted
	calls     int
}

func (f *fakeInvoker) Invoke(_ context.Context, _ string, _ map[string]any) (backend.Outcome, error) {
	f.calls++
	if len(f.responses) == 0 {
		return backend.Outcome{Success: true}, nil
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next.out, next.err
}

func newTestServer(responses ...scripted) (*Server, *fakeInvoker) {
	invoker := &fakeInvoker{responses: responses}
	ctrl := controller.New(
		invoker,
		uuid.New(),
		system.New(),
		audit.NoOpRecorder{},
		events.NoOpPublisher{},
		archive.NoOpArchiver{},
		zap.NewNop(),
	)
	cfg := config.Config{
		Server: config.ServerConfig{Port: 8080, TimeoutSeconds: 60},
	}
	return NewServer(ctrl, cfg, zap.NewNop()), invoker
}

func doRequest(t *testing.T, server *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

const testID = "11111111-2222-4333-8444-555555555555"

func TestHealthz(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer()
	rec := doRequest(t, server, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestListBreeders_OK(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(scripted{out: backend.Outcome{
		Success: true,
		Data:    json.RawMessage(`{"breeders":[{"id":"b-1","name":"worker-1","status":"active"}]}`),
	}})
	rec := doRequest(t, server, http.MethodGet, "/v1/breeders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "worker-1")
}

func TestCreateBreeder_OKWithGeneratedID(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(scripted{out: backend.Outcome{
		Success: true,
		Data:    json.RawMessage(`{"name":"worker-1","status":"active"}`),
	}})
	rec := doRequest(t, server, http.MethodPost, "/v1/breeders", []byte(`{"name":"worker-1"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "worker-1", created.Name)
	require.Equal(t, "active", created.Status)
}

func TestCreateBreeder_ValidationIs400AndNoBackendCall(t *testing.T) {
	t.Parallel()

	server, invoker := newTestServer()
	rec := doRequest(t, server, http.MethodPost, "/v1/breeders", []byte(`{"name":"has space"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "whitespace")
	require.Zero(t, invoker.calls)
}

func TestCreateBreeder_InvalidJSONIs400(t *testing.T) {
	t.Parallel()

	server, invoker := newTestServer()
	rec := doRequest(t, server, http.MethodPost, "/v1/breeders", []byte(`{invalid`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, invoker.calls)
}

func TestCreateCredential_UnknownTypeIs400(t *testing.T) {
	t.Parallel()

	server, invoker := newTestServer()
	body := []byte(`{"name":"key","credentialType":"kerberos_ticket"}`)
	rec := doRequest(t, server, http.MethodPost, "/v1/credentials", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Zero(t, invoker.calls)
}

func TestGetBreeder_NotFoundIs404(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(scripted{out: backend.Outcome{Message: "breeder not found"}})
	rec := doRequest(t, server, http.MethodGet, "/v1/breeders/"+testID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "error")
}

func TestGetBreeder_BackendFailureIs502(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(scripted{out: backend.Outcome{Message: "scheduler offline"}})
	rec := doRequest(t, server, http.MethodGet, "/v1/breeders/"+testID, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "scheduler offline")
}

func TestGetBreeder_DispatchErrorIs502(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(scripted{err: &backend.DispatchError{Job: "breeder_get", StatusCode: 500}})
	rec := doRequest(t, server, http.MethodGet, "/v1/breeders/"+testID, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetBreeder_AuthErrorIs502(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(scripted{err: &backend.AuthError{Reason: "login returned status 401"}})
	rec := doRequest(t, server, http.MethodGet, "/v1/breeders/"+testID, nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "authentication")
}

func TestUpdateBreeder_Is501(t *testing.T) {
	t.Parallel()

	server, invoker := newTestServer()
	rec := doRequest(t, server, http.MethodPut, "/v1/breeders/"+testID, []byte(`{"name":"x"}`))
	require.Equal(t, http.StatusNotImplemented, rec.Code)
	require.Zero(t, invoker.calls)
}

func TestUpdateCredential_Is501(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer()
	rec := doRequest(t, server, http.MethodPut, "/v1/credentials/"+testID, []byte(`{}`))
	require.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestDeleteCredential_OK(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(scripted{out: backend.Outcome{
		Success: true,
		Data:    json.RawMessage(`{"success":true,"message":"Credential deleted successfully"}`),
	}})
	rec := doRequest(t, server, http.MethodDelete, "/v1/credentials/"+testID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), testID)
}

func TestStopBreeder_OK(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer(scripted{out: backend.Outcome{
		Success: true,
		Data:    json.RawMessage(`{"breeder_id":"` + testID + `","shutdown_type":"graceful"}`),
	}})
	rec := doRequest(t, server, http.MethodPost, "/v1/breeders/"+testID+"/stop", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "graceful")
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	t.Parallel()

	server, _ := newTestServer()
	rec := doRequest(t, server, http.MethodGet, "/healthz", nil)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
