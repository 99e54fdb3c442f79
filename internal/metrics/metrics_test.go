package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	// A second call must not re-register collectors with the default registry.
	require.NotPanics(t, Init)

	require.NotPanics(t, func() {
		ObserveHTTPRequest(http.MethodGet, "/v1/breeders", http.StatusOK, 5*time.Millisecond)
		ObserveBackendJob("breeder_create", "success")
		ObserveLogin("success")
	})
}

func TestMiddlewareRecordsRequests(t *testing.T) {
	router := chi.NewRouter()
	router.Use(Middleware)
	router.Get("/v1/breeders/{breederID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/breeders/b-1")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	metricsResp := httptest.NewRecorder()
	Handler().ServeHTTP(metricsResp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "facade_http_requests_total")
	require.Contains(t, string(body), `method="GET"`)
	require.Contains(t, string(body), "facade_http_request_duration_seconds")
}
