// Package metrics exposes Prometheus collectors for the facade.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	backendJobsTotal           *prometheus.CounterVec
	backendLoginsTotal         *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "facade_http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "facade_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		backendJobsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "facade_backend_jobs_total",
				Help: "Total number of backend job invocations, labeled by job and outcome.",
			},
			[]string{"job", "outcome"},
		)

		backendLoginsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "facade_backend_logins_total",
				Help: "Total number of backend login attempts, labeled by status.",
			},
			[]string{"status"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveBackendJob increments the backend job counter for the given outcome.
func ObserveBackendJob(job, outcome string) {
	Init()
	backendJobsTotal.WithLabelValues(job, outcome).Inc()
}

// ObserveLogin increments the login counter for the given status.
func ObserveLogin(status string) {
	Init()
	backendLoginsTotal.WithLabelValues(status).Inc()
}
