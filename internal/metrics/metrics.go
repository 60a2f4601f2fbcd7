// Package metrics holds the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriclaude",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nutriclaude",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   []float64{.005, .025, .1, .25, 1, 2.5, 5, 15, 30, 60},
		},
		[]string{"route"},
	)

	// Intake counts message intake results: staged, provider_error, malformed,
	// no_valid_entries, nothing_to_log, error.
	Intake = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriclaude",
			Name:      "intake_total",
			Help:      "Message intake results.",
		},
		[]string{"result"},
	)

	PanicsRecovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nutriclaude",
			Name:      "http_panics_recovered_total",
			Help:      "Handler panics turned into 500 responses.",
		},
	)

	EntriesStaged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriclaude",
			Name:      "entries_staged_total",
			Help:      "Entries staged for confirmation by kind.",
		},
		[]string{"kind"},
	)

	// Transitions counts confirm and reject calls by outcome.
	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nutriclaude",
			Name:      "pending_transitions_total",
			Help:      "Confirm and reject calls by action and outcome.",
		},
		[]string{"action", "outcome"},
	)
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency under the matched route template.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		httpRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(rec.code)).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
