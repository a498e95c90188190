package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// AuthEventsTotal counts register and login attempts by outcome.
	AuthEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_events_total",
			Help: "Register and login attempts by event and outcome",
		},
		[]string{"event", "outcome"},
	)

	// TokenRejectionsTotal counts requests turned away by the bearer token check.
	TokenRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_rejections_total",
			Help: "Requests rejected by token verification, by reason",
		},
		[]string{"reason"},
	)
)

var (
	idPathSegment = regexp.MustCompile(`/([0-9]+|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})(/|$)`)
	initOnce      sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, AuthEventsTotal, TokenRejectionsTotal)
	})
}

// NormalizePath reduces cardinality by replacing numeric and UUID path segments with {id}.
// E.g. /crud/read/3f1d2c6e-2b7a-4c39-8c55-0f9a6b1e7d42 -> /crud/read/{id}.
func NormalizePath(path string) string {
	return idPathSegment.ReplaceAllString(path, "/{id}$2")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordAuth counts a register or login attempt, e.g. RecordAuth("login", "wrong_password").
func RecordAuth(event, outcome string) {
	AuthEventsTotal.WithLabelValues(event, outcome).Inc()
}

// RecordTokenRejection counts a request rejected by the token middleware.
func RecordTokenRejection(reason string) {
	TokenRejectionsTotal.WithLabelValues(reason).Inc()
}
