package middleware

import (
	"net/http"
	"time"

	"github.com/crucial707/quote-api/internal/metrics"
)

// Prometheus records request duration and count for each request except scrapes of /metrics.
func Prometheus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		wrap := wrapWriter(w)
		next.ServeHTTP(wrap, r)
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		metrics.RecordRequest(r.Method, path, wrap.status, time.Since(start).Seconds())
	})
}
