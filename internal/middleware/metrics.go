package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"timelapse-server/internal/metrics"
)

// responseWriter wraps http.ResponseWriter to capture status code
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{w, http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// MetricsConfig holds configuration for the metrics middleware
type MetricsConfig struct {
	// SkipPaths are paths that should not be recorded
	SkipPaths []string
}

// DefaultMetricsConfig returns the default metrics configuration
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		SkipPaths: []string{"/metrics", "/healthcheck"},
	}
}

// Metrics returns a middleware that records Prometheus metrics
func Metrics(config MetricsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, path := range config.SkipPaths {
				if strings.HasPrefix(r.URL.Path, path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			wrapped := newMetricsResponseWriter(w)

			start := time.Now()
			next.ServeHTTP(wrapped, r)
			duration := time.Since(start).Seconds()

			path := normalizePath(r.URL.Path)
			status := strconv.Itoa(wrapped.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

// normalizePath maps request paths onto their route patterns so folder
// names and dates never become label values. Unbounded label
// cardinality would blow up the metrics store.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/timelapse/") {
		return path
	}

	segments := strings.Split(strings.TrimPrefix(path, "/timelapse/"), "/")
	switch segments[0] {
	case "24", "48", "1w":
		return "/timelapse/" + segments[0] + "/{folder}"
	case "poster":
		return "/timelapse/poster/{folder}"
	case "day":
		return "/timelapse/day/{date}/{folder}"
	case "from":
		return "/timelapse/from/{from}/to/{to}/{folder}"
	default:
		return "/timelapse/{unknown}"
	}
}
