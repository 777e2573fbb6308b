// Package middleware provides HTTP middleware for request logging and
// Prometheus metrics collection.
//
// The metrics middleware records request counts, durations, and
// in-flight gauges labeled by method, normalized route pattern, and
// status. Paths are normalized so folder names and dates never appear
// as label values.
//
// The logging middleware emits one structured log line per request.
// Health check requests are skipped by default; set LOG_HEALTH_CHECKS
// to include them.
package middleware
