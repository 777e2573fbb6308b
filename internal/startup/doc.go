// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// The following environment variables are supported:
//
//   - OUTPUT_FOLDER: Path to the directory of frame folders (required)
//   - PORT: HTTP server port (default: 8102)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable the metrics server (default: true)
//   - CACHE_CAPACITY: Maximum number of cached artifacts (default: 10)
//   - FFMPEG_PATH: Path to the ffmpeg binary (default: ffmpeg)
//   - FFMPEG_TIMEOUT: Wall-clock limit per encode as a Go duration (default: 5m)
//   - FFMPEG_WORKERS: Override for concurrent encode slots (default: one per CPU)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: false)
//
// OUTPUT_FOLDER must exist and be a directory; each subdirectory inside
// it is a camera's frame folder. It is never created or written to.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides structured logging functions for consistent output:
//   - [LogEncoderInit]: Encoder setup and FFmpeg availability
//   - [LogHTTPRoutes]: Registered HTTP routes (debug level)
//   - [LogServerStarted]: Server endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
package startup
