// Package timelapseserver documents the timelapse server application lifecycle.
//
// The timelapse server turns folders of timestamp-named JPEG frames
// into on-demand MP4 timelapse videos and zip archives, served over
// HTTP with byte-range support.
//
// # Application Lifecycle
//
// The application follows a structured initialization sequence:
//
//  1. Configuration Loading: Reads environment variables and validates
//     the output folder (the root of per-camera frame folders)
//  2. Image Library: Initializes libvips for poster generation
//  3. Encoder: Verifies ffmpeg and constructs the artifact builder
//     with its concurrency semaphore and process registry
//  4. Cache: Creates the in-memory LRU artifact cache
//  5. HTTP Server Setup: Configures routes, middleware, and starts
//     the main and metrics servers
//  6. Graceful Shutdown: Handles SIGINT/SIGTERM, drains in-flight
//     requests, kills running encoder processes, stops libvips
//
// # HTTP Servers
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 8102):
//     - Timelapse video and archive endpoints
//     - Poster endpoint
//     - Folder listing, health check, version
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//     - Health check endpoint (/healthcheck)
//
// # Environment Variables
//
// See the startup package for the full list. OUTPUT_FOLDER is the only
// required variable.
package timelapseserver
