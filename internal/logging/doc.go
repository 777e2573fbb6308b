// Package logging provides a simple leveled logging interface for the
// timelapse server, backed by zerolog.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable
// (DEBUG=true is a shortcut for LOG_LEVEL=debug). The printf-style
// helpers cover most call sites; L exposes the underlying logger for
// structured fields.
package logging
