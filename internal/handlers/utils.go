package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"timelapse-server/internal/artifact"
	"timelapse-server/internal/frames"
	"timelapse-server/internal/logging"
	"timelapse-server/internal/timerange"
)

// errorResponse is the machine-readable error body. The error field
// carries a snake_case reason, never free text.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeError writes an error response as JSON with the given reason
// and status code.
func writeError(w http.ResponseWriter, reason string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, errorResponse{Error: reason, Status: statusCode})
}

// handleError maps an error from the request pipeline onto the error
// taxonomy and writes the response.
func handleError(w http.ResponseWriter, err error) {
	reason, status := mapError(err)
	if status >= http.StatusInternalServerError {
		logging.Error("request failed: %v", err)
	} else {
		logging.Debug("request rejected: %v", err)
	}
	writeError(w, reason, status)
}

// mapError translates pipeline errors into snake_case reasons and
// status codes. Unknown errors become internal_error.
func mapError(err error) (string, int) {
	var encErr *artifact.EncodingError

	switch {
	case errors.Is(err, timerange.ErrInvalidRange):
		return "invalid_range", http.StatusBadRequest
	case errors.Is(err, timerange.ErrStartAfterEnd):
		return "invalid_time_range", http.StatusBadRequest
	case errors.Is(err, errInvalidFPS):
		return "invalid_fps", http.StatusBadRequest
	case errors.Is(err, frames.ErrFolderNotFound):
		return "folder_not_found", http.StatusNotFound
	case errors.Is(err, artifact.ErrNoFrames):
		return "empty_selection", http.StatusNotFound
	case errors.Is(err, artifact.ErrEncodingTimeout):
		return "encoding_timeout", http.StatusGatewayTimeout
	case errors.Is(err, artifact.ErrArchiveWrite):
		return "archive_write_failed", http.StatusInternalServerError
	case errors.As(err, &encErr):
		return "encoding_failed", http.StatusInternalServerError
	default:
		return "internal_error", http.StatusInternalServerError
	}
}
