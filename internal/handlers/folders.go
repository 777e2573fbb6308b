package handlers

import (
	"net/http"

	"timelapse-server/internal/frames"
)

// Folders lists the per-camera subfolders of the output root as a JSON
// array. The list is read from disk on every call; folders appear as
// soon as a camera creates them.
func (h *Handlers) Folders(w http.ResponseWriter, _ *http.Request) {
	folders, err := frames.Folders(h.config.OutputFolder)
	if err != nil {
		handleError(w, err)
		return
	}
	if folders == nil {
		folders = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, folders)
}
