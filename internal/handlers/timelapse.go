package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"timelapse-server/internal/artifact"
	"timelapse-server/internal/cache"
	"timelapse-server/internal/frames"
	"timelapse-server/internal/metrics"
	"timelapse-server/internal/streaming"
	"timelapse-server/internal/timerange"

	"github.com/gorilla/mux"
)

var errInvalidFPS = errors.New("fps must be a positive integer")

// maxFPS caps the fps query parameter. ffmpeg accepts higher rates but
// nothing above this produces a watchable timelapse.
const maxFPS = 240

// LastDay serves a timelapse of the last 24 hours.
func (h *Handlers) LastDay(w http.ResponseWriter, r *http.Request) {
	h.serveTimelapse(w, r, timerange.LastHours(24))
}

// LastTwoDays serves a timelapse of the last 48 hours.
func (h *Handlers) LastTwoDays(w http.ResponseWriter, r *http.Request) {
	h.serveTimelapse(w, r, timerange.LastHours(48))
}

// LastWeek serves a timelapse of the last 7 days.
func (h *Handlers) LastWeek(w http.ResponseWriter, r *http.Request) {
	h.serveTimelapse(w, r, timerange.Week())
}

// Day serves a timelapse of a single calendar day in the server's
// local timezone.
func (h *Handlers) Day(w http.ResponseWriter, r *http.Request) {
	rng, err := timerange.Day(mux.Vars(r)["date"])
	if err != nil {
		handleError(w, err)
		return
	}
	h.serveTimelapse(w, r, rng)
}

// Between serves a timelapse for an explicit half-open window.
func (h *Handlers) Between(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	rng, err := timerange.Between(vars["from"], vars["to"])
	if err != nil {
		handleError(w, err)
		return
	}
	h.serveTimelapse(w, r, rng)
}

// serveTimelapse is the shared request pipeline: validate input, select
// frames, then serve through the single-flight cache. Validation runs
// before any cache interaction so a 4xx never triggers generation.
func (h *Handlers) serveTimelapse(w http.ResponseWriter, r *http.Request, rng timerange.Range) {
	opts, err := parseOptions(r)
	if err != nil {
		handleError(w, err)
		return
	}

	folder := mux.Vars(r)["folder"]
	dir, err := h.folderPath(folder)
	if err != nil {
		handleError(w, err)
		return
	}

	selection, err := frames.Select(dir, rng)
	if err != nil {
		handleError(w, err)
		return
	}
	if len(selection) == 0 {
		handleError(w, fmt.Errorf("no frames in %s for %s: %w", folder, rng, artifact.ErrNoFrames))
		return
	}
	metrics.FramesSelected.Observe(float64(len(selection)))

	key := cache.Key(folder, rng, opts)
	entry, err := h.cache.GetOrGenerate(r.Context(), key, func() (*cache.Entry, error) {
		// Generation runs on a detached context: a client that
		// disconnects must not abort work other waiters share.
		result, err := h.builder.Build(context.Background(), folder, selection, opts)
		if err != nil {
			return nil, err
		}
		return &cache.Entry{
			Bytes:       result.Bytes,
			ContentType: result.ContentType,
			Filename:    result.Filename,
		}, nil
	})
	if err != nil {
		handleError(w, err)
		return
	}

	streaming.Serve(w, r, entry.Bytes, entry.ContentType, entry.Filename)
}

// parseOptions reads fps, format and ffmpeg_args from the query
// string. Absent parameters take defaults; a present but invalid fps
// is a client error, never silently corrected.
func parseOptions(r *http.Request) (artifact.Options, error) {
	opts := artifact.DefaultOptions()
	query := r.URL.Query()

	if raw := query.Get("fps"); raw != "" {
		fps, err := strconv.Atoi(raw)
		if err != nil || fps < 1 || fps > maxFPS {
			return opts, fmt.Errorf("fps %q: %w", raw, errInvalidFPS)
		}
		opts.FPS = fps
	}

	if query.Get("format") == "zip" {
		opts.Format = artifact.FormatArchive
	}

	if raw := query.Get("ffmpeg_args"); raw != "" {
		for _, arg := range strings.Split(raw, ",") {
			if arg = strings.TrimSpace(arg); arg != "" {
				opts.ExtraArgs = append(opts.ExtraArgs, arg)
			}
		}
	}

	return opts, nil
}

// folderPath resolves a folder name inside the output root, rejecting
// anything that would escape it. Traversal attempts and unknown
// folders are indistinguishable to the client.
func (h *Handlers) folderPath(folder string) (string, error) {
	if folder == "" || folder == "." || folder == ".." ||
		strings.ContainsAny(folder, `/\`) {
		return "", fmt.Errorf("folder %q: %w", folder, frames.ErrFolderNotFound)
	}

	dir := filepath.Join(h.config.OutputFolder, folder)
	if !strings.HasPrefix(dir, h.config.OutputFolder+string(filepath.Separator)) {
		return "", fmt.Errorf("folder %q: %w", folder, frames.ErrFolderNotFound)
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("folder %q: %w", folder, frames.ErrFolderNotFound)
	}

	return dir, nil
}
