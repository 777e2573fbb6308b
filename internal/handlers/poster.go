package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"timelapse-server/internal/artifact"
	"timelapse-server/internal/cache"
	"timelapse-server/internal/frames"
	"timelapse-server/internal/media"
	"timelapse-server/internal/metrics"
	"timelapse-server/internal/streaming"

	"github.com/gorilla/mux"
)

const (
	defaultPosterWidth = 640
	minPosterWidth     = 16
	maxPosterWidth     = 4096

	// posterQuantum groups poster requests into quarter-hour buckets so
	// cache keys repeat while new frames keep arriving. Matches the
	// relative-window quantization and the response max-age.
	posterQuantum = 15 * time.Minute
)

// Poster serves the most recent frame of a folder as a resized JPEG.
func (h *Handlers) Poster(w http.ResponseWriter, r *http.Request) {
	folder := mux.Vars(r)["folder"]
	dir, err := h.folderPath(folder)
	if err != nil {
		handleError(w, err)
		return
	}

	width := posterWidth(r)
	key := cache.PosterKey(folder, width, time.Now().Truncate(posterQuantum))

	entry, err := h.cache.GetOrGenerate(r.Context(), key, func() (*cache.Entry, error) {
		frame, ok, err := frames.Newest(dir)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("no frames in %s: %w", folder, artifact.ErrNoFrames)
		}

		start := time.Now()
		data, err := media.GeneratePoster(frame.Path, width)
		metrics.GenerationDuration.WithLabelValues("poster").Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.GenerationsTotal.WithLabelValues("poster", "error").Inc()
			return nil, err
		}
		metrics.GenerationsTotal.WithLabelValues("poster", "success").Inc()

		return &cache.Entry{
			Bytes:       data,
			ContentType: media.PosterContentType,
			Filename:    folder + "-poster.jpg",
		}, nil
	})
	if err != nil {
		handleError(w, err)
		return
	}

	streaming.Serve(w, r, entry.Bytes, entry.ContentType, entry.Filename)
}

// posterWidth reads the width query parameter, clamping it to sane
// bounds. Unlike fps, an unparsable width falls back to the default;
// posters are previews and precision is not worth a client error.
func posterWidth(r *http.Request) int {
	raw := r.URL.Query().Get("width")
	if raw == "" {
		return defaultPosterWidth
	}
	width, err := strconv.Atoi(raw)
	if err != nil {
		return defaultPosterWidth
	}
	if width < minPosterWidth {
		return minPosterWidth
	}
	if width > maxPosterWidth {
		return maxPosterWidth
	}
	return width
}
