package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"timelapse-server/internal/artifact"
	"timelapse-server/internal/timerange"
)

// Key derives the deterministic cache key for a timelapse request.
// It is computed from the parsed inputs, never from the raw query
// string, so two requests with the same logical parameters hash
// identically regardless of query-parameter order.
func Key(folder string, r timerange.Range, opts artifact.Options) string {
	parts := []string{
		folder,
		r.Start.UTC().Format(time.RFC3339),
		r.End.UTC().Format(time.RFC3339),
		strconv.Itoa(opts.FPS),
		string(opts.Format),
	}
	parts = append(parts, opts.ExtraArgs...)
	return digest(parts)
}

// PosterKey derives the cache key for a poster image. at should be
// quantized by the caller so requests within the same window share a
// key.
func PosterKey(folder string, width int, at time.Time) string {
	return digest([]string{
		"poster",
		folder,
		strconv.Itoa(width),
		at.UTC().Format(time.RFC3339),
	})
}

func digest(parts []string) string {
	// NUL cannot appear in folder names, instants, or numbers, so the
	// joined canonical form is unambiguous.
	sum := md5.Sum([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}
