package streaming

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"timelapse-server/internal/logging"
)

// cacheMaxAge is the client-side cache lifetime for artifact
// responses, in seconds. It matches the quarter-hour quantum used for
// relative time windows.
const cacheMaxAge = 900

// byteRange is a resolved, inclusive byte range within a body.
type byteRange struct {
	start int64
	end   int64
}

func (r byteRange) length() int64 {
	return r.end - r.start + 1
}

// Serve writes body as an HTTP response honoring a single Range
// header. Without a range it responds 200 with the full body; with a
// valid range it responds 206 with exactly the requested slice; with
// an unsatisfiable range it responds 416. Malformed range syntax is
// treated as if no Range header were present, per common server
// tolerance. HEAD requests receive headers only.
//
// body must be immutable for the duration of the call; callers hand in
// cache entries that are never mutated after insertion.
func Serve(w http.ResponseWriter, r *http.Request, body []byte, contentType, filename string) {
	size := int64(len(body))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Accept-Ranges", "bytes")
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", cacheMaxAge))
	if filename != "" {
		w.Header().Set("Content-Disposition", disposition(contentType, filename))
	}

	rng, unsatisfiable := parseRange(r.Header.Get("Range"), size)
	if unsatisfiable {
		w.Header().Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	status := http.StatusOK
	slice := body
	if rng != nil {
		status = http.StatusPartialContent
		slice = body[rng.start : rng.end+1]
		w.Header().Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.start, rng.end, size))
		w.Header().Set("Content-Length", strconv.FormatInt(rng.length(), 10))
	} else {
		w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	}

	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}

	if _, err := w.Write(slice); err != nil {
		// The client went away mid-download; nothing to recover.
		logging.Debug("response write aborted: %v", err)
	}
}

// disposition picks inline viewing for video and download for
// archives.
func disposition(contentType, filename string) string {
	kind := "inline"
	if contentType == "application/zip" {
		kind = "attachment"
	}
	return fmt.Sprintf(`%s; filename="%s"`, kind, filename)
}

// parseRange resolves a Range header against a body of the given size.
// It returns (nil, false) when the header is absent or malformed (both
// mean "serve the full body"), (nil, true) when the range is
// syntactically valid but unsatisfiable, and a clamped range
// otherwise.
//
// Only the first range specifier is honored; multipart ranges are a
// deliberate non-feature for a server that serves single video and
// archive files.
func parseRange(header string, size int64) (*byteRange, bool) {
	if header == "" {
		return nil, false
	}

	const prefix = "bytes="
	if !strings.HasPrefix(header, prefix) {
		return nil, false
	}

	spec := strings.TrimPrefix(header, prefix)
	if i := strings.IndexByte(spec, ','); i >= 0 {
		spec = spec[:i]
	}
	spec = strings.TrimSpace(spec)

	dash := strings.IndexByte(spec, '-')
	if dash < 0 {
		return nil, false
	}

	startStr := strings.TrimSpace(spec[:dash])
	endStr := strings.TrimSpace(spec[dash+1:])

	if startStr == "" {
		// Suffix form "-N": the last N bytes.
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return nil, false
		}
		if n <= 0 {
			return nil, true
		}
		if n > size {
			n = size
		}
		if size == 0 {
			return nil, true
		}
		return &byteRange{start: size - n, end: size - 1}, false
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return nil, false
	}
	if start >= size {
		return nil, true
	}

	end := size - 1
	if endStr != "" {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return nil, false
		}
		if end < start {
			return nil, true
		}
		if end > size-1 {
			end = size - 1
		}
	}

	return &byteRange{start: start, end: end}, false
}
