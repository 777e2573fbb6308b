package artifact

import (
	"errors"
	"fmt"
)

// Format selects the artifact container.
type Format string

const (
	// FormatVideo produces an MP4 timelapse via the external encoder.
	FormatVideo Format = "video"
	// FormatArchive packages the selected frames into a zip file.
	FormatArchive Format = "zip"
)

// DefaultFPS is the input frame rate used when the request does not
// specify one.
const DefaultFPS = 20

// Options control how an artifact is generated from a frame selection.
type Options struct {
	// FPS is the input frame rate for the video path. Must be > 0.
	FPS int
	// Format selects video or archive output.
	Format Format
	// ExtraArgs are caller-supplied encoder arguments, appended after
	// the defaults so they can override them. Passthrough is verbatim:
	// this is a documented trust boundary, not a sanitized input.
	ExtraArgs []string
}

// DefaultOptions returns video output at the default frame rate.
func DefaultOptions() Options {
	return Options{FPS: DefaultFPS, Format: FormatVideo}
}

// Result is a fully materialized artifact ready for caching.
type Result struct {
	Bytes       []byte
	ContentType string
	Filename    string
}

// Sentinel errors for artifact generation.
var (
	// ErrNoFrames indicates that the video path was asked to encode an
	// empty frame selection.
	ErrNoFrames = errors.New("no frames selected")

	// ErrEncodingTimeout indicates that the encoder exceeded its
	// wall-clock limit and was killed.
	ErrEncodingTimeout = errors.New("encoding timed out")

	// ErrArchiveWrite indicates an I/O failure while writing the zip.
	ErrArchiveWrite = errors.New("archive write failed")
)

// EncodingError reports a failed encoder run: a nonzero exit, or a run
// that exited cleanly but produced no output bytes.
type EncodingError struct {
	ExitCode int
	Stderr   string
}

func (e *EncodingError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("encoder failed with exit code %d", e.ExitCode)
	}
	return fmt.Sprintf("encoder failed with exit code %d: %s", e.ExitCode, e.Stderr)
}

// tailWriter keeps the last max bytes written to it. The encoder's
// stderr can run to megabytes on long inputs; only the tail is useful
// in an error message.
type tailWriter struct {
	max int
	buf []byte
}

func newTailWriter(max int) *tailWriter {
	return &tailWriter{max: max}
}

func (t *tailWriter) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if len(t.buf) > t.max {
		t.buf = t.buf[len(t.buf)-t.max:]
	}
	return len(p), nil
}

func (t *tailWriter) String() string {
	return string(t.buf)
}
