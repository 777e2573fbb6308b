package artifact

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"timelapse-server/internal/frames"
	"timelapse-server/internal/logging"
)

// buildArchive streams the selected frames into an in-memory zip in
// timestamp order, using the original base filename as the entry name.
// JPEG data does not deflate, so entries are stored uncompressed. An
// archive with zero entries is valid output.
func (b *Builder) buildArchive(name string, selection []frames.Frame) (*Result, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, frame := range selection {
		if err := addArchiveEntry(zw, frame); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveWrite, err)
	}

	logging.Debug("Archived %d frames into %d bytes", len(selection), buf.Len())

	return &Result{
		Bytes:       buf.Bytes(),
		ContentType: "application/zip",
		Filename:    name + ".zip",
	}, nil
}

func addArchiveEntry(zw *zip.Writer, frame frames.Frame) error {
	src, err := os.Open(frame.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveWrite, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			logging.Warn("failed to close frame file %s: %v", frame.Path, err)
		}
	}()

	entry, err := zw.CreateHeader(&zip.FileHeader{
		Name:     filepath.Base(frame.Path),
		Method:   zip.Store,
		Modified: time.Unix(frame.Timestamp, 0),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveWrite, err)
	}

	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("%w: %v", ErrArchiveWrite, err)
	}
	return nil
}
