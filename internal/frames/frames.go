package frames

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"timelapse-server/internal/logging"
	"timelapse-server/internal/timerange"
)

// ErrFolderNotFound indicates that the requested folder does not exist
// or is not a directory.
var ErrFolderNotFound = errors.New("folder not found")

// Frame is one captured image, named by its capture time.
// Immutable once discovered; listings are recomputed per request
// because the filesystem is the source of truth and may change
// between requests.
type Frame struct {
	Path      string
	Timestamp int64
}

// Select lists the frames of a folder whose timestamps fall within
// [r.Start, r.End), sorted ascending by timestamp with path as the
// tiebreak. Filenames that do not parse as an integer Unix timestamp
// are skipped silently: they are not frames. An empty result is not
// an error; the caller decides whether empty matters.
func Select(folder string, r timerange.Range) ([]Frame, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folder)
		}
		return nil, fmt.Errorf("failed to read folder %s: %w", folder, err)
	}

	var selected []Frame
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		ts, ok := parseTimestamp(entry.Name())
		if !ok {
			logging.Debug("Skipping non-timestamp file: %s", entry.Name())
			continue
		}
		if !r.Contains(ts) {
			continue
		}
		selected = append(selected, Frame{
			Path:      filepath.Join(folder, entry.Name()),
			Timestamp: ts,
		})
	}

	sort.Slice(selected, func(i, j int) bool {
		if selected[i].Timestamp != selected[j].Timestamp {
			return selected[i].Timestamp < selected[j].Timestamp
		}
		return selected[i].Path < selected[j].Path
	})

	return selected, nil
}

// Newest returns the most recently captured frame of a folder. The
// second return value is false when the folder holds no frames at all.
func Newest(folder string) (Frame, bool, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		if os.IsNotExist(err) {
			return Frame{}, false, fmt.Errorf("%w: %s", ErrFolderNotFound, folder)
		}
		return Frame{}, false, fmt.Errorf("failed to read folder %s: %w", folder, err)
	}

	var newest Frame
	found := false
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		ts, ok := parseTimestamp(entry.Name())
		if !ok {
			continue
		}
		path := filepath.Join(folder, entry.Name())
		if !found || ts > newest.Timestamp || (ts == newest.Timestamp && path > newest.Path) {
			newest = Frame{Path: path, Timestamp: ts}
			found = true
		}
	}

	return newest, found, nil
}

// Folders lists the per-camera subfolders of the output root, sorted.
func Folders(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, root)
		}
		return nil, fmt.Errorf("failed to read folder %s: %w", root, err)
	}

	folders := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			folders = append(folders, entry.Name())
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// parseTimestamp extracts the Unix timestamp from a frame filename.
// The extension is stripped first, so both "1700000000.jpg" and a bare
// "1700000000" qualify.
func parseTimestamp(name string) (int64, bool) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	ts, err := strconv.ParseInt(base, 10, 64)
	if err != nil || ts < 0 {
		return 0, false
	}
	return ts, true
}
