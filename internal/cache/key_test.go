package cache

import (
	"testing"
	"time"

	"timelapse-server/internal/artifact"
	"timelapse-server/internal/timerange"
)

func testRange(t *testing.T) timerange.Range {
	t.Helper()
	r, err := timerange.New(
		time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("invalid test range: %v", err)
	}
	return r
}

func TestKeyDeterministic(t *testing.T) {
	r := testRange(t)
	opts := artifact.Options{FPS: 20, Format: artifact.FormatVideo, ExtraArgs: []string{"-vf", "scale=640:-2"}}

	first := Key("garden", r, opts)
	second := Key("garden", r, opts)
	if first != second {
		t.Errorf("Expected identical keys for identical inputs, got %s and %s", first, second)
	}
}

func TestKeySensitivity(t *testing.T) {
	r := testRange(t)
	base := artifact.Options{FPS: 20, Format: artifact.FormatVideo}
	baseKey := Key("garden", r, base)

	shifted, err := timerange.New(r.Start.Add(time.Hour), r.End)
	if err != nil {
		t.Fatalf("invalid shifted range: %v", err)
	}

	tests := []struct {
		name string
		key  string
	}{
		{"different folder", Key("driveway", r, base)},
		{"different range", Key("garden", shifted, base)},
		{"different fps", Key("garden", r, artifact.Options{FPS: 30, Format: artifact.FormatVideo})},
		{"different format", Key("garden", r, artifact.Options{FPS: 20, Format: artifact.FormatArchive})},
		{"extra args", Key("garden", r, artifact.Options{FPS: 20, Format: artifact.FormatVideo, ExtraArgs: []string{"-an"}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.key == baseKey {
				t.Errorf("Expected a distinct key for %s", tt.name)
			}
		})
	}
}

func TestKeyExtraArgsOrderMatters(t *testing.T) {
	// Argument order changes encoder behavior, so it must change the key.
	r := testRange(t)
	a := Key("garden", r, artifact.Options{FPS: 20, Format: artifact.FormatVideo, ExtraArgs: []string{"-x", "-y"}})
	b := Key("garden", r, artifact.Options{FPS: 20, Format: artifact.FormatVideo, ExtraArgs: []string{"-y", "-x"}})
	if a == b {
		t.Error("Expected distinct keys for reordered extra args")
	}
}

func TestKeyZoneIndependent(t *testing.T) {
	// The same instants expressed in different zones are the same range.
	start := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	utc, err := timerange.New(start, end)
	if err != nil {
		t.Fatalf("invalid range: %v", err)
	}
	offset, err := timerange.New(start.In(time.FixedZone("X", 3600)), end.In(time.FixedZone("X", 3600)))
	if err != nil {
		t.Fatalf("invalid range: %v", err)
	}

	opts := artifact.DefaultOptions()
	if Key("garden", utc, opts) != Key("garden", offset, opts) {
		t.Error("Expected keys to be independent of the zone the instants are expressed in")
	}
}

func TestPosterKey(t *testing.T) {
	at := time.Date(2026, 8, 25, 10, 30, 0, 0, time.UTC)

	if PosterKey("garden", 640, at) != PosterKey("garden", 640, at) {
		t.Error("Expected identical poster keys for identical inputs")
	}
	if PosterKey("garden", 640, at) == PosterKey("garden", 1280, at) {
		t.Error("Expected width to change the poster key")
	}
	if PosterKey("garden", 640, at) == PosterKey("driveway", 640, at) {
		t.Error("Expected folder to change the poster key")
	}

	r := testRange(t)
	if PosterKey("garden", 640, at) == Key("garden", r, artifact.DefaultOptions()) {
		t.Error("Expected poster keys and timelapse keys to occupy distinct namespaces")
	}
}
