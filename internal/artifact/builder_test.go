package artifact

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"timelapse-server/internal/frames"
)

// fakeEncoder writes a shell script standing in for ffmpeg and returns
// its path. The script receives the exact argument vector the builder
// would hand the real encoder.
func fakeEncoder(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake encoder scripts require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("failed to write fake encoder: %v", err)
	}
	return path
}

// testFrames creates on-disk frames and returns them in timestamp order.
func testFrames(t *testing.T, timestamps ...int64) []frames.Frame {
	t.Helper()
	dir := t.TempDir()

	list := make([]frames.Frame, 0, len(timestamps))
	for _, ts := range timestamps {
		name := strconv.FormatInt(ts, 10) + ".jpg"
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("jpeg-"+name), 0o644); err != nil {
			t.Fatalf("failed to create frame: %v", err)
		}
		list = append(list, frames.Frame{Path: path, Timestamp: ts})
	}
	return list
}

func TestBuildVideoSuccess(t *testing.T) {
	encoder := fakeEncoder(t, `for out; do :; done; printf 'MP4DATA' > "$out"`)
	b := NewBuilder(encoder, time.Minute, 1)

	result, err := b.Build(context.Background(), "garden", testFrames(t, 100, 200), DefaultOptions())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if string(result.Bytes) != "MP4DATA" {
		t.Errorf("Expected encoder output bytes, got %q", result.Bytes)
	}
	if result.ContentType != "video/mp4" {
		t.Errorf("Expected video/mp4, got %s", result.ContentType)
	}
	if result.Filename != "garden.mp4" {
		t.Errorf("Expected garden.mp4, got %s", result.Filename)
	}
}

func TestBuildVideoArgumentOrder(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	t.Setenv("ARGS_FILE", argsFile)

	encoder := fakeEncoder(t, `echo "$@" > "$ARGS_FILE"; for out; do :; done; printf 'x' > "$out"`)
	b := NewBuilder(encoder, time.Minute, 1)

	opts := Options{FPS: 5, Format: FormatVideo, ExtraArgs: []string{"-vf", "scale=640:-2"}}
	if _, err := b.Build(context.Background(), "garden", testFrames(t, 100), opts); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	raw, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("failed to read captured args: %v", err)
	}
	args := strings.Fields(string(raw))

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-f concat -safe 0 -r 5 -i") {
		t.Errorf("Expected concat demuxer defaults, got %q", joined)
	}

	// Extra args come after the defaults and before the output path,
	// so ffmpeg's last-wins handling lets them override defaults.
	extraIdx := indexOf(args, "-vf")
	faststartIdx := indexOf(args, "+faststart")
	if extraIdx == -1 || faststartIdx == -1 {
		t.Fatalf("Missing expected arguments in %q", joined)
	}
	if extraIdx < faststartIdx {
		t.Errorf("Expected extra args after defaults, got %q", joined)
	}
	if !strings.HasSuffix(args[len(args)-1], "out.mp4") {
		t.Errorf("Expected output path as the final argument, got %q", args[len(args)-1])
	}
}

func TestBuildVideoManifestOrder(t *testing.T) {
	manifestCopy := filepath.Join(t.TempDir(), "manifest")
	t.Setenv("MANIFEST_COPY", manifestCopy)

	script := `prev=""
for a; do
  if [ "$prev" = "-i" ]; then cp "$a" "$MANIFEST_COPY"; fi
  prev="$a"
done
for out; do :; done
printf 'x' > "$out"`
	encoder := fakeEncoder(t, script)
	b := NewBuilder(encoder, time.Minute, 1)

	selection := testFrames(t, 100, 200, 300)
	if _, err := b.Build(context.Background(), "garden", selection, DefaultOptions()); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	raw, err := os.ReadFile(manifestCopy)
	if err != nil {
		t.Fatalf("failed to read manifest copy: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != len(selection) {
		t.Fatalf("Expected %d manifest lines, got %d", len(selection), len(lines))
	}
	for i, frame := range selection {
		if !strings.HasPrefix(lines[i], "file '") || !strings.Contains(lines[i], filepath.Base(frame.Path)) {
			t.Errorf("Line %d: expected quoted entry for %s, got %q", i, frame.Path, lines[i])
		}
	}
}

func TestBuildVideoEncoderFailure(t *testing.T) {
	encoder := fakeEncoder(t, `echo "boom: simulated encoder failure" >&2; exit 3`)
	b := NewBuilder(encoder, time.Minute, 1)

	_, err := b.Build(context.Background(), "garden", testFrames(t, 100), DefaultOptions())

	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("Expected *EncodingError, got %v", err)
	}
	if encErr.ExitCode != 3 {
		t.Errorf("Expected exit code 3, got %d", encErr.ExitCode)
	}
	if !strings.Contains(encErr.Stderr, "boom") {
		t.Errorf("Expected stderr tail in error, got %q", encErr.Stderr)
	}
}

func TestBuildVideoZeroOutput(t *testing.T) {
	encoder := fakeEncoder(t, `for out; do :; done; : > "$out"`)
	b := NewBuilder(encoder, time.Minute, 1)

	_, err := b.Build(context.Background(), "garden", testFrames(t, 100), DefaultOptions())

	var encErr *EncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("Expected *EncodingError for zero-byte output, got %v", err)
	}
}

func TestBuildVideoTimeout(t *testing.T) {
	encoder := fakeEncoder(t, `sleep 10`)
	b := NewBuilder(encoder, 100*time.Millisecond, 1)

	start := time.Now()
	_, err := b.Build(context.Background(), "garden", testFrames(t, 100), DefaultOptions())

	if !errors.Is(err, ErrEncodingTimeout) {
		t.Fatalf("Expected ErrEncodingTimeout, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Expected the encoder to be killed promptly, took %v", elapsed)
	}
}

func TestBuildVideoNoFrames(t *testing.T) {
	b := NewBuilder("ffmpeg", time.Minute, 1)

	_, err := b.Build(context.Background(), "garden", nil, DefaultOptions())
	if !errors.Is(err, ErrNoFrames) {
		t.Errorf("Expected ErrNoFrames, got %v", err)
	}
}

func TestBuildVideoDefaultsZeroFPS(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	t.Setenv("ARGS_FILE", argsFile)

	encoder := fakeEncoder(t, `echo "$@" > "$ARGS_FILE"; for out; do :; done; printf 'x' > "$out"`)
	b := NewBuilder(encoder, time.Minute, 1)

	opts := Options{Format: FormatVideo} // FPS left zero
	if _, err := b.Build(context.Background(), "garden", testFrames(t, 100), opts); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	raw, _ := os.ReadFile(argsFile)
	if !strings.Contains(string(raw), "-r 20") {
		t.Errorf("Expected default frame rate 20, got %q", raw)
	}
}

func TestBuildArchive(t *testing.T) {
	b := NewBuilder("ffmpeg", time.Minute, 1)
	selection := testFrames(t, 100, 200, 300)

	result, err := b.Build(context.Background(), "garden", selection, Options{Format: FormatArchive})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if result.ContentType != "application/zip" {
		t.Errorf("Expected application/zip, got %s", result.ContentType)
	}
	if result.Filename != "garden.zip" {
		t.Errorf("Expected garden.zip, got %s", result.Filename)
	}

	zr, err := zip.NewReader(bytes.NewReader(result.Bytes), int64(len(result.Bytes)))
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	if len(zr.File) != len(selection) {
		t.Fatalf("Expected %d entries, got %d", len(selection), len(zr.File))
	}

	for i, frame := range selection {
		entry := zr.File[i]
		if entry.Name != filepath.Base(frame.Path) {
			t.Errorf("Entry %d: expected name %s, got %s", i, filepath.Base(frame.Path), entry.Name)
		}
		if entry.Method != zip.Store {
			t.Errorf("Entry %d: expected stored (uncompressed) entry", i)
		}

		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("failed to open entry: %v", err)
		}
		var content bytes.Buffer
		if _, err := content.ReadFrom(rc); err != nil {
			t.Fatalf("failed to read entry: %v", err)
		}
		rc.Close()

		want, _ := os.ReadFile(frame.Path)
		if !bytes.Equal(content.Bytes(), want) {
			t.Errorf("Entry %d: content mismatch", i)
		}
	}
}

func TestBuildArchiveEmptySelectionIsValid(t *testing.T) {
	b := NewBuilder("ffmpeg", time.Minute, 1)

	result, err := b.Build(context.Background(), "garden", nil, Options{Format: FormatArchive})
	if err != nil {
		t.Fatalf("Expected an empty archive to be valid output, got %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(result.Bytes), int64(len(result.Bytes)))
	if err != nil {
		t.Fatalf("failed to open archive: %v", err)
	}
	if len(zr.File) != 0 {
		t.Errorf("Expected zero entries, got %d", len(zr.File))
	}
}

func TestBuildArchiveMissingSourceFile(t *testing.T) {
	b := NewBuilder("ffmpeg", time.Minute, 1)
	missing := []frames.Frame{{Path: filepath.Join(t.TempDir(), "gone.jpg"), Timestamp: 100}}

	_, err := b.Build(context.Background(), "garden", missing, Options{Format: FormatArchive})
	if !errors.Is(err, ErrArchiveWrite) {
		t.Errorf("Expected ErrArchiveWrite, got %v", err)
	}
}

func TestTailWriterKeepsTail(t *testing.T) {
	tw := newTailWriter(8)

	tw.Write([]byte("0123456789abcdef"))
	if got := tw.String(); got != "89abcdef" {
		t.Errorf("Expected last 8 bytes, got %q", got)
	}

	tw.Write([]byte("XY"))
	if got := tw.String(); got != "abcdefXY" {
		t.Errorf("Expected rolling tail, got %q", got)
	}
}

func TestCleanupWithoutProcesses(t *testing.T) {
	b := NewBuilder("ffmpeg", time.Minute, 1)
	b.Cleanup() // must not panic with nothing tracked
}

func indexOf(list []string, value string) int {
	for i, v := range list {
		if v == value {
			return i
		}
	}
	return -1
}
