package artifact

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"timelapse-server/internal/frames"
	"timelapse-server/internal/logging"
	"timelapse-server/internal/metrics"
)

// stderrTailBytes bounds how much encoder stderr is retained for error
// reporting.
const stderrTailBytes = 4 * 1024

// Builder turns a frame selection into a video or archive artifact.
// It owns the external encoder invocations: concurrent encodes are
// bounded by a semaphore, every run has a wall-clock timeout, and
// running processes are tracked so shutdown can terminate them.
type Builder struct {
	ffmpegPath string
	timeout    time.Duration

	sem chan struct{}

	processes map[string]*exec.Cmd
	processMu sync.Mutex
}

// NewBuilder creates a Builder. ffmpegPath is the encoder binary
// (resolved via PATH when not absolute), timeout is the per-encode
// wall-clock limit, and maxConcurrent bounds simultaneous encoder
// processes.
func NewBuilder(ffmpegPath string, timeout time.Duration, maxConcurrent int) *Builder {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Builder{
		ffmpegPath: ffmpegPath,
		timeout:    timeout,
		sem:        make(chan struct{}, maxConcurrent),
		processes:  make(map[string]*exec.Cmd),
	}
}

// Build generates the artifact for a frame selection. The name becomes
// the base of the download filename. Source frames are read-only; they
// are never moved or deleted.
//
// The caller is expected to pass a context detached from the inbound
// request: a disconnecting client must not abort a generation that
// other requests are waiting on. The wall-clock timeout is applied
// here regardless of the parent context.
func (b *Builder) Build(ctx context.Context, name string, selection []frames.Frame, opts Options) (*Result, error) {
	if opts.FPS <= 0 {
		opts.FPS = DefaultFPS
	}

	kind := string(FormatVideo)
	if opts.Format == FormatArchive {
		kind = string(FormatArchive)
	}

	metrics.GenerationsInFlight.Inc()
	defer metrics.GenerationsInFlight.Dec()

	start := time.Now()
	var result *Result
	var err error

	if opts.Format == FormatArchive {
		result, err = b.buildArchive(name, selection)
	} else {
		result, err = b.buildVideo(ctx, name, selection, opts)
	}

	metrics.GenerationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	switch {
	case err == nil:
		metrics.GenerationsTotal.WithLabelValues(kind, "success").Inc()
	case errors.Is(err, ErrEncodingTimeout):
		metrics.GenerationsTotal.WithLabelValues(kind, "timeout").Inc()
	default:
		metrics.GenerationsTotal.WithLabelValues(kind, "error").Inc()
	}

	return result, err
}

// buildVideo stages a concat-demuxer manifest in a scoped temporary
// directory and runs the encoder against it. The directory is removed
// on every exit path.
func (b *Builder) buildVideo(ctx context.Context, name string, selection []frames.Frame, opts Options) (*Result, error) {
	if len(selection) == 0 {
		return nil, ErrNoFrames
	}

	// Bound concurrent encodes. Waiting respects the caller's context.
	select {
	case b.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-b.sem }()

	workDir, err := os.MkdirTemp("", "timelapse-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder work directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logging.Warn("failed to remove encoder work directory %s: %v", workDir, err)
		}
	}()

	manifestPath := filepath.Join(workDir, "frames.txt")
	if err := writeManifest(manifestPath, selection); err != nil {
		return nil, err
	}
	outputPath := filepath.Join(workDir, "out.mp4")

	// Defaults first, caller args after them: ffmpeg last-wins
	// semantics let ExtraArgs override anything here.
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-r", strconv.Itoa(opts.FPS),
		"-i", manifestPath,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
	}
	args = append(args, opts.ExtraArgs...)
	args = append(args, outputPath)

	runCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, b.ffmpegPath, args...)
	stderr := newTailWriter(stderrTailBytes)
	cmd.Stderr = stderr

	b.processMu.Lock()
	b.processes[workDir] = cmd
	b.processMu.Unlock()
	defer func() {
		b.processMu.Lock()
		delete(b.processes, workDir)
		b.processMu.Unlock()
	}()

	logging.Debug("Encoding %d frames at %d fps: %s %s",
		len(selection), opts.FPS, b.ffmpegPath, strings.Join(args, " "))

	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v", ErrEncodingTimeout, b.timeout)
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return nil, &EncodingError{ExitCode: exitCode, Stderr: stderr.String()}
	}

	output, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, &EncodingError{ExitCode: 0, Stderr: "encoder produced no output file"}
	}
	if len(output) == 0 {
		return nil, &EncodingError{ExitCode: 0, Stderr: "encoder produced zero output bytes"}
	}

	return &Result{
		Bytes:       output,
		ContentType: "video/mp4",
		Filename:    name + ".mp4",
	}, nil
}

// writeManifest writes the concat-demuxer input list, one frame per
// line in timestamp order.
func writeManifest(path string, selection []frames.Frame) error {
	var sb strings.Builder
	for _, frame := range selection {
		abs, err := filepath.Abs(frame.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve frame path %s: %w", frame.Path, err)
		}
		// The concat demuxer treats single quotes as delimiters.
		sb.WriteString("file '")
		sb.WriteString(strings.ReplaceAll(abs, "'", `'\''`))
		sb.WriteString("'\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write encoder manifest: %w", err)
	}
	return nil
}

// Cleanup kills all tracked encoder processes. Called during shutdown.
func (b *Builder) Cleanup() {
	b.processMu.Lock()
	defer b.processMu.Unlock()

	for dir, cmd := range b.processes {
		if cmd.Process != nil {
			logging.Info("Killing encoder process for: %s", dir)
			if err := cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill encoder process for %s: %v", dir, err)
			}
		}
	}
}
