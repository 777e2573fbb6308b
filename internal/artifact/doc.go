/*
Package artifact generates timelapse artifacts from frame selections:
MP4 videos via the external ffmpeg encoder, and zip archives of the
raw frames.

# Video Path

The video path stages a concat-demuxer manifest (one "file '<path>'"
line per frame in timestamp order) inside a scoped temporary directory
and invokes:

	ffmpeg -y -f concat -safe 0 -r <fps> -i frames.txt \
	    -c:v libx264 -pix_fmt yuv420p -movflags +faststart \
	    [extra args...] out.mp4

Caller-supplied extra arguments are appended after the defaults and
before the output path. ffmpeg's last-wins argument handling means they
can override any default. The passthrough is verbatim: callers that
accept these arguments from untrusted input are exposing an explicit
trust boundary.

The temporary directory is removed on every exit path, including
encoder failure and timeout. Each run has a wall-clock limit after
which the process is killed and the build fails with
ErrEncodingTimeout. A nonzero exit or a zero-byte output yields an
*EncodingError carrying the exit code and the tail of stderr.

# Archive Path

The archive path writes each frame into an in-memory zip in timestamp
order, stored uncompressed (JPEG data does not deflate). Unlike the
video path it accepts an empty selection: a zip with zero entries is
valid output.

# Process Management

The Builder tracks every running encoder process in a mutex-guarded
map. Cleanup kills whatever is still running, which the shutdown path
uses so no orphaned ffmpeg survives the server. Concurrent encodes are
bounded by a semaphore sized from internal/workers.
*/
package artifact
