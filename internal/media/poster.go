package media

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"timelapse-server/internal/logging"

	// Frame decoders for the imaging fallback path. Cameras mostly
	// write JPEG, but the poster endpoint accepts whatever sits in the
	// frame folder.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// PosterContentType is the media type of every generated poster.
const PosterContentType = "image/jpeg"

// posterJPEGQuality balances poster size against visible artifacts.
// Posters are preview images, not archival copies.
const posterJPEGQuality = 80

// GeneratePoster scales the frame at path down to the given width,
// preserving aspect ratio, and returns it encoded as JPEG. It prefers
// libvips for its decode-time shrinking and falls back to a pure-Go
// decode when vips is unavailable or rejects the file.
func GeneratePoster(path string, width int) ([]byte, error) {
	if width < 1 {
		return nil, fmt.Errorf("invalid poster width %d", width)
	}

	if IsVipsAvailable() {
		out, err := vipsPoster(path, width)
		if err == nil {
			return out, nil
		}
		logging.Debug("vips poster failed for %s, falling back to pure-Go decode: %v",
			filepath.Base(path), err)
	}

	return imagingPoster(path, width)
}

// imagingPoster is the pure-Go poster path. It fully decodes the
// frame, so it costs more memory than vips, but it has no native
// dependencies.
func imagingPoster(path string, width int) ([]byte, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}

	if width < img.Bounds().Dx() {
		// Height 0 preserves aspect ratio.
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(posterJPEGQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode poster: %w", err)
	}
	return buf.Bytes(), nil
}

// Dimensions holds a frame's pixel width and height.
type Dimensions struct {
	Width  int
	Height int
}

// GetDimensions reads a frame's dimensions from its header without
// decoding the pixel data.
func GetDimensions(path string) (*Dimensions, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close frame file %s: %v", path, err)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return nil, err
	}
	return &Dimensions{Width: config.Width, Height: config.Height}, nil
}
