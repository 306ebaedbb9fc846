package pages

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Thumbnail decodes the scan for the given page and returns a PNG scaled to
// the target width, preserving aspect ratio.
func (l *Library) Thumbnail(page int, width int) ([]byte, error) {
	if width <= 0 {
		return nil, fmt.Errorf("thumbnail width must be positive, got %d", width)
	}

	path, err := l.Path(page)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scan %s: %w", path, err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode scan %s: %w", path, err)
	}

	bounds := img.Bounds()
	originalWidth := bounds.Dx()
	originalHeight := bounds.Dy()
	if originalWidth == 0 || originalHeight == 0 {
		return nil, fmt.Errorf("scan %s has zero dimensions", path)
	}

	targetWidth := width
	targetHeight := int(float64(targetWidth) * float64(originalHeight) / float64(originalWidth))
	if targetHeight < 1 {
		targetHeight = 1
	}

	slog.Debug("scaling scan thumbnail",
		"page", page,
		"format", format,
		"original_width", originalWidth,
		"original_height", originalHeight,
		"target_width", targetWidth,
		"target_height", targetHeight)

	targetImg := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))

	// Nearest-neighbor is plenty for index thumbnails of page scans.
	for y := 0; y < targetHeight; y++ {
		for x := 0; x < targetWidth; x++ {
			srcX := int(float64(x) * float64(originalWidth) / float64(targetWidth))
			srcY := int(float64(y) * float64(originalHeight) / float64(targetHeight))
			if srcX >= originalWidth {
				srcX = originalWidth - 1
			}
			if srcY >= originalHeight {
				srcY = originalHeight - 1
			}
			targetImg.Set(x, y, img.At(bounds.Min.X+srcX, bounds.Min.Y+srcY))
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, targetImg); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail PNG: %w", err)
	}
	return buf.Bytes(), nil
}
