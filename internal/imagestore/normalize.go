package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decode support
	"io"
	"net/http"

	"github.com/polyphrases/polyphrases/internal/imagegen"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decode support
)

// JPEGQuality is the encoder quality for stored illustrations
const JPEGQuality = 85

// maxDownload caps the size of a fetched image
const maxDownload = 32 << 20

// Fetch returns the raw bytes of a generated image, downloading it when
// the API handed back a URL
func Fetch(ctx context.Context, client *http.Client, img *imagegen.Image) ([]byte, error) {
	if len(img.Data) > 0 {
		return img.Data, nil
	}
	if img.URL == "" {
		return nil, imagegen.ErrNoImage
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, img.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownload))
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	return data, nil
}

// Normalize decodes data and re-encodes it as JPEG, scaling it down to
// maxWidth while keeping the aspect ratio. maxWidth <= 0 disables scaling.
func Normalize(data []byte, maxWidth int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var out image.Image = src
	if maxWidth > 0 && width > maxWidth {
		newHeight := int(float64(height) * float64(maxWidth) / float64(width))
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		out = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
