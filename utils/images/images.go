// Package images keeps helpers for preparing embedded image resources for
// generated output.
package images

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/jpeg"
	"image/png"
	_ "image/png"
	"mime"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DetectMime sniffs image data returning its MIME type. SVG is textual and
// not covered by magic-number matchers, detect it separately. Empty string
// means the data is not a supported image.
func DetectMime(data []byte) string {
	if IsSVG(data) {
		return "image/svg+xml"
	}
	if t, err := filetype.Image(data); err == nil {
		return t.MIME.Value
	}
	return ""
}

// IsSVG reports whether data looks like an SVG document.
func IsSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("<svg"))
}

// Probe returns pixel dimensions of raster image data without full decoding.
func Probe(data []byte) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("unable to decode image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// MimeToExt returns file extension for common image MIME types.
func MimeToExt(mimeType string) string {
	// Handle common types directly to prefer standard extensions
	switch strings.ToLower(mimeType) {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/bmp":
		return "bmp"
	case "image/svg+xml":
		return "svg"
	case "image/webp":
		return "webp"
	case "image/tiff":
		return "tiff"
	}
	exts, err := mime.ExtensionsByType(mimeType)
	if err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "img"
}

// Downscale resizes raster image data to fit maxWidth preserving aspect
// ratio. Data already narrow enough is returned unchanged. PNG sources stay
// PNG to keep transparency, everything else is re-encoded as JPEG with the
// requested quality.
func Downscale(data []byte, maxWidth, jpegQuality int) ([]byte, error) {
	if maxWidth <= 0 {
		return data, nil
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unable to decode image: %w", err)
	}
	if img.Bounds().Dx() <= maxWidth {
		return data, nil
	}

	resized := imaging.Resize(img, maxWidth, 0, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if format == "png" {
		err = imaging.Encode(buf, resized, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	} else {
		err = imaging.Encode(buf, resized, imaging.JPEG, imaging.JPEGQuality(clampQuality(jpegQuality)))
	}
	if err != nil {
		return nil, fmt.Errorf("unable to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}

func clampQuality(q int) int {
	if q < 40 {
		return jpeg.DefaultQuality
	}
	if q > 100 {
		return 100
	}
	return q
}
