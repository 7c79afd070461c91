package document

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// ocrImage returns bytes and mime type suitable for an OCR provider. PNG,
// JPEG and GIF pass through; TIFF, BMP and WEBP are re-encoded as PNG since
// not every provider accepts them.
func ocrImage(data []byte) ([]byte, string, error) {
	mime := imageMIME(data)
	var decode func([]byte) (image.Image, error)
	switch mime {
	case "image/png", "image/jpeg", "image/gif":
		return data, mime, nil
	case "image/tiff":
		decode = func(b []byte) (image.Image, error) { return tiff.Decode(bytes.NewReader(b)) }
	case "image/bmp":
		decode = func(b []byte) (image.Image, error) { return bmp.Decode(bytes.NewReader(b)) }
	case "image/webp":
		decode = func(b []byte) (image.Image, error) { return webp.Decode(bytes.NewReader(b)) }
	default:
		// Extension said image but the magic is unknown; let the provider try.
		return data, "image/png", nil
	}

	img, err := decode(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", mime, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), "image/png", nil
}
