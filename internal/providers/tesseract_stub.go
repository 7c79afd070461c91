//go:build !tesseract

package providers

import "errors"

// ErrTesseractUnavailable is returned when the binary was built without the
// tesseract build tag.
var ErrTesseractUnavailable = errors.New("tesseract OCR unavailable: rebuild with -tags tesseract")

// NewTesseractOCR always fails in builds without libtesseract.
func NewTesseractOCR(cfg TesseractConfig) (OCRProvider, error) {
	return nil, ErrTesseractUnavailable
}
