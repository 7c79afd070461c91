//go:build tesseract

package providers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// TesseractOCR runs OCR in-process with libtesseract. It handles images only.
type TesseractOCR struct {
	langs []string
}

// NewTesseractOCR creates a Tesseract-backed OCR provider.
func NewTesseractOCR(cfg TesseractConfig) (OCRProvider, error) {
	return &TesseractOCR{langs: cfg.languages()}, nil
}

func (t *TesseractOCR) Name() string                  { return TesseractName }
func (t *TesseractOCR) SupportsPDF() bool             { return false }
func (t *TesseractOCR) RequestsPerSecond() float64    { return 4 }
func (t *TesseractOCR) MaxRetries() int               { return 1 }
func (t *TesseractOCR) RetryDelayBase() time.Duration { return 0 }

// ProcessImage extracts text from an image with a fresh Tesseract client.
func (t *TesseractOCR) ProcessImage(ctx context.Context, data []byte, mimeType string) (*OCRResult, error) {
	start := time.Now()
	if mimeType == "application/pdf" {
		err := fmt.Errorf("tesseract cannot read PDFs")
		return &OCRResult{ErrorMessage: err.Error()}, err
	}
	if err := ctx.Err(); err != nil {
		return &OCRResult{ErrorMessage: err.Error()}, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.langs...); err != nil {
		return &OCRResult{ErrorMessage: err.Error()}, fmt.Errorf("failed to set tesseract languages: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return &OCRResult{ErrorMessage: err.Error()}, fmt.Errorf("failed to set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return &OCRResult{ErrorMessage: err.Error()}, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	metadata := map[string]any{"languages": strings.Join(t.langs, "+")}
	return &OCRResult{
		Success:       true,
		Text:          strings.TrimSpace(text),
		Pages:         1,
		Metadata:      metadata,
		ExecutionTime: time.Since(start),
	}, nil
}

var _ OCRProvider = (*TesseractOCR)(nil)
