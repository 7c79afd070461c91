package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jackzampolin/formassist/internal/providers"
)

var (
	// ErrUnsupported is returned for files that are not PDF, image, HTML or text.
	ErrUnsupported = errors.New("unsupported document type")
	// ErrNoText is returned when a document yields no text at all.
	ErrNoText = errors.New("no text found in document")
	// ErrNoOCRProvider is returned when an image needs OCR and none is configured.
	ErrNoOCRProvider = errors.New("no OCR provider configured")
)

// DefaultMinPDFText is the text-layer length below which a PDF is treated
// as scanned.
const DefaultMinPDFText = 20

const maxOCRDelay = 30 * time.Second

// Sources of extracted text besides OCR provider names.
const (
	SourceText    = "text"
	SourceHTML    = "html"
	SourcePDFText = "pdf-text"
)

// OCRChain supplies OCR providers in the order they should be tried.
// *providers.Registry satisfies it.
type OCRChain interface {
	OCRChain() []providers.OCRProvider
}

// Config configures an Extractor.
type Config struct {
	// MinPDFText is the trimmed text-layer length below which OCR is tried.
	MinPDFText int
	Logger     *slog.Logger
}

// Result is the text of one document.
type Result struct {
	Text   string `json:"text"`
	Kind   Kind   `json:"kind"`
	Source string `json:"source"`
	Pages  int    `json:"pages,omitempty"`
}

// Extractor acquires text from uploaded documents.
type Extractor struct {
	ocr        OCRChain
	minPDFText int
	logger     *slog.Logger

	mu       sync.Mutex
	limiters map[string]*providers.RateLimiter
}

// NewExtractor creates an Extractor. ocr may be nil, in which case images
// fail with ErrNoOCRProvider and scanned PDFs with ErrNoText.
func NewExtractor(ocr OCRChain, cfg Config) *Extractor {
	if cfg.MinPDFText <= 0 {
		cfg.MinPDFText = DefaultMinPDFText
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Extractor{
		ocr:        ocr,
		minPDFText: cfg.MinPDFText,
		logger:     cfg.Logger,
		limiters:   make(map[string]*providers.RateLimiter),
	}
}

// SetMinPDFText changes the scanned-PDF threshold. Used on config reload.
func (e *Extractor) SetMinPDFText(n int) {
	if n <= 0 {
		n = DefaultMinPDFText
	}
	e.mu.Lock()
	e.minPDFText = n
	e.mu.Unlock()
}

// Text returns the text content of data.
func (e *Extractor) Text(ctx context.Context, data []byte, filename string) (*Result, error) {
	kind := Detect(data, filename)
	switch kind {
	case KindText:
		text := plainText(data)
		if strings.TrimSpace(text) == "" {
			return nil, ErrNoText
		}
		return &Result{Text: text, Kind: kind, Source: SourceText}, nil
	case KindHTML:
		text := htmlText(data)
		if strings.TrimSpace(text) == "" {
			return nil, ErrNoText
		}
		return &Result{Text: text, Kind: kind, Source: SourceHTML}, nil
	case KindPDF:
		return e.pdf(ctx, data)
	case KindImage:
		return e.image(ctx, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filename)
	}
}

func (e *Extractor) pdf(ctx context.Context, data []byte) (*Result, error) {
	res := &Result{Kind: KindPDF, Source: SourcePDFText}
	if n, err := pdfPageCount(data); err != nil {
		e.logger.Warn("pdf page count failed", "error", err)
	} else {
		res.Pages = n
	}

	text, err := pdfTextLayer(data)
	if err != nil {
		e.logger.Warn("pdf text layer unreadable", "error", err)
	}
	res.Text = strings.TrimSpace(text)

	e.mu.Lock()
	minText := e.minPDFText
	e.mu.Unlock()
	if len([]rune(res.Text)) >= minText {
		return res, nil
	}

	var pdfProviders []providers.OCRProvider
	for _, p := range e.chain() {
		if p.SupportsPDF() {
			pdfProviders = append(pdfProviders, p)
		}
	}
	if len(pdfProviders) > 0 {
		ocrText, source, err := e.runChain(ctx, pdfProviders, data, "application/pdf")
		if err == nil && ocrText != "" {
			res.Text = ocrText
			res.Source = source
			return res, nil
		}
		if err != nil {
			e.logger.Warn("pdf OCR failed, keeping text layer", "error", err)
		}
	}

	if res.Text == "" {
		return nil, ErrNoText
	}
	return res, nil
}

func (e *Extractor) image(ctx context.Context, data []byte) (*Result, error) {
	chain := e.chain()
	if len(chain) == 0 {
		return nil, ErrNoOCRProvider
	}
	img, mime, err := ocrImage(data)
	if err != nil {
		return nil, err
	}
	text, source, err := e.runChain(ctx, chain, img, mime)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, ErrNoText
	}
	return &Result{Text: text, Kind: KindImage, Source: source, Pages: 1}, nil
}

func (e *Extractor) chain() []providers.OCRProvider {
	if e.ocr == nil {
		return nil
	}
	return e.ocr.OCRChain()
}

// runChain tries providers in order and returns the first non-empty text.
// An error is returned only when every provider failed.
func (e *Extractor) runChain(ctx context.Context, chain []providers.OCRProvider, data []byte, mime string) (string, string, error) {
	var errs []error
	for _, p := range chain {
		text, err := e.runOCR(ctx, p, data, mime)
		if err != nil {
			if ctx.Err() != nil {
				return "", "", ctx.Err()
			}
			e.logger.Warn("OCR provider failed", "provider", p.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if text != "" {
			e.logger.Debug("OCR succeeded", "provider", p.Name(), "chars", len(text))
			return text, p.Name(), nil
		}
	}
	if len(errs) == len(chain) {
		return "", "", fmt.Errorf("all OCR providers failed: %w", errors.Join(errs...))
	}
	return "", "", nil
}

// runOCR calls one provider through its rate limiter, retrying up to its
// retry budget. A Retry-After on a 429 overrides the backoff delay.
func (e *Extractor) runOCR(ctx context.Context, p providers.OCRProvider, data []byte, mime string) (string, error) {
	limiter := e.limiter(p)
	retries := p.MaxRetries()
	if retries < 0 {
		retries = 0
	}

	return retry.DoWithData(
		func() (string, error) {
			if err := limiter.Wait(ctx); err != nil {
				return "", retry.Unrecoverable(err)
			}
			res, err := p.ProcessImage(ctx, data, mime)
			if err != nil {
				if _, ok := providers.IsRateLimitError(err); ok {
					limiter.Record429()
				}
				return "", err
			}
			if res == nil {
				return "", errors.New("empty OCR result")
			}
			if !res.Success && res.ErrorMessage != "" {
				return "", errors.New(res.ErrorMessage)
			}
			return strings.TrimSpace(res.Text), nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(retries+1)),
		retry.Delay(p.RetryDelayBase()),
		retry.MaxDelay(maxOCRDelay),
		retry.DelayType(retryAfterDelay),
		retry.LastErrorOnly(true),
	)
}

func retryAfterDelay(n uint, err error, config *retry.Config) time.Duration {
	if rle, ok := providers.IsRateLimitError(err); ok && rle.RetryAfter > 0 {
		return rle.RetryAfter
	}
	return retry.BackOffDelay(n, err, config)
}

func (e *Extractor) limiter(p providers.OCRProvider) *providers.RateLimiter {
	e.mu.Lock()
	defer e.mu.Unlock()
	rps := p.RequestsPerSecond()
	if rps <= 0 {
		rps = 1
	}
	l, ok := e.limiters[p.Name()]
	if !ok || l.Status().RequestsPerSecond != rps {
		l = providers.NewRateLimiter(rps)
		e.limiters[p.Name()] = l
	}
	return l
}

// plainText decodes data as UTF-8, dropping a BOM and invalid sequences, and
// normalizes line endings to \n.
func plainText(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	text := strings.ToValidUTF8(string(data), "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
