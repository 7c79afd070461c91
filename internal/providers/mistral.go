package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	MistralOCRName    = "mistral"
	MistralOCRType    = "mistral-ocr"
	MistralOCRBaseURL = "https://api.mistral.ai/v1"
	MistralOCRModel   = "mistral-ocr-latest"

	// Approximate blended price per page.
	MistralOCRCostPerPage = 0.0012
)

// MistralOCRConfig holds configuration for the Mistral OCR client.
type MistralOCRConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Timeout   time.Duration
	RateLimit float64 // requests per second, default 6
}

// MistralOCRClient implements OCRProvider using the Mistral OCR API. Images go
// as image_url data URLs and PDFs as document_url data URLs; every page of a
// PDF is returned, joined by blank lines.
type MistralOCRClient struct {
	apiKey    string
	baseURL   string
	model     string
	rateLimit float64
	client    *http.Client
}

// NewMistralOCRClient creates a new Mistral OCR client.
func NewMistralOCRClient(cfg MistralOCRConfig) *MistralOCRClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = MistralOCRBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = MistralOCRModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 6.0
	}
	return &MistralOCRClient{
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		model:     cfg.Model,
		rateLimit: cfg.RateLimit,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *MistralOCRClient) Name() string                  { return MistralOCRName }
func (c *MistralOCRClient) SupportsPDF() bool             { return true }
func (c *MistralOCRClient) RequestsPerSecond() float64    { return c.rateLimit }
func (c *MistralOCRClient) MaxRetries() int               { return 3 }
func (c *MistralOCRClient) RetryDelayBase() time.Duration { return 2 * time.Second }

// ProcessImage extracts text from an image or PDF.
func (c *MistralOCRClient) ProcessImage(ctx context.Context, data []byte, mimeType string) (*OCRResult, error) {
	start := time.Now()
	if mimeType == "" {
		mimeType = "image/png"
	}
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)

	doc := mistralDocument{Type: "image_url", ImageURL: &mistralImageURL{URL: dataURL}}
	if mimeType == "application/pdf" {
		doc = mistralDocument{Type: "document_url", DocumentURL: dataURL}
	}

	resp, err := c.doRequest(ctx, "/ocr", mistralOCRRequest{Model: c.model, Document: doc})
	if err != nil {
		return &OCRResult{ErrorMessage: err.Error(), ExecutionTime: time.Since(start)}, err
	}
	if len(resp.Pages) == 0 {
		err := fmt.Errorf("no pages in OCR response")
		return &OCRResult{ErrorMessage: err.Error(), ExecutionTime: time.Since(start)}, err
	}

	texts := make([]string, 0, len(resp.Pages))
	for _, p := range resp.Pages {
		texts = append(texts, strings.TrimSpace(p.Markdown))
	}

	metadata := map[string]any{"model_used": resp.Model}
	if resp.UsageInfo != nil {
		metadata["pages_processed"] = resp.UsageInfo.PagesProcessed
	}

	return &OCRResult{
		Success:       true,
		Text:          strings.Join(texts, "\n\n"),
		Pages:         len(resp.Pages),
		Metadata:      metadata,
		CostUSD:       MistralOCRCostPerPage * float64(len(resp.Pages)),
		ExecutionTime: time.Since(start),
	}, nil
}

func (c *MistralOCRClient) doRequest(ctx context.Context, path string, body any) (*mistralOCRResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{
			Message:    "Mistral OCR rate limited",
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			StatusCode: resp.StatusCode,
		}
	}
	if resp.StatusCode != http.StatusOK {
		var errResp mistralErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("Mistral OCR error (status %d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("Mistral OCR error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var ocrResp mistralOCRResponse
	if err := json.Unmarshal(respBody, &ocrResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &ocrResp, nil
}

type mistralOCRRequest struct {
	Model    string          `json:"model"`
	Document mistralDocument `json:"document"`
}

type mistralDocument struct {
	Type        string           `json:"type"` // "image_url" or "document_url"
	ImageURL    *mistralImageURL `json:"image_url,omitempty"`
	DocumentURL string           `json:"document_url,omitempty"`
}

type mistralImageURL struct {
	URL string `json:"url"`
}

type mistralOCRResponse struct {
	Model     string            `json:"model"`
	Pages     []mistralOCRPage  `json:"pages"`
	UsageInfo *mistralUsageInfo `json:"usage_info,omitempty"`
}

type mistralOCRPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

type mistralUsageInfo struct {
	PagesProcessed int `json:"pages_processed"`
	DocSizeBytes   int `json:"doc_size_bytes,omitempty"`
}

type mistralErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

var _ OCRProvider = (*MistralOCRClient)(nil)
