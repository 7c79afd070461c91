package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const MockClientName = "mock"

// MockClient is an LLMClient for tests.
type MockClient struct {
	ShouldFail   bool
	ResponseText string
	// ResponseJSON is returned as both Content and ParsedJSON when the request
	// asks for structured output.
	ResponseJSON json.RawMessage
	// Respond, when set, overrides ResponseText and ResponseJSON.
	Respond func(req *ChatRequest) (string, error)

	mu           sync.Mutex
	requests     []*ChatRequest
	requestCount atomic.Int64
}

// NewMockClient creates a mock client answering "mock response".
func NewMockClient() *MockClient {
	return &MockClient{ResponseText: "mock response"}
}

func (c *MockClient) Name() string { return MockClientName }

// Chat records req and returns the configured response.
func (c *MockClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	count := c.requestCount.Add(1)
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()

	result := &ChatResult{
		RequestID: fmt.Sprintf("mock-%d", count),
		Provider:  MockClientName,
		ModelUsed: req.Model,
		Attempts:  1,
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if c.ShouldFail {
		result.ErrorType = "mock_failure"
		result.ErrorMessage = "mock client configured to fail"
		return result, errors.New("mock client configured to fail")
	}

	content := c.ResponseText
	if req.ResponseFormat != nil && len(c.ResponseJSON) > 0 {
		content = string(c.ResponseJSON)
		result.ParsedJSON = c.ResponseJSON
	}
	if c.Respond != nil {
		var err error
		content, err = c.Respond(req)
		if err != nil {
			result.ErrorMessage = err.Error()
			return result, err
		}
		if req.ResponseFormat != nil {
			if parsed, perr := parseStructuredJSON(content); perr == nil {
				result.ParsedJSON = parsed
			}
		}
	}

	result.Success = true
	result.Content = content
	return result, nil
}

// RequestCount returns the number of requests made.
func (c *MockClient) RequestCount() int64 {
	return c.requestCount.Load()
}

// LastRequest returns the most recent request, or nil.
func (c *MockClient) LastRequest() *ChatRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.requests) == 0 {
		return nil
	}
	return c.requests[len(c.requests)-1]
}

var _ LLMClient = (*MockClient)(nil)

// MockOCRProvider is an OCRProvider for tests.
type MockOCRProvider struct {
	ProviderName string
	ResponseText string
	PDF          bool
	// FailTimes makes the first N calls fail.
	FailTimes int
	// Err is returned by failing calls. Defaults to a generic error.
	Err        error
	Retries    int
	RetryDelay time.Duration

	mu        sync.Mutex
	mimeTypes []string
	calls     atomic.Int64
}

// NewMockOCRProvider creates a mock OCR provider.
func NewMockOCRProvider() *MockOCRProvider {
	return &MockOCRProvider{
		ProviderName: "mock-ocr",
		ResponseText: "mock OCR text",
		Retries:      3,
		RetryDelay:   time.Millisecond,
	}
}

func (p *MockOCRProvider) Name() string                  { return p.ProviderName }
func (p *MockOCRProvider) SupportsPDF() bool             { return p.PDF }
func (p *MockOCRProvider) RequestsPerSecond() float64    { return 1000 }
func (p *MockOCRProvider) MaxRetries() int               { return p.Retries }
func (p *MockOCRProvider) RetryDelayBase() time.Duration { return p.RetryDelay }

// ProcessImage returns ResponseText once FailTimes calls have failed.
func (p *MockOCRProvider) ProcessImage(ctx context.Context, data []byte, mimeType string) (*OCRResult, error) {
	n := p.calls.Add(1)
	p.mu.Lock()
	p.mimeTypes = append(p.mimeTypes, mimeType)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return &OCRResult{ErrorMessage: err.Error()}, err
	}
	if int(n) <= p.FailTimes {
		err := p.Err
		if err == nil {
			err = fmt.Errorf("mock OCR failure %d", n)
		}
		return &OCRResult{ErrorMessage: err.Error()}, err
	}
	return &OCRResult{
		Success:  true,
		Text:     p.ResponseText,
		Pages:    1,
		Metadata: map[string]any{"bytes": len(data)},
	}, nil
}

// Calls returns the number of ProcessImage calls.
func (p *MockOCRProvider) Calls() int64 {
	return p.calls.Load()
}

// MimeTypes returns the mime types passed to ProcessImage, in call order.
func (p *MockOCRProvider) MimeTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.mimeTypes...)
}

var _ OCRProvider = (*MockOCRProvider)(nil)

// MockTTSProvider is a TTSProvider returning "audio:<lang>:<text>".
type MockTTSProvider struct {
	ShouldFail bool
	calls      atomic.Int64
}

func (p *MockTTSProvider) Name() string { return "mock-tts" }

// Generate returns deterministic fake audio.
func (p *MockTTSProvider) Generate(ctx context.Context, req *TTSRequest) (*TTSResult, error) {
	p.calls.Add(1)
	if p.ShouldFail {
		return &TTSResult{ErrorMessage: "mock tts failure"}, errors.New("mock tts failure")
	}
	audio := []byte("audio:" + req.Lang + ":" + req.Text)
	return &TTSResult{
		Success:     true,
		Audio:       audio,
		Format:      "mp3",
		ContentType: "audio/mpeg",
		CharCount:   len(req.Text),
	}, nil
}

// Calls returns the number of Generate calls.
func (p *MockTTSProvider) Calls() int64 {
	return p.calls.Load()
}

var _ TTSProvider = (*MockTTSProvider)(nil)
