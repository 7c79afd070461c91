// Package providers wraps the remote and local services formassist delegates
// to: OCR engines, chat LLMs and text-to-speech.
package providers

import (
	"context"
	"encoding/json"
	"time"
)

// LLMClient sends chat completion requests.
type LLMClient interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error)

	// Name returns the client identifier (e.g., "openrouter").
	Name() string
}

// OCRProvider turns a scanned page into text.
type OCRProvider interface {
	// Name returns the provider identifier (e.g., "mistral", "tesseract").
	Name() string

	// ProcessImage extracts text from data. mimeType is "application/pdf"
	// for PDFs and an image type otherwise.
	ProcessImage(ctx context.Context, data []byte, mimeType string) (*OCRResult, error)

	// SupportsPDF reports whether whole PDFs may be passed to ProcessImage.
	SupportsPDF() bool

	RequestsPerSecond() float64
	MaxRetries() int
	RetryDelayBase() time.Duration
}

// TTSProvider synthesizes speech.
type TTSProvider interface {
	Name() string
	Generate(ctx context.Context, req *TTSRequest) (*TTSResult, error)
}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// ResponseFormat requests structured output. JSONSchema holds the
// {"name","strict","schema"} wrapper sent to the API.
type ResponseFormat struct {
	Type       string          `json:"type"` // "json_schema"
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

// ChatRequest is a request to an LLM.
type ChatRequest struct {
	Messages []Message `json:"messages"`

	// Model overrides the client default when set.
	Model string `json:"model,omitempty"`

	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`

	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`

	RequestID string `json:"-"`
}

// ChatResult is the outcome of an LLM call.
type ChatResult struct {
	Content string `json:"content"`
	// ParsedJSON is set when ResponseFormat was requested and the output
	// parsed and validated against the schema.
	ParsedJSON json.RawMessage `json:"parsed_json,omitempty"`

	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
	TotalTokens      int     `json:"total_tokens"`
	CostUSD          float64 `json:"cost_usd"`

	Provider  string `json:"provider"`
	ModelUsed string `json:"model_used"`
	RequestID string `json:"request_id"`
	Attempts  int    `json:"attempts"`

	ExecutionTime time.Duration `json:"execution_time"`

	Success      bool   `json:"success"`
	ErrorType    string `json:"error_type,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// OCRResult is the response from an OCR provider.
type OCRResult struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
	Pages   int    `json:"pages"`

	Metadata map[string]any `json:"metadata,omitempty"`

	CostUSD       float64       `json:"cost_usd"`
	ExecutionTime time.Duration `json:"execution_time"`

	ErrorMessage string `json:"error_message,omitempty"`
}

// TTSRequest is a speech synthesis request.
type TTSRequest struct {
	Text string
	// Lang is an ISO 639-1 code such as "en" or "hi".
	Lang   string
	Voice  string
	Format string
}

// TTSResult carries synthesized audio.
type TTSResult struct {
	Success       bool
	Audio         []byte
	Format        string
	ContentType   string
	CharCount     int
	CostUSD       float64
	ExecutionTime time.Duration
	ErrorMessage  string
}
