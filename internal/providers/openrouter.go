package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	OpenRouterName    = "openrouter"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"
	OpenRouterModel   = "google/gemini-2.0-flash-001"
)

// OpenRouterConfig holds configuration for the OpenRouter client.
type OpenRouterConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
	RPS          float64       // requests per second, default 5
	MaxRetries   int           // attempts per HTTP call, default 3
	RetryDelay   time.Duration // base backoff, default 1s
}

// OpenRouterClient implements LLMClient against the OpenRouter chat
// completions API.
type OpenRouterClient struct {
	apiKey       string
	baseURL      string
	defaultModel string
	client       *http.Client
	limiter      *RateLimiter
	rps          float64
	maxRetries   int
	retryDelay   time.Duration
}

// NewOpenRouterClient creates a new OpenRouter client.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenRouterBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = OpenRouterModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.RPS == 0 {
		cfg.RPS = 5
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	return &OpenRouterClient{
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		defaultModel: cfg.DefaultModel,
		client:       &http.Client{Timeout: cfg.Timeout},
		limiter:      NewRateLimiter(cfg.RPS),
		rps:          cfg.RPS,
		maxRetries:   cfg.MaxRetries,
		retryDelay:   cfg.RetryDelay,
	}
}

// Name returns the client identifier.
func (c *OpenRouterClient) Name() string {
	return OpenRouterName
}

// Model returns the default model.
func (c *OpenRouterClient) Model() string {
	return c.defaultModel
}

// Chat sends a chat completion request. When req.ResponseFormat is set the
// reply is parsed as JSON and validated against the schema; invalid replies
// are sent back to the model with the validation error, up to
// maxStructuredRepairAttempts times.
func (c *OpenRouterClient) Chat(ctx context.Context, req *ChatRequest) (*ChatResult, error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}
	model := req.Model
	if model == "" {
		model = c.defaultModel
	}

	orReq := openRouterRequest{
		Model:       model,
		Messages:    make([]openRouterMessage, 0, len(req.Messages)+2),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	for _, m := range req.Messages {
		orReq.Messages = append(orReq.Messages, openRouterMessage{Role: m.Role, Content: m.Content})
	}
	if req.ResponseFormat != nil {
		orReq.ResponseFormat = &openRouterResponseFormat{
			Type:       req.ResponseFormat.Type,
			JSONSchema: req.ResponseFormat.JSONSchema,
		}
	}

	result := &ChatResult{RequestID: requestID, Provider: OpenRouterName}

	for attempt := 0; ; attempt++ {
		result.Attempts++
		orResp, err := c.doRequest(ctx, "/chat/completions", &orReq)
		if err != nil {
			return c.fail(result, start, "http_error", err)
		}

		content := orResp.Choices[0].Message.Content
		result.Content = content
		result.ModelUsed = orResp.Model
		result.PromptTokens += orResp.Usage.PromptTokens
		result.CompletionTokens += orResp.Usage.CompletionTokens
		result.TotalTokens += orResp.Usage.TotalTokens
		result.CostUSD += orResp.Usage.Cost

		if req.ResponseFormat == nil {
			break
		}

		parsed, perr := parseStructuredJSON(content)
		if perr == nil {
			perr = validateStructuredJSON(req.ResponseFormat.JSONSchema, parsed)
		}
		if perr == nil {
			result.ParsedJSON = parsed
			break
		}
		if attempt >= maxStructuredRepairAttempts {
			return c.fail(result, start, "structured_output", perr)
		}
		orReq.Messages = append(orReq.Messages,
			openRouterMessage{Role: "assistant", Content: content},
			openRouterMessage{Role: "user", Content: structuredRepairPrompt(req.ResponseFormat.JSONSchema, perr)},
		)
	}

	result.Success = true
	result.ExecutionTime = time.Since(start)
	return result, nil
}

func (c *OpenRouterClient) fail(result *ChatResult, start time.Time, kind string, err error) (*ChatResult, error) {
	result.Success = false
	result.ErrorType = kind
	result.ErrorMessage = err.Error()
	result.ExecutionTime = time.Since(start)
	return result, fmt.Errorf("openrouter: %w", err)
}

var _ LLMClient = (*OpenRouterClient)(nil)
