package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	OpenAITTSName         = "openai"
	openAITTSDefaultModel = "gpt-4o-mini-tts"
	openAITTSDefaultVoice = "alloy"
)

// languageNames maps the language codes the form UI sends to the names used
// in speaking instructions.
var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"mr": "Marathi",
	"bn": "Bengali",
	"ta": "Tamil",
	"te": "Telugu",
	"gu": "Gujarati",
	"kn": "Kannada",
}

// OpenAITTSConfig holds configuration for the OpenAI TTS client.
type OpenAITTSConfig struct {
	APIKey       string
	Model        string  // "gpt-4o-mini-tts" (default), "tts-1", "tts-1-hd"
	Voice        string  // "alloy" (default)
	Speed        float64 // 0.25-4.0
	Instructions string  // extra speaking instructions, gpt-4o-mini-tts only
	MaxRetries   int // negative disables SDK retries
	Timeout      time.Duration
	BaseURL      string       // tests
	HTTPClient   *http.Client // tests
}

// OpenAITTSClient implements TTSProvider with the official OpenAI SDK.
type OpenAITTSClient struct {
	model        string
	voice        string
	speed        float64
	instructions string
	client       openai.Client
}

// NewOpenAITTSClient creates a new OpenAI TTS client.
func NewOpenAITTSClient(cfg OpenAITTSConfig) *OpenAITTSClient {
	if cfg.Model == "" {
		cfg.Model = openAITTSDefaultModel
	}
	if cfg.Voice == "" {
		cfg.Voice = openAITTSDefaultVoice
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1.0
	}
	switch {
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = 2
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAITTSClient{
		model:        cfg.Model,
		voice:        cfg.Voice,
		speed:        cfg.Speed,
		instructions: cfg.Instructions,
		client:       openai.NewClient(opts...),
	}
}

// Name returns the provider identifier.
func (c *OpenAITTSClient) Name() string {
	return OpenAITTSName
}

// Generate converts text to MP3 audio. The request language becomes a
// speaking instruction on models that accept instructions.
func (c *OpenAITTSClient) Generate(ctx context.Context, req *TTSRequest) (*TTSResult, error) {
	start := time.Now()

	if req == nil || strings.TrimSpace(req.Text) == "" {
		err := fmt.Errorf("text is required")
		return &TTSResult{ErrorMessage: err.Error(), ExecutionTime: time.Since(start)}, err
	}
	text := strings.TrimSpace(req.Text)

	voice := strings.TrimSpace(req.Voice)
	if voice == "" {
		voice = c.voice
	}

	params := openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(c.model),
		Voice:          openai.AudioSpeechNewParamsVoice(voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatMP3,
		Speed:          openai.Float(c.speed),
	}
	if instructions := c.instructionsFor(req.Lang); instructions != "" {
		params.Instructions = openai.String(instructions)
	}

	resp, err := c.client.Audio.Speech.New(ctx, params)
	if err != nil {
		err = mapOpenAIError(err)
		return &TTSResult{ErrorMessage: err.Error(), CharCount: len(text), ExecutionTime: time.Since(start)}, err
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		err = fmt.Errorf("failed reading openai audio response: %w", err)
		return &TTSResult{ErrorMessage: err.Error(), CharCount: len(text), ExecutionTime: time.Since(start)}, err
	}

	return &TTSResult{
		Success:       true,
		Audio:         audio,
		Format:        "mp3",
		ContentType:   "audio/mpeg",
		CharCount:     len(text),
		CostUSD:       estimateOpenAITTSCostUSD(c.model, text),
		ExecutionTime: time.Since(start),
	}, nil
}

func (c *OpenAITTSClient) instructionsFor(lang string) string {
	if !strings.HasPrefix(strings.ToLower(c.model), "gpt-4o-mini-tts") {
		return ""
	}
	parts := make([]string, 0, 2)
	if name, ok := languageNames[strings.ToLower(strings.TrimSpace(lang))]; ok {
		parts = append(parts, "Speak in "+name+".")
	}
	if s := strings.TrimSpace(c.instructions); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

func estimateOpenAITTSCostUSD(model, text string) float64 {
	switch strings.ToLower(model) {
	case "tts-1-hd":
		return float64(len(text)) * 0.03 / 1000
	case "tts-1":
		return float64(len(text)) * 0.015 / 1000
	default:
		// gpt-4o-mini-tts is about $0.015 per minute of audio, ~750 chars.
		return float64(len(text)) / 750 * 0.015
	}
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	if apiErr.StatusCode == http.StatusTooManyRequests {
		var retryAfter time.Duration
		if apiErr.Response != nil {
			retryAfter = parseRetryAfter(apiErr.Response.Header.Get("Retry-After"))
		}
		return &RateLimitError{
			Message:    fmt.Sprintf("OpenAI rate limited: %s", apiErr.Message),
			RetryAfter: retryAfter,
			StatusCode: apiErr.StatusCode,
		}
	}
	if apiErr.Message != "" {
		return fmt.Errorf("OpenAI TTS error (status %d): %s", apiErr.StatusCode, apiErr.Message)
	}
	return fmt.Errorf("OpenAI TTS error (status %d)", apiErr.StatusCode)
}

var _ TTSProvider = (*OpenAITTSClient)(nil)
