package providers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOpenAITTSGenerateSuccess(t *testing.T) {
	var payload map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/speech" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("unmarshal body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	client := NewOpenAITTSClient(OpenAITTSConfig{
		APIKey:       "test-key",
		Voice:        "coral",
		Instructions: "Speak slowly.",
		BaseURL:      server.URL,
	})

	result, err := client.Generate(context.Background(), &TTSRequest{Text: "  नमस्ते  ", Lang: "hi"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !result.Success || string(result.Audio) != "mp3-bytes" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.ContentType != "audio/mpeg" {
		t.Errorf("content type = %q", result.ContentType)
	}
	if got, _ := payload["input"].(string); got != "नमस्ते" {
		t.Errorf("input = %q, want trimmed text", got)
	}
	if got, _ := payload["voice"].(string); got != "coral" {
		t.Errorf("voice = %q", got)
	}
	if got, _ := payload["instructions"].(string); got != "Speak in Hindi. Speak slowly." {
		t.Errorf("instructions = %q", got)
	}
}

func TestOpenAITTSInstructionsOnlyForInstructableModels(t *testing.T) {
	client := NewOpenAITTSClient(OpenAITTSConfig{APIKey: "k", Model: "tts-1"})
	if got := client.instructionsFor("hi"); got != "" {
		t.Errorf("tts-1 should not get instructions, got %q", got)
	}
	client = NewOpenAITTSClient(OpenAITTSConfig{APIKey: "k"})
	if got := client.instructionsFor("xx"); got != "" {
		t.Errorf("unknown language produced %q", got)
	}
}

func TestOpenAITTSGenerateRateLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit","type":"rate_limit_error","param":"","code":"rate_limit"}}`))
	}))
	defer server.Close()

	client := NewOpenAITTSClient(OpenAITTSConfig{
		APIKey:     "test-key",
		MaxRetries: -1,
		BaseURL:    server.URL,
	})

	_, err := client.Generate(context.Background(), &TTSRequest{Text: "Hello"})
	rle, ok := IsRateLimitError(err)
	if !ok {
		t.Fatalf("expected RateLimitError, got %T: %v", err, err)
	}
	if rle.RetryAfter != 3*time.Second {
		t.Errorf("expected RetryAfter=3s, got %v", rle.RetryAfter)
	}
}

func TestOpenAITTSGenerateValidation(t *testing.T) {
	client := NewOpenAITTSClient(OpenAITTSConfig{APIKey: "test-key"})
	for _, req := range []*TTSRequest{nil, {Text: "   "}} {
		if _, err := client.Generate(context.Background(), req); err == nil {
			t.Errorf("expected error for %+v", req)
		}
	}
}
