package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func chatReply(content string) map[string]any {
	return map[string]any{
		"id":    "gen-1",
		"model": "google/gemini-2.0-flash-001",
		"choices": []map[string]any{{
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15, "cost": 0.001},
	}
}

func testOpenRouter(url string) *OpenRouterClient {
	return NewOpenRouterClient(OpenRouterConfig{
		APIKey:     "test-key",
		BaseURL:    url,
		RPS:        1000,
		RetryDelay: time.Millisecond,
	})
}

func TestOpenRouterClient_Chat(t *testing.T) {
	t.Run("plain reply", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}
			var req openRouterRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Model != OpenRouterModel {
				t.Errorf("model = %q", req.Model)
			}
			json.NewEncoder(w).Encode(chatReply("Hello"))
		}))
		defer server.Close()

		result, err := testOpenRouter(server.URL).Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "Hi"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if !result.Success || result.Content != "Hello" || result.TotalTokens != 15 {
			t.Errorf("result = %+v", result)
		}
		if result.RequestID == "" {
			t.Error("expected generated request id")
		}
	})

	t.Run("retries server errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			json.NewEncoder(w).Encode(chatReply("ok"))
		}))
		defer server.Close()

		result, err := testOpenRouter(server.URL).Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "Hi"}},
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != "ok" || calls.Load() != 2 {
			t.Errorf("content = %q after %d calls", result.Content, calls.Load())
		}
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"bad key"}}`))
		}))
		defer server.Close()

		result, err := testOpenRouter(server.URL).Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "Hi"}},
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", calls.Load())
		}
		if result.Success || result.ErrorType != "http_error" {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("rate limit is surfaced after retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := testOpenRouter(server.URL).Chat(context.Background(), &ChatRequest{
			Messages: []Message{{Role: "user", Content: "Hi"}},
		})
		if _, ok := IsRateLimitError(err); !ok {
			t.Errorf("expected RateLimitError, got %v", err)
		}
	})
}

func TestOpenRouterClient_StructuredOutput(t *testing.T) {
	format, err := JSONSchemaFormat("fields", json.RawMessage(`{
		"type":"object",
		"properties":{"name":{"type":"string"}},
		"required":["name"],
		"additionalProperties":false
	}`))
	if err != nil {
		t.Fatalf("JSONSchemaFormat() error = %v", err)
	}

	t.Run("fenced reply is accepted", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req openRouterRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_schema" {
				t.Errorf("response_format = %+v", req.ResponseFormat)
			}
			json.NewEncoder(w).Encode(chatReply("```json\n{\"name\":\"Asha\"}\n```"))
		}))
		defer server.Close()

		result, err := testOpenRouter(server.URL).Chat(context.Background(), &ChatRequest{
			Messages:       []Message{{Role: "user", Content: "extract"}},
			ResponseFormat: format,
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if string(result.ParsedJSON) != `{"name":"Asha"}` {
			t.Errorf("ParsedJSON = %s", result.ParsedJSON)
		}
	})

	t.Run("invalid reply is repaired", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req openRouterRequest
			json.NewDecoder(r.Body).Decode(&req)
			if calls.Add(1) == 1 {
				json.NewEncoder(w).Encode(chatReply(`{"nom":"Asha"}`))
				return
			}
			last := req.Messages[len(req.Messages)-1]
			if last.Role != "user" || !strings.Contains(last.Content, "does not match schema") {
				t.Errorf("repair message = %+v", last)
			}
			json.NewEncoder(w).Encode(chatReply(`{"name":"Asha"}`))
		}))
		defer server.Close()

		result, err := testOpenRouter(server.URL).Chat(context.Background(), &ChatRequest{
			Messages:       []Message{{Role: "user", Content: "extract"}},
			ResponseFormat: format,
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Attempts != 2 || result.TotalTokens != 30 {
			t.Errorf("attempts = %d, tokens = %d", result.Attempts, result.TotalTokens)
		}
	})

	t.Run("gives up after repair attempts", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			json.NewEncoder(w).Encode(chatReply("not json at all"))
		}))
		defer server.Close()

		result, err := testOpenRouter(server.URL).Chat(context.Background(), &ChatRequest{
			Messages:       []Message{{Role: "user", Content: "extract"}},
			ResponseFormat: format,
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if result.ErrorType != "structured_output" {
			t.Errorf("ErrorType = %q", result.ErrorType)
		}
		if int(calls.Load()) != maxStructuredRepairAttempts+1 {
			t.Errorf("calls = %d", calls.Load())
		}
	})
}

func TestOpenRouterClient_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	cfg := LoadTestConfig()
	if !cfg.HasOpenRouter() {
		t.Skip("OPENROUTER_API_KEY not set")
	}

	client := NewOpenRouterClient(OpenRouterConfig{APIKey: cfg.OpenRouterAPIKey})
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	result, err := client.Chat(ctx, &ChatRequest{
		Messages:  []Message{{Role: "user", Content: "Reply with the single word: ok"}},
		MaxTokens: 10,
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	t.Logf("reply %q from %s", result.Content, result.ModelUsed)
}
