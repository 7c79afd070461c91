package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestMockClient(t *testing.T) {
	t.Run("plain response", func(t *testing.T) {
		c := NewMockClient()
		res, err := c.Chat(context.Background(), &ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if res.Content != "mock response" || !res.Success {
			t.Errorf("unexpected result %+v", res)
		}
		if c.RequestCount() != 1 || c.LastRequest().Messages[0].Content != "hi" {
			t.Error("request was not recorded")
		}
	})

	t.Run("structured response", func(t *testing.T) {
		c := &MockClient{ResponseJSON: json.RawMessage(`{"a":1}`)}
		res, _ := c.Chat(context.Background(), &ChatRequest{ResponseFormat: &ResponseFormat{Type: "json_schema"}})
		if string(res.ParsedJSON) != `{"a":1}` {
			t.Errorf("ParsedJSON = %s", res.ParsedJSON)
		}
	})

	t.Run("failure", func(t *testing.T) {
		c := &MockClient{ShouldFail: true}
		if _, err := c.Chat(context.Background(), &ChatRequest{}); err == nil {
			t.Error("expected error")
		}
	})
}

func TestMockOCRProvider(t *testing.T) {
	p := NewMockOCRProvider()
	p.FailTimes = 1

	if _, err := p.ProcessImage(context.Background(), []byte("x"), "image/png"); err == nil {
		t.Error("first call should fail")
	}
	res, err := p.ProcessImage(context.Background(), []byte("x"), "application/pdf")
	if err != nil || res.Text != "mock OCR text" {
		t.Errorf("second call: %v %+v", err, res)
	}
	if got := p.MimeTypes(); len(got) != 2 || got[1] != "application/pdf" {
		t.Errorf("MimeTypes() = %v", got)
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows a burst", func(t *testing.T) {
		limiter := NewRateLimiter(10)
		start := time.Now()
		for i := 0; i < 5; i++ {
			if err := limiter.Wait(context.Background()); err != nil {
				t.Fatalf("request %d failed: %v", i, err)
			}
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("took too long: %v", elapsed)
		}
	})

	t.Run("fractional rate still allows one request", func(t *testing.T) {
		limiter := NewRateLimiter(0.1)
		if !limiter.TryConsume() {
			t.Error("first TryConsume should succeed")
		}
		if limiter.TryConsume() {
			t.Error("second TryConsume should fail")
		}
	})

	t.Run("record 429 drains tokens", func(t *testing.T) {
		limiter := NewRateLimiter(5)
		limiter.Record429()
		status := limiter.Status()
		if status.Last429.IsZero() {
			t.Error("Last429 should be set")
		}
		if status.TokensAvailable >= 1 {
			t.Errorf("tokens = %f, want < 1", status.TokensAvailable)
		}
	})

	t.Run("respects cancellation", func(t *testing.T) {
		limiter := NewRateLimiter(0.01)
		limiter.Wait(context.Background())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := limiter.Wait(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("concurrent requests", func(t *testing.T) {
		limiter := NewRateLimiter(100)
		var wg sync.WaitGroup
		var failures atomic.Int32
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := limiter.Wait(context.Background()); err != nil {
					failures.Add(1)
				}
			}()
		}
		wg.Wait()
		if failures.Load() > 0 {
			t.Errorf("had %d errors", failures.Load())
		}
		if got := limiter.Status().TotalConsumed; got != 10 {
			t.Errorf("TotalConsumed = %d, want 10", got)
		}
	})
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("2"); got != 2*time.Second {
		t.Errorf("seconds: got %v", got)
	}
	if got := parseRetryAfter(""); got != 0 {
		t.Errorf("empty: got %v", got)
	}
	if got := parseRetryAfter("-5"); got != 0 {
		t.Errorf("negative: got %v", got)
	}
	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 || got > time.Minute {
		t.Errorf("http date: got %v", got)
	}
}

func TestIsRateLimitError(t *testing.T) {
	err := fmt.Errorf("ocr: %w", &RateLimitError{Message: "slow down", StatusCode: 429})
	rle, ok := IsRateLimitError(err)
	if !ok || rle.StatusCode != 429 {
		t.Errorf("IsRateLimitError() = %v, %v", rle, ok)
	}
	if _, ok := IsRateLimitError(errors.New("other")); ok {
		t.Error("plain error reported as rate limit")
	}
}

func TestTestConfig(t *testing.T) {
	cfg := TestConfig{MistralAPIKey: "m"}
	reg := cfg.ToRegistryConfig()
	if _, ok := reg.OCRProviders["mistral"]; !ok {
		t.Error("expected mistral OCR provider")
	}
	if len(reg.LLMProviders) != 0 || reg.TTS.Enabled {
		t.Errorf("unexpected providers: %+v", reg)
	}
}
