package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

// statusError is a non-2xx reply from OpenRouter.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("OpenRouter error (status %d): %s", e.code, e.body)
}

// doRequest posts body to OpenRouter. Network errors, 429, 5xx and empty
// choice lists are retried with jittered exponential backoff.
func (c *OpenRouterClient) doRequest(ctx context.Context, path string, body *openRouterRequest) (*openRouterResponse, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	return retry.DoWithData(
		func() (*openRouterResponse, error) {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, retry.Unrecoverable(err)
			}
			return c.send(ctx, path, bodyBytes)
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)),
		retry.Delay(c.retryDelay),
		retry.MaxDelay(10*time.Second),
		retry.MaxJitter(c.retryDelay/2),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
	)
}

func (c *OpenRouterClient) send(ctx context.Context, path string, bodyBytes []byte) (*openRouterResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Title", "formassist")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.Record429()
		return nil, &RateLimitError{
			Message:    "OpenRouter rate limited",
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			StatusCode: resp.StatusCode,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &statusError{code: resp.StatusCode, body: string(respBody)}
	}

	var orResp openRouterResponse
	if err := json.Unmarshal(respBody, &orResp); err != nil {
		return nil, retry.Unrecoverable(fmt.Errorf("failed to unmarshal response: %w", err))
	}
	if orResp.Error != nil {
		return nil, &statusError{code: orResp.Error.status(), body: orResp.Error.Message}
	}
	if len(orResp.Choices) == 0 {
		return nil, fmt.Errorf("empty choices in response (model=%s, id=%s)", orResp.Model, orResp.ID)
	}
	return &orResp, nil
}

func isRetryable(err error) bool {
	if _, ok := IsRateLimitError(err); ok {
		return true
	}
	if se, ok := err.(*statusError); ok {
		return se.code >= 500
	}
	return true
}
