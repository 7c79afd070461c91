package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Client is an HTTP client for the formassist API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// defaultToken is sent by clients created without WithToken. Set from the
// root command's --token flag.
var defaultToken string

// SetDefaultToken sets the bearer token used by NewClient.
func SetDefaultToken(token string) {
	defaultToken = token
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new API client.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   defaultToken,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute, // OCR of large scans is slow
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET request and decodes the JSON response.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST request with JSON body and decodes the response.
func (c *Client) Post(ctx context.Context, path string, body any, result any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, result)
}

// Put performs a PUT request with JSON body and decodes the response.
func (c *Client) Put(ctx context.Context, path string, body any, result any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, result)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, result any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, result)
}

// File is one part of a multipart upload.
type File struct {
	Field    string
	Filename string
	Data     []byte
}

// Upload posts files as multipart/form-data and decodes the JSON response.
func (c *Client) Upload(ctx context.Context, path string, files []File, result any) error {
	raw, _, err := c.UploadRaw(ctx, path, files)
	if err != nil {
		return err
	}
	return decode(raw, result)
}

// UploadRaw posts files as multipart/form-data and returns the response body
// and content type undecoded. Used for endpoints that answer with a PDF.
func (c *Client) UploadRaw(ctx context.Context, path string, files []File) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form part: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("failed to write form part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, &buf, mw.FormDataContentType())
}

// Raw performs a request with an optional JSON body and returns the response
// body undecoded together with its content type.
func (c *Client) Raw(ctx context.Context, method, path string, body any) ([]byte, string, error) {
	reader, err := jsonBody(body)
	if err != nil {
		return nil, "", err
	}
	contentType := ""
	if reader != nil {
		contentType = "application/json"
	}
	return c.do(ctx, method, path, reader, contentType)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	raw, _, err := c.Raw(ctx, method, path, body)
	if err != nil {
		return err
	}
	return decode(raw, result)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, "", &StatusError{Code: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func jsonBody(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal body: %w", err)
	}
	return bytes.NewReader(b), nil
}

func decode(data []byte, result any) error {
	if result == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var errResp ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return errResp.Error
	}
	return string(body)
}

// StatusError is returned for any response with status >= 400.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Code, e.Message)
}

// ErrorResponse matches the server's error response format.
type ErrorResponse struct {
	Error string `json:"error"`
}
