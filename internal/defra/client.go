package defra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"
)

// ErrUnhealthy is returned when the DefraDB health check fails.
var ErrUnhealthy = errors.New("defra health check failed")

// Client is a DefraDB HTTP/GraphQL client.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a new DefraDB client.
func NewClient(url string) *Client {
	return &Client{
		url:        strings.TrimSuffix(url, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// URL returns the base URL the client talks to.
func (c *Client) URL() string {
	return c.url
}

// GQLRequest represents a GraphQL request.
type GQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GQLResponse represents a GraphQL response.
type GQLResponse struct {
	Data   map[string]any `json:"data,omitempty"`
	Errors []GQLError     `json:"errors,omitempty"`
}

// GQLError represents a GraphQL error.
type GQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

// Error returns the first error message or empty string.
func (r *GQLResponse) Error() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Docs returns the documents under key in the response data.
func (r *GQLResponse) Docs(key string) []map[string]any {
	raw, _ := r.Data[key].([]any)
	docs := make([]map[string]any, 0, len(raw))
	for _, d := range raw {
		if doc, ok := d.(map[string]any); ok {
			docs = append(docs, doc)
		}
	}
	return docs
}

// HealthCheck checks if DefraDB is healthy.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/health-check", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// Execute sends a GraphQL request and returns the raw response. GraphQL
// errors are left in the response; see Run.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any) (*GQLResponse, error) {
	bodyBytes, err := json.Marshal(GQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/v0/graphql", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("defra server error (status %d): %s", resp.StatusCode, string(respBody))
	}
	if len(respBody) == 0 {
		return nil, fmt.Errorf("defra returned empty response (status %d)", resp.StatusCode)
	}

	var gqlResp GQLResponse
	if err := json.Unmarshal(respBody, &gqlResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w (body: %s)", err, string(respBody))
	}
	return &gqlResp, nil
}

// Run is Execute with GraphQL errors turned into a Go error.
func (c *Client) Run(ctx context.Context, query string, variables map[string]any) (*GQLResponse, error) {
	resp, err := c.Execute(ctx, query, variables)
	if err != nil {
		return nil, err
	}
	if msg := resp.Error(); msg != "" {
		return nil, fmt.Errorf("graphql error: %s", msg)
	}
	return resp, nil
}

// AddSchema adds a GraphQL schema to DefraDB.
func (c *Client) AddSchema(ctx context.Context, sdl string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/api/v0/schema", strings.NewReader(sdl))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("schema error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// Create creates a document and returns its DefraDB document ID.
func (c *Client) Create(ctx context.Context, collection string, input map[string]any) (string, error) {
	inputGQL, err := mapToGraphQLInput(input)
	if err != nil {
		return "", fmt.Errorf("failed to build input: %w", err)
	}
	query := fmt.Sprintf(`mutation { create_%s(input: %s) { _docID } }`, collection, inputGQL)

	resp, err := c.Run(ctx, query, nil)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}
	docs := resp.Docs("create_" + collection)
	if len(docs) == 0 {
		return "", fmt.Errorf("create %s: unexpected response format: %+v", collection, resp.Data)
	}
	docID, _ := docs[0]["_docID"].(string)
	return docID, nil
}

// Update patches a document by DefraDB document ID.
func (c *Client) Update(ctx context.Context, collection, docID string, input map[string]any) error {
	if err := ValidateID(docID); err != nil {
		return err
	}
	inputGQL, err := mapToGraphQLInput(input)
	if err != nil {
		return fmt.Errorf("failed to build input: %w", err)
	}
	query := fmt.Sprintf(`mutation { update_%s(docID: %q, input: %s) { _docID } }`, collection, docID, inputGQL)
	if _, err := c.Run(ctx, query, nil); err != nil {
		return fmt.Errorf("update %s: %w", collection, err)
	}
	return nil
}

// Delete deletes a document by DefraDB document ID.
func (c *Client) Delete(ctx context.Context, collection, docID string) error {
	if err := ValidateID(docID); err != nil {
		return err
	}
	query := fmt.Sprintf(`mutation { delete_%s(docID: %q) { _docID } }`, collection, docID)
	if _, err := c.Run(ctx, query, nil); err != nil {
		return fmt.Errorf("delete %s: %w", collection, err)
	}
	return nil
}

// DeleteWhere deletes every document whose field equals value and returns
// how many were removed.
func (c *Client) DeleteWhere(ctx context.Context, collection, field string, value any) (int, error) {
	query := fmt.Sprintf(`mutation($v: %s) { delete_%s(filter: {%s: {_eq: $v}}) { _docID } }`,
		inferGraphQLType(value), collection, field)
	resp, err := c.Run(ctx, query, map[string]any{"v": value})
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", collection, err)
	}
	return len(resp.Docs("delete_" + collection)), nil
}

// mapToGraphQLInput converts a map to GraphQL input syntax. Keys are sorted so
// the output is stable.
func mapToGraphQLInput(input map[string]any) (string, error) {
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		valStr, err := valueToGraphQL(input[k])
		if err != nil {
			return "", fmt.Errorf("failed to convert value for key %q: %w", k, err)
		}
		parts = append(parts, k+": "+valStr)
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}

// valueToGraphQL converts a Go value to GraphQL literal syntax.
func valueToGraphQL(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case string:
		// JSON string escapes are a subset of what GraphQL accepts; %q is not.
		b, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("failed to marshal string: %w", err)
		}
		return string(b), nil
	case int, int64:
		return fmt.Sprintf("%d", val), nil
	case float64, bool:
		return fmt.Sprintf("%v", val), nil
	case time.Time:
		return `"` + val.UTC().Format(time.RFC3339Nano) + `"`, nil
	case map[string]any:
		return mapToGraphQLInput(val)
	case []any:
		items := make([]string, 0, len(val))
		for _, item := range val {
			s, err := valueToGraphQL(item)
			if err != nil {
				return "", err
			}
			items = append(items, s)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", fmt.Errorf("failed to marshal value: %w", err)
		}
		return string(b), nil
	}
}
