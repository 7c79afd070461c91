package mcp

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackzampolin/formassist/internal/forms"
	"github.com/jackzampolin/formassist/internal/formgen"
)

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Arguments: args}}
}

func extractTextFromResult(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		switch c := content.(type) {
		case mcp.TextContent:
			parts = append(parts, c.Text)
		case *mcp.TextContent:
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestServer_HandleExtractFields(t *testing.T) {
	s := NewServer(Config{})

	result, err := s.handleExtractFields(context.Background(), callRequest(map[string]interface{}{
		"text": "Full Name: John Smith\nEmail: john@x.com\nPhone: 9876543210",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, extractTextFromResult(result))

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &got))
	assert.Equal(t, "John Smith", got["full_name"])
	assert.Equal(t, "john@x.com", got["email"])
	assert.Equal(t, "9876543210", got["mobile_number"])
}

func TestServer_MissingArgument(t *testing.T) {
	s := NewServer(Config{})
	ctx := context.Background()

	for name, handler := range map[string]func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error){
		"extract_fields": s.handleExtractFields,
		"infer_schema":   s.handleInferSchema,
		"generate_form":  s.handleGenerateForm,
	} {
		t.Run(name, func(t *testing.T) {
			result, err := handler(ctx, callRequest(map[string]interface{}{}))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestServer_HandleInferSchema(t *testing.T) {
	s := NewServer(Config{})

	result, err := s.handleInferSchema(context.Background(), callRequest(map[string]interface{}{
		"text":       "Name: ____\nPhone: ____\nEmail: ____",
		"max_fields": float64(2),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got forms.Schema
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &got))
	assert.Equal(t, []string{"name", "phone"}, got.Names())
	assert.Equal(t, forms.TypeTel, got.Fields[1].Type)

	// No limit falls back to the server default.
	result, err = s.handleInferSchema(context.Background(), callRequest(map[string]interface{}{
		"text": "Name: ____\nPhone: ____\nEmail: ____",
	}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &got))
	assert.Len(t, got.Fields, 3)
}

func TestServer_HandleGenerateForm(t *testing.T) {
	s := NewServer(Config{})

	result, err := s.handleGenerateForm(context.Background(), callRequest(map[string]interface{}{
		"prompt": "Contact form with email and phone",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var got formgen.Result
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &got))
	assert.Equal(t, formgen.SourceFallback, got.Source)
	assert.Contains(t, got.Schema.Names(), "email")
	assert.Contains(t, got.Schema.Names(), "phone")

	result, err = s.handleGenerateForm(context.Background(), callRequest(map[string]interface{}{"prompt": "   "}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_Forms(t *testing.T) {
	ctx := context.Background()

	t.Run("no store", func(t *testing.T) {
		s := NewServer(Config{})
		result, err := s.handleListForms(ctx, callRequest(nil))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, extractTextFromResult(result), "no form store")
	})

	store := forms.NewMemoryStore()
	tmpl := &forms.Template{
		Title:       "Income Certificate",
		Description: "Apply for an income certificate",
		Schema: forms.Schema{Fields: []forms.FormField{
			{Name: "full_name", Label: "Full Name", Type: forms.TypeText},
			{Name: "annual_income", Label: "Annual Income", Type: forms.TypeNumber},
		}},
	}
	require.NoError(t, store.CreateTemplate(ctx, tmpl))
	s := NewServer(Config{Store: store})

	result, err := s.handleListForms(ctx, callRequest(nil))
	require.NoError(t, err)
	require.False(t, result.IsError)
	var list struct {
		Items []formSummary `json:"items"`
	}
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, formSummary{ID: tmpl.ID, Title: "Income Certificate", Description: "Apply for an income certificate", Fields: 2}, list.Items[0])

	result, err = s.handleGetForm(ctx, callRequest(map[string]interface{}{"id": tmpl.ID}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	var got forms.Template
	require.NoError(t, json.Unmarshal([]byte(extractTextFromResult(result)), &got))
	assert.Equal(t, []string{"full_name", "annual_income"}, got.Schema.Names())

	result, err = s.handleGetForm(ctx, callRequest(map[string]interface{}{"id": "missing"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, extractTextFromResult(result), "not found")
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	s := NewServer(Config{})
	ctx, cancel := context.WithCancel(context.Background())

	in, w := io.Pipe()
	defer w.Close()

	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, in, io.Discard) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
