// Package mcp exposes field extraction, schema inference and the form
// catalog as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jackzampolin/formassist/internal/extract"
	"github.com/jackzampolin/formassist/internal/formgen"
	"github.com/jackzampolin/formassist/internal/forms"
)

// DefaultMaxFields caps infer_schema when the caller gives no limit.
const DefaultMaxFields = 20

// Config names the server and supplies the components behind the tools.
// Engine and Generator default to the built-in extractor and a fallback-only
// generator; list_forms and get_form fail without a Store.
type Config struct {
	Name      string
	Version   string
	MaxFields int

	Engine    *extract.Engine
	Generator *formgen.Generator
	Store     forms.Store
	Logger    *slog.Logger
}

// Server wraps an MCP server with the formassist tools registered.
type Server struct {
	engine    *extract.Engine
	generator *formgen.Generator
	store     forms.Store
	maxFields int
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a Server and registers its tools.
func NewServer(cfg Config) *Server {
	if cfg.Name == "" {
		cfg.Name = "formassist"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.MaxFields <= 0 {
		cfg.MaxFields = DefaultMaxFields
	}
	if cfg.Engine == nil {
		cfg.Engine = extract.NewEngine()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Generator == nil {
		cfg.Generator = formgen.NewGenerator(nil, cfg.Logger)
	}

	s := &Server{
		engine:    cfg.Engine,
		generator: cfg.Generator,
		store:     cfg.Store,
		maxFields: cfg.MaxFields,
		logger:    cfg.Logger,
		mcpServer: server.NewMCPServer(cfg.Name, cfg.Version, server.WithToolCapabilities(false)),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("extract_fields",
		mcp.WithDescription("Extract labelled field values (name, date of birth, ID numbers, address...) from document text"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Plain text of the document, e.g. OCR output")),
	), s.handleExtractFields)

	s.mcpServer.AddTool(mcp.NewTool("infer_schema",
		mcp.WithDescription("Infer a form schema (field names, labels, input types) from document text"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Plain text of the document")),
		mcp.WithNumber("max_fields", mcp.Description("Maximum number of fields to return")),
	), s.handleInferSchema)

	s.mcpServer.AddTool(mcp.NewTool("generate_form",
		mcp.WithDescription("Design a form schema from a natural-language description"),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("Description of the form, e.g. 'job application with resume upload'")),
	), s.handleGenerateForm)

	s.mcpServer.AddTool(mcp.NewTool("list_forms",
		mcp.WithDescription("List stored form templates"),
	), s.handleListForms)

	s.mcpServer.AddTool(mcp.NewTool("get_form",
		mcp.WithDescription("Get a stored form template with its schema"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Template ID")),
	), s.handleGetForm)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleExtractFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.engine.ExtractFields(text))
}

func (s *Server) handleInferSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	maxFields := s.maxFields
	if v, ok := request.GetArguments()["max_fields"].(float64); ok && v >= 1 {
		maxFields = int(v)
	}
	return jsonResult(forms.FromDescriptors(s.engine.InferSchema(text, maxFields)))
}

func (s *Server) handleGenerateForm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	prompt, err := request.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

type formSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Fields      int    `json:"fields"`
}

func (s *Server) handleListForms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("no form store configured"), nil
	}
	templates, err := s.store.ListTemplates(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items := make([]formSummary, 0, len(templates))
	for _, t := range templates {
		items = append(items, formSummary{ID: t.ID, Title: t.Title, Description: t.Description, Fields: len(t.Schema.Fields)})
	}
	return jsonResult(map[string]any{"items": items})
}

func (s *Server) handleGetForm(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return mcp.NewToolResultError("no form store configured"), nil
	}
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t, err := s.store.GetTemplate(ctx, strings.TrimSpace(id))
	if errors.Is(err, forms.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("form %s not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(t)
}

// Serve speaks MCP over in/out until ctx is cancelled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("starting MCP server on stdio")
	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}
