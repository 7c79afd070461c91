package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/formgen"
	"github.com/jackzampolin/formassist/internal/forms"
	"github.com/jackzampolin/formassist/internal/openapiform"
	"github.com/jackzampolin/formassist/internal/svcctx"
)

// GenerateRequest is the body of form generation.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse is a generated schema.
type GenerateResponse struct {
	Schema forms.Schema `json:"schema"`
	Prompt string       `json:"prompt"`
	Source string       `json:"source"`
}

// GenerateFormEndpoint handles POST /api/forms/generate.
type GenerateFormEndpoint struct{}

func (e *GenerateFormEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/forms/generate", requireAdmin(e.handler)
}

func (e *GenerateFormEndpoint) RequiresInit() bool { return false }
func (e *GenerateFormEndpoint) Group() string      { return "forms" }

// handler godoc
//
//	@Summary		Generate a form schema from a description
//	@Description	Uses the default LLM when configured, keyword matching otherwise
//	@Tags			forms
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		GenerateRequest	true	"Prompt"
//	@Success		200		{object}	GenerateResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Router			/api/forms/generate [post]
func (e *GenerateFormEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	gen := svcctx.GeneratorFrom(r.Context())
	if gen == nil {
		writeError(w, http.StatusServiceUnavailable, "form generator not initialized")
		return
	}
	res, err := gen.Generate(r.Context(), req.Prompt)
	if errors.Is(err, formgen.ErrEmptyPrompt) {
		writeError(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, GenerateResponse{Schema: res.Schema, Prompt: req.Prompt, Source: res.Source})
}

func (e *GenerateFormEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a form schema from a description (admin)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp GenerateResponse
			if err := client.Post(cmd.Context(), "/api/forms/generate", GenerateRequest{Prompt: strings.Join(args, " ")}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ImportOpenAPIRequest carries an OpenAPI 3 document (JSON or YAML text).
type ImportOpenAPIRequest struct {
	Document    string `json:"document"`
	OperationID string `json:"operation_id,omitempty"`
}

// ImportOpenAPIResponse is the schema of one operation's request body.
type ImportOpenAPIResponse struct {
	Schema      forms.Schema `json:"schema"`
	OperationID string       `json:"operation_id,omitempty"`
	Operations  []string     `json:"operations"`
}

// ImportOpenAPIEndpoint handles POST /api/forms/import-openapi.
type ImportOpenAPIEndpoint struct{}

func (e *ImportOpenAPIEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/forms/import-openapi", requireAdmin(e.handler)
}

func (e *ImportOpenAPIEndpoint) RequiresInit() bool { return false }
func (e *ImportOpenAPIEndpoint) Group() string      { return "forms" }

// handler godoc
//
//	@Summary		Build a form schema from an OpenAPI operation
//	@Description	Without operation_id the first operation with a JSON, urlencoded or multipart body is used
//	@Tags			forms
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		ImportOpenAPIRequest	true	"OpenAPI document"
//	@Success		200		{object}	ImportOpenAPIResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/api/forms/import-openapi [post]
func (e *ImportOpenAPIEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req ImportOpenAPIRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	data := []byte(req.Document)
	schema, err := openapiform.FromOpenAPI(ctx, data, req.OperationID)
	switch {
	case errors.Is(err, openapiform.ErrOperationNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, openapiform.ErrNoRequestBody):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ops, err := openapiform.Operations(ctx, data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ImportOpenAPIResponse{Schema: schema, OperationID: req.OperationID, Operations: ops})
}

func (e *ImportOpenAPIEndpoint) Command(getServerURL func() string) *cobra.Command {
	var operationID string
	cmd := &cobra.Command{
		Use:   "import-openapi <openapi.yaml>",
		Short: "Build a form schema from an OpenAPI operation (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			client := api.NewClient(getServerURL())
			var resp ImportOpenAPIResponse
			req := ImportOpenAPIRequest{Document: string(doc), OperationID: operationID}
			if err := client.Post(cmd.Context(), "/api/forms/import-openapi", req, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVar(&operationID, "operation", "", "operationId (or method:path) to import")
	return cmd
}
