package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/document"
	"github.com/jackzampolin/formassist/internal/extract"
	"github.com/jackzampolin/formassist/internal/forms"
	"github.com/jackzampolin/formassist/internal/svcctx"
)

// OCRResponse is the text and fields extracted from an upload.
type OCRResponse struct {
	Filename string          `json:"filename"`
	RawText  string          `json:"raw_text"`
	Kind     document.Kind   `json:"kind"`
	Source   string          `json:"source"`
	Pages    int             `json:"pages,omitempty"`
	Fields   *extract.Fields `json:"fields"`
}

// IngestSchema is a schema inferred from a blank form, with its origin.
type IngestSchema struct {
	Fields []forms.FormField `json:"fields"`
	Meta   IngestMeta        `json:"meta"`
}

// IngestMeta records where an inferred schema came from.
type IngestMeta struct {
	SourceFilename string `json:"source_filename"`
	Generated      bool   `json:"generated"`
}

// IngestResponse is the response of form ingestion.
type IngestResponse struct {
	Schema   IngestSchema `json:"schema"`
	Filename string       `json:"filename"`
}

// documentText runs the extractor over an uploaded file, answering with the
// matching status on failure.
func documentText(w http.ResponseWriter, r *http.Request) (*document.Result, string, bool) {
	data, filename, ok := readUpload(w, r, "file")
	if !ok {
		return nil, "", false
	}
	extractor := svcctx.DocumentsFrom(r.Context())
	if extractor == nil {
		writeError(w, http.StatusServiceUnavailable, "document extractor not initialized")
		return nil, "", false
	}
	res, err := extractor.Text(r.Context(), data, filename)
	switch {
	case err == nil:
		return res, filename, true
	case errors.Is(err, document.ErrUnsupported):
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, document.ErrNoText):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, document.ErrNoOCRProvider):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		svcctx.LoggerFrom(r.Context()).Error("document extraction failed", "filename", filename, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("OCR failed: %v", err))
	}
	return nil, "", false
}

// OCRExtractEndpoint handles POST /api/ocr/extract.
type OCRExtractEndpoint struct{}

func (e *OCRExtractEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/ocr/extract", e.handler
}

func (e *OCRExtractEndpoint) RequiresInit() bool { return false }
func (e *OCRExtractEndpoint) Group() string      { return "extract" }

// handler godoc
//
//	@Summary		Extract fields from a document
//	@Description	Accepts PDF, image, HTML or text uploads. Scans go through the configured OCR providers.
//	@Tags			extract
//	@Accept			mpfd
//	@Produce		json
//	@Param			file	formData	file	true	"Document"
//	@Success		200		{object}	OCRResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		415		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/api/ocr/extract [post]
func (e *OCRExtractEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	res, filename, ok := documentText(w, r)
	if !ok {
		return
	}
	text := strings.TrimSpace(res.Text)
	writeJSON(w, http.StatusOK, OCRResponse{
		Filename: filename,
		RawText:  text,
		Kind:     res.Kind,
		Source:   res.Source,
		Pages:    res.Pages,
		Fields:   svcctx.EngineFrom(r.Context()).ExtractFields(text),
	})
}

func (e *OCRExtractEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ocr <file>",
		Short: "Extract text and fields from a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fields only marshals, so decode generically.
			var resp map[string]any
			if err := upload(cmd, getServerURL(), "/api/ocr/extract", args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// IngestFormEndpoint handles POST /api/forms/ingest.
type IngestFormEndpoint struct{}

func (e *IngestFormEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/forms/ingest", requireAdmin(e.handler)
}

func (e *IngestFormEndpoint) RequiresInit() bool { return false }
func (e *IngestFormEndpoint) Group() string      { return "forms" }

// handler godoc
//
//	@Summary		Infer a form schema from a blank form
//	@Tags			forms
//	@Accept			mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file	formData	file	true	"Blank form (PDF, image, HTML or text)"
//	@Success		200		{object}	IngestResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/api/forms/ingest [post]
func (e *IngestFormEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	res, filename, ok := documentText(w, r)
	if !ok {
		return
	}
	descs := svcctx.EngineFrom(r.Context()).InferSchema(res.Text, 0)
	if len(descs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "Unable to detect fields in the document")
		return
	}
	writeJSON(w, http.StatusOK, IngestResponse{
		Schema: IngestSchema{
			Fields: forms.FromDescriptors(descs).Fields,
			Meta:   IngestMeta{SourceFilename: filename, Generated: true},
		},
		Filename: filename,
	})
}

func (e *IngestFormEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>",
		Short: "Infer a form schema from a blank form (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp IngestResponse
			if err := upload(cmd, getServerURL(), "/api/forms/ingest", args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// upload posts a local file as the "file" field.
func upload(cmd *cobra.Command, serverURL, path, file string, result any) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	client := api.NewClient(serverURL)
	return client.Upload(cmd.Context(), path, []api.File{{Field: "file", Filename: filepath.Base(file), Data: data}}, result)
}
