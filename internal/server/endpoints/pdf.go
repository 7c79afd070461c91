package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/pdfform"
)

// PDFFieldsResponse lists the AcroForm fields of a PDF.
type PDFFieldsResponse struct {
	Filename string          `json:"filename"`
	HasForm  bool            `json:"has_form"`
	Fields   []pdfform.Field `json:"fields"`
}

// PDFFieldsEndpoint handles POST /api/pdf/fields.
type PDFFieldsEndpoint struct{}

func (e *PDFFieldsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/pdf/fields", e.handler
}

func (e *PDFFieldsEndpoint) RequiresInit() bool { return false }
func (e *PDFFieldsEndpoint) Group() string      { return "pdf" }

// handler godoc
//
//	@Summary	List AcroForm fields
//	@Tags		pdf
//	@Accept		mpfd
//	@Produce	json
//	@Param		file	formData	file	true	"PDF"
//	@Success	200		{object}	PDFFieldsResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/pdf/fields [post]
func (e *PDFFieldsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	data, filename, ok := readUpload(w, r, "file")
	if !ok {
		return
	}
	fields, err := pdfform.Fields(bytes.NewReader(data))
	if errors.Is(err, pdfform.ErrNoForm) {
		writeJSON(w, http.StatusOK, PDFFieldsResponse{Filename: filename, Fields: []pdfform.Field{}})
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to read PDF: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, PDFFieldsResponse{Filename: filename, HasForm: true, Fields: fields})
}

func (e *PDFFieldsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "fields <file.pdf>",
		Short: "List the fillable fields of a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp PDFFieldsResponse
			if err := upload(cmd, getServerURL(), "/api/pdf/fields", args[0], &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// PDFFillEndpoint handles POST /api/pdf/fill.
type PDFFillEndpoint struct{}

func (e *PDFFillEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/pdf/fill", e.handler
}

func (e *PDFFillEndpoint) RequiresInit() bool { return false }
func (e *PDFFillEndpoint) Group() string      { return "pdf" }

// handler godoc
//
//	@Summary		Fill a PDF form
//	@Description	field_values is a JSON object of field name to value, sent as a file part or a plain form value
//	@Tags			pdf
//	@Accept			mpfd
//	@Produce		application/pdf
//	@Param			file			formData	file	true	"PDF form"
//	@Param			field_values	formData	file	true	"JSON field values"
//	@Success		200				{file}		file
//	@Failure		400				{object}	ErrorResponse
//	@Router			/api/pdf/fill [post]
func (e *PDFFillEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	data, _, ok := readUpload(w, r, "file")
	if !ok {
		return
	}
	raw, err := fieldValues(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	values, err := parseFieldValues(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var out bytes.Buffer
	filled, err := pdfform.Fill(bytes.NewReader(data), values, &out)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to fill PDF: %v", err))
		return
	}
	w.Header().Set("X-Filled-Fields", strings.Join(filled, ","))
	writeAttachment(w, "application/pdf", "filled_form.pdf", out.Bytes())
}

// fieldValues reads field_values from a file part, falling back to a plain
// form value.
func fieldValues(r *http.Request) ([]byte, error) {
	if f, _, err := r.FormFile("field_values"); err == nil {
		defer f.Close()
		return io.ReadAll(f)
	}
	if v := r.FormValue("field_values"); v != "" {
		return []byte(v), nil
	}
	return nil, errors.New(`missing "field_values"`)
}

// parseFieldValues decodes a JSON object into string values. Non-string
// values are formatted; null becomes empty.
func parseFieldValues(raw []byte) (map[string]string, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("field_values must be a JSON object: %w", err)
	}
	values := make(map[string]string, len(obj))
	for k, v := range obj {
		switch t := v.(type) {
		case nil:
			values[k] = ""
		case string:
			values[k] = t
		default:
			values[k] = fmt.Sprint(t)
		}
	}
	return values, nil
}

func (e *PDFFillEndpoint) Command(getServerURL func() string) *cobra.Command {
	var values map[string]string
	var valuesFile, out string
	cmd := &cobra.Command{
		Use:   "fill <form.pdf>",
		Short: "Fill a PDF form from --set pairs or a JSON values file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdf, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			merged := map[string]string{}
			if valuesFile != "" {
				raw, err := os.ReadFile(valuesFile)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", valuesFile, err)
				}
				if merged, err = parseFieldValues(raw); err != nil {
					return err
				}
			}
			for k, v := range values {
				merged[k] = v
			}
			js, err := json.Marshal(merged)
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			filled, _, err := client.UploadRaw(cmd.Context(), "/api/pdf/fill", []api.File{
				{Field: "file", Filename: filepath.Base(args[0]), Data: pdf},
				{Field: "field_values", Filename: "values.json", Data: js},
			})
			if err != nil {
				return err
			}
			return api.SaveOrPrint(out, filled)
		},
	}
	cmd.Flags().StringToStringVar(&values, "set", nil, "Field values as name=value")
	cmd.Flags().StringVarP(&valuesFile, "values", "f", "", "JSON file of field values")
	cmd.Flags().StringVar(&out, "out", "filled_form.pdf", "Output file ('-' for stdout)")
	return cmd
}
