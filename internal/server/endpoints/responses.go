package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/forms"
	"github.com/jackzampolin/formassist/internal/pdfform"
)

// SubmitRequest is the body of a response submission.
type SubmitRequest struct {
	Data map[string]any `json:"data"`
}

// SubmitResponse identifies a stored response.
type SubmitResponse struct {
	FormID     string `json:"form_id"`
	ResponseID string `json:"response_id"`
}

// ResponseList is the response of list.
type ResponseList struct {
	Items []forms.Response `json:"items"`
}

// SubmitResponseEndpoint handles POST /api/forms/{id}/responses.
type SubmitResponseEndpoint struct{}

func (e *SubmitResponseEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/forms/{id}/responses", requireSession(e.handler)
}

func (e *SubmitResponseEndpoint) RequiresInit() bool { return true }
func (e *SubmitResponseEndpoint) Group() string      { return "responses" }

// handler godoc
//
//	@Summary		Submit a response
//	@Description	Data is validated against the template schema
//	@Tags			responses
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string			true	"Template ID"
//	@Param			request	body		SubmitRequest	true	"Field values"
//	@Success		200		{object}	SubmitResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ValidationErrorResponse
//	@Router			/api/forms/{id}/responses [post]
func (e *SubmitResponseEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	var req SubmitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	ctx := r.Context()
	formID := r.PathValue("id")
	t, err := store.GetTemplate(ctx, formID)
	if err != nil {
		writeStoreError(w, err, "Form")
		return
	}
	if req.Data == nil {
		req.Data = map[string]any{}
	}
	if err := forms.ValidateResponse(t.Schema, req.Data); err != nil {
		writeStoreError(w, err, "Form")
		return
	}
	resp := &forms.Response{FormID: t.ID, Username: sessionFrom(r).Username, Data: req.Data}
	if err := store.CreateResponse(ctx, resp); err != nil {
		writeStoreError(w, err, "Form")
		return
	}
	writeJSON(w, http.StatusOK, SubmitResponse{FormID: t.ID, ResponseID: resp.ID})
}

func (e *SubmitResponseEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	var values map[string]string
	cmd := &cobra.Command{
		Use:   "submit <form-id>",
		Short: "Submit a response from --set pairs or a YAML/JSON data file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := map[string]any{}
			if file != "" {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				if err := yaml.Unmarshal(raw, &data); err != nil {
					return fmt.Errorf("failed to parse %s: %w", file, err)
				}
			}
			for k, v := range values {
				data[k] = v
			}
			client := api.NewClient(getServerURL())
			var resp SubmitResponse
			if err := client.Post(cmd.Context(), "/api/forms/"+args[0]+"/responses", SubmitRequest{Data: data}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Data file")
	cmd.Flags().StringToStringVar(&values, "set", nil, "Field values as name=value")
	return cmd
}

// ListResponsesEndpoint handles GET /api/forms/{id}/responses.
type ListResponsesEndpoint struct{}

func (e *ListResponsesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/forms/{id}/responses", requireAdmin(e.handler)
}

func (e *ListResponsesEndpoint) RequiresInit() bool { return true }
func (e *ListResponsesEndpoint) Group() string      { return "responses" }

// handler godoc
//
//	@Summary	List responses of a form
//	@Tags		responses
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Template ID"
//	@Success	200	{object}	ResponseList
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/forms/{id}/responses [get]
func (e *ListResponsesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	formID := r.PathValue("id")
	if _, err := store.GetTemplate(r.Context(), formID); err != nil {
		writeStoreError(w, err, "Form")
		return
	}
	items, err := store.ListResponses(r.Context(), formID)
	if err != nil {
		writeStoreError(w, err, "Form")
		return
	}
	writeJSON(w, http.StatusOK, ResponseList{Items: items})
}

func (e *ListResponsesEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list <form-id>",
		Short: "List responses of a form (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp ResponseList
			if err := client.Get(cmd.Context(), "/api/forms/"+args[0]+"/responses", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ownedResponse loads a response the caller may read: their own, or any for
// admins. It writes the error response itself.
func ownedResponse(w http.ResponseWriter, r *http.Request) (*forms.Response, *forms.Template, bool) {
	store, ok := storeFrom(w, r)
	if !ok {
		return nil, nil, false
	}
	ctx := r.Context()
	formID, responseID := r.PathValue("id"), r.PathValue("rid")
	resp, err := store.GetResponse(ctx, formID, responseID)
	if err != nil {
		writeStoreError(w, err, "Form response")
		return nil, nil, false
	}
	sess := sessionFrom(r)
	if resp.Username != sess.Username && !sess.IsAdmin() {
		writeError(w, http.StatusForbidden, "Not allowed to download this response")
		return nil, nil, false
	}
	t, err := store.GetTemplate(ctx, formID)
	if errors.Is(err, forms.ErrNotFound) {
		return resp, nil, true
	}
	if err != nil {
		writeStoreError(w, err, "Form")
		return nil, nil, false
	}
	return resp, t, true
}

// DownloadResponseEndpoint handles GET /api/forms/{id}/responses/{rid}/download.
type DownloadResponseEndpoint struct{}

func (e *DownloadResponseEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/forms/{id}/responses/{rid}/download", requireSession(e.handler)
}

func (e *DownloadResponseEndpoint) RequiresInit() bool { return true }
func (e *DownloadResponseEndpoint) Group() string      { return "responses" }

// handler godoc
//
//	@Summary		Download a response as JSON
//	@Description	Owners and admins only
//	@Tags			responses
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Template ID"
//	@Param			rid	path		string	true	"Response ID"
//	@Success		200	{file}		file
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/forms/{id}/responses/{rid}/download [get]
func (e *DownloadResponseEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp, t, ok := ownedResponse(w, r)
	if !ok {
		return
	}
	payload := map[string]any{"response": resp}
	if t != nil {
		payload["form"] = t
	} else {
		payload["form"] = map[string]string{"id": resp.FormID}
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeAttachment(w, "application/json", fmt.Sprintf("form-%s-response-%s.json", resp.FormID, resp.ID), data)
}

func (e *DownloadResponseEndpoint) Command(getServerURL func() string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "download <form-id> <response-id>",
		Short: "Download a response as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, _, err := client.Raw(cmd.Context(), http.MethodGet, "/api/forms/"+args[0]+"/responses/"+args[1]+"/download", nil)
			if err != nil {
				return err
			}
			return api.SaveOrPrint(out, data)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Write to file instead of stdout")
	return cmd
}

// ResponsePDFEndpoint handles GET /api/forms/{id}/responses/{rid}/pdf.
type ResponsePDFEndpoint struct{}

func (e *ResponsePDFEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/forms/{id}/responses/{rid}/pdf", requireSession(e.handler)
}

func (e *ResponsePDFEndpoint) RequiresInit() bool { return true }
func (e *ResponsePDFEndpoint) Group() string      { return "responses" }

// handler godoc
//
//	@Summary		Download a response as PDF
//	@Description	Owners and admins only
//	@Tags			responses
//	@Produce		application/pdf
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Template ID"
//	@Param			rid	path		string	true	"Response ID"
//	@Success		200	{file}		file
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/api/forms/{id}/responses/{rid}/pdf [get]
func (e *ResponsePDFEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp, t, ok := ownedResponse(w, r)
	if !ok {
		return
	}
	title := "Form " + resp.FormID
	var schema forms.Schema
	if t != nil {
		title, schema = t.Title, t.Schema
	}
	pdf := pdfform.RenderResponse(title, schema, resp.Data, time.Now())
	writeAttachment(w, "application/pdf", fmt.Sprintf("form-%s-response-%s.pdf", resp.FormID, resp.ID), pdf)
}

func (e *ResponsePDFEndpoint) Command(getServerURL func() string) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "pdf <form-id> <response-id>",
		Short: "Download a response as PDF",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			data, _, err := client.Raw(cmd.Context(), http.MethodGet, "/api/forms/"+args[0]+"/responses/"+args[1]+"/pdf", nil)
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("form-%s-response-%s.pdf", args[0], args[1])
			}
			return api.SaveOrPrint(out, data)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output file ('-' for stdout)")
	return cmd
}
