package endpoints

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/formgen"
	"github.com/jackzampolin/formassist/internal/forms"
)

// TemplatePayload is the body of create and update. template_schema is
// accepted as an alias of schema.
type TemplatePayload struct {
	Title          string        `json:"title" yaml:"title"`
	Description    string        `json:"description" yaml:"description"`
	Schema         *forms.Schema `json:"schema,omitempty" yaml:"schema,omitempty"`
	TemplateSchema *forms.Schema `json:"template_schema,omitempty" yaml:"template_schema,omitempty"`
}

func (p TemplatePayload) template() *forms.Template {
	t := &forms.Template{
		Title:       formgen.Sanitize(p.Title),
		Description: formgen.Sanitize(p.Description),
	}
	switch {
	case p.Schema != nil:
		t.Schema = *p.Schema
	case p.TemplateSchema != nil:
		t.Schema = *p.TemplateSchema
	}
	return t
}

// loadPayload reads a template payload from a JSON or YAML file.
func loadPayload(path string) (TemplatePayload, error) {
	var p TemplatePayload
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return p, nil
}

// TemplateList is the response of list.
type TemplateList struct {
	Items []forms.Template `json:"items"`
}

// ListFormsEndpoint handles GET /api/forms.
type ListFormsEndpoint struct{}

func (e *ListFormsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/forms", e.handler
}

func (e *ListFormsEndpoint) RequiresInit() bool { return true }
func (e *ListFormsEndpoint) Group() string      { return "forms" }

// handler godoc
//
//	@Summary	List form templates
//	@Tags		forms
//	@Produce	json
//	@Success	200	{object}	TemplateList
//	@Failure	503	{object}	ErrorResponse
//	@Router		/api/forms [get]
func (e *ListFormsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	items, err := store.ListTemplates(r.Context())
	if err != nil {
		writeStoreError(w, err, "Form")
		return
	}
	writeJSON(w, http.StatusOK, TemplateList{Items: items})
}

func (e *ListFormsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List form templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp TemplateList
			if err := client.Get(cmd.Context(), "/api/forms", &resp); err != nil {
				return err
			}
			if api.GetOutputFormat() == api.OutputFormatJSON {
				return api.Output(resp)
			}
			for _, t := range resp.Items {
				fmt.Printf("%s  %-40s  %d fields\n", t.ID, t.Title, len(t.Schema.Fields))
			}
			return nil
		},
	}
}

// GetFormEndpoint handles GET /api/forms/{id}.
type GetFormEndpoint struct{}

func (e *GetFormEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/forms/{id}", e.handler
}

func (e *GetFormEndpoint) RequiresInit() bool { return true }
func (e *GetFormEndpoint) Group() string      { return "forms" }

// handler godoc
//
//	@Summary	Get a form template
//	@Tags		forms
//	@Produce	json
//	@Param		id	path		string	true	"Template ID"
//	@Success	200	{object}	forms.Template
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/forms/{id} [get]
func (e *GetFormEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	t, err := store.GetTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "Form")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (e *GetFormEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a form template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var t forms.Template
			if err := client.Get(cmd.Context(), "/api/forms/"+args[0], &t); err != nil {
				return err
			}
			return api.Output(t)
		},
	}
}

// CreateFormEndpoint handles POST /api/forms.
type CreateFormEndpoint struct{}

func (e *CreateFormEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/forms", requireAdmin(e.handler)
}

func (e *CreateFormEndpoint) RequiresInit() bool { return true }
func (e *CreateFormEndpoint) Group() string      { return "forms" }

// handler godoc
//
//	@Summary	Create a form template
//	@Tags		forms
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		TemplatePayload	true	"Template"
//	@Success	201		{object}	forms.Template
//	@Failure	400		{object}	ErrorResponse
//	@Failure	403		{object}	ErrorResponse
//	@Router		/api/forms [post]
func (e *CreateFormEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	var req TemplatePayload
	if !decodeJSON(w, r, &req) {
		return
	}
	t := req.template()
	t.CreatedBy = sessionFrom(r).Username
	if err := store.CreateTemplate(r.Context(), t); err != nil {
		writeStoreError(w, err, "Form")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (e *CreateFormEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create -f <template.yaml>",
		Short: "Create a form template from a YAML or JSON file (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPayload(file)
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var t forms.Template
			if err := client.Post(cmd.Context(), "/api/forms", p, &t); err != nil {
				return err
			}
			return api.Output(t)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Template file (title, description, schema)")
	cmd.MarkFlagRequired("file")
	return cmd
}

// UpdateFormEndpoint handles PUT /api/forms/{id}.
type UpdateFormEndpoint struct{}

func (e *UpdateFormEndpoint) Route() (string, string, http.HandlerFunc) {
	return "PUT", "/api/forms/{id}", requireAdmin(e.handler)
}

func (e *UpdateFormEndpoint) RequiresInit() bool { return true }
func (e *UpdateFormEndpoint) Group() string      { return "forms" }

// handler godoc
//
//	@Summary	Replace a form template
//	@Tags		forms
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string			true	"Template ID"
//	@Param		request	body		TemplatePayload	true	"Template"
//	@Success	200		{object}	forms.Template
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/api/forms/{id} [put]
func (e *UpdateFormEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	var req TemplatePayload
	if !decodeJSON(w, r, &req) {
		return
	}
	t := req.template()
	t.ID = r.PathValue("id")
	if err := store.UpdateTemplate(r.Context(), t); err != nil {
		writeStoreError(w, err, "Form")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (e *UpdateFormEndpoint) Command(getServerURL func() string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update <id> -f <template.yaml>",
		Short: "Replace a form template (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPayload(file)
			if err != nil {
				return err
			}
			client := api.NewClient(getServerURL())
			var t forms.Template
			if err := client.Put(cmd.Context(), "/api/forms/"+args[0], p, &t); err != nil {
				return err
			}
			return api.Output(t)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Template file (title, description, schema)")
	cmd.MarkFlagRequired("file")
	return cmd
}

// DeleteFormEndpoint handles DELETE /api/forms/{id}.
type DeleteFormEndpoint struct{}

func (e *DeleteFormEndpoint) Route() (string, string, http.HandlerFunc) {
	return "DELETE", "/api/forms/{id}", requireAdmin(e.handler)
}

func (e *DeleteFormEndpoint) RequiresInit() bool { return true }
func (e *DeleteFormEndpoint) Group() string      { return "forms" }

// handler godoc
//
//	@Summary	Delete a form template and its responses
//	@Tags		forms
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Template ID"
//	@Success	200	{object}	OKResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/api/forms/{id} [delete]
func (e *DeleteFormEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	if err := store.DeleteTemplate(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err, "Form")
		return
	}
	writeJSON(w, http.StatusOK, OKResponse{OK: true})
}

func (e *DeleteFormEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a form template (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp OKResponse
			if err := client.Delete(cmd.Context(), "/api/forms/"+strings.TrimSpace(args[0]), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
