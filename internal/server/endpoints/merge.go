package endpoints

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/forms"
)

// MergeRequest carries candidate values keyed by source ("voice", "ocr",
// "profile").
type MergeRequest struct {
	Sources forms.Sources `json:"sources"`
}

// MergeResponse holds one value (or null) per schema field.
type MergeResponse struct {
	FormID string         `json:"form_id"`
	Values map[string]any `json:"values"`
}

// MergeEndpoint handles POST /api/forms/{id}/merge.
type MergeEndpoint struct{}

func (e *MergeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/forms/{id}/merge", e.handler
}

func (e *MergeEndpoint) RequiresInit() bool { return true }
func (e *MergeEndpoint) Group() string      { return "forms" }

// handler godoc
//
//	@Summary		Merge candidate values into a form
//	@Description	For each field the first non-empty value wins, in the order voice, ocr, profile
//	@Tags			forms
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"Template ID"
//	@Param			request	body		MergeRequest	true	"Sources"
//	@Success		200		{object}	MergeResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/api/forms/{id}/merge [post]
func (e *MergeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	var req MergeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := store.GetTemplate(r.Context(), r.PathValue("id"))
	if err != nil {
		writeStoreError(w, err, "Form")
		return
	}
	writeJSON(w, http.StatusOK, MergeResponse{FormID: t.ID, Values: forms.Merge(t.Schema, req.Sources)})
}

func (e *MergeEndpoint) Command(getServerURL func() string) *cobra.Command {
	var voice, ocr, profile map[string]string
	cmd := &cobra.Command{
		Use:   "merge <form-id>",
		Short: "Merge voice, OCR and profile values into a form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources := forms.Sources{}
			for name, vals := range map[string]map[string]string{
				forms.SourceVoice:   voice,
				forms.SourceOCR:     ocr,
				forms.SourceProfile: profile,
			} {
				if len(vals) == 0 {
					continue
				}
				m := make(map[string]any, len(vals))
				for k, v := range vals {
					m[k] = v
				}
				sources[name] = m
			}
			client := api.NewClient(getServerURL())
			var resp MergeResponse
			if err := client.Post(cmd.Context(), "/api/forms/"+args[0]+"/merge", MergeRequest{Sources: sources}, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().StringToStringVar(&voice, "voice", nil, "Voice values as name=value")
	cmd.Flags().StringToStringVar(&ocr, "ocr", nil, "OCR values as name=value")
	cmd.Flags().StringToStringVar(&profile, "profile", nil, "Profile values as name=value")
	return cmd
}
