package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/forms"
)

// SeedResponse reports a seeding pass.
type SeedResponse struct {
	Message string `json:"message"`
	forms.SeedResult
}

// SeedEndpoint handles GET /api/seed. It only seeds an empty catalog.
type SeedEndpoint struct{}

func (e *SeedEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/seed", e.handler
}

func (e *SeedEndpoint) RequiresInit() bool { return true }
func (e *SeedEndpoint) Group() string      { return "admin" }

// handler godoc
//
//	@Summary		Seed default templates
//	@Description	Adds the built-in government form templates when no templates exist
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	SeedResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/api/seed [get]
func (e *SeedEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	res, err := forms.SeedIfEmpty(r.Context(), store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	msg := "Templates already exist"
	if res.Added > 0 {
		msg = fmt.Sprintf("Seeded %d templates successfully!", res.Added)
	}
	writeJSON(w, http.StatusOK, SeedResponse{Message: msg, SeedResult: res})
}

func (e *SeedEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed default templates into an empty catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SeedResponse
			if err := client.Get(cmd.Context(), "/api/seed", &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// AdminSeedEndpoint handles POST /api/admin/seed-templates.
type AdminSeedEndpoint struct{}

func (e *AdminSeedEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/admin/seed-templates", requireAdmin(e.handler)
}

func (e *AdminSeedEndpoint) RequiresInit() bool { return true }
func (e *AdminSeedEndpoint) Group() string      { return "admin" }

// handler godoc
//
//	@Summary		Add missing default templates
//	@Description	Adds each built-in template whose title is not already present
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	SeedResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Router			/api/admin/seed-templates [post]
func (e *AdminSeedEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	store, ok := storeFrom(w, r)
	if !ok {
		return
	}
	res, err := forms.SeedMissing(r.Context(), store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, SeedResponse{
		Message:    fmt.Sprintf("Seeded %d new templates", res.Added),
		SeedResult: res,
	})
}

func (e *AdminSeedEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-templates",
		Short: "Add any missing default templates (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp SeedResponse
			if err := client.Post(cmd.Context(), "/api/admin/seed-templates", nil, &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
