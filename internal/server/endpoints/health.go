package endpoints

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/defra"
	"github.com/jackzampolin/formassist/internal/svcctx"
)

// HealthResponse is the response for health check endpoints.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

// HealthEndpoint handles GET /health.
type HealthEndpoint struct{}

func (e *HealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/health", e.handler
}

func (e *HealthEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Liveness check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (e *HealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (e *HealthEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/health", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			return nil
		},
	}
}

// APIHealthEndpoint handles GET /api/health, kept for clients of the
// original form assistant API.
type APIHealthEndpoint struct{}

func (e *APIHealthEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/health", e.handler
}

func (e *APIHealthEndpoint) RequiresInit() bool { return false }

func (e *APIHealthEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (e *APIHealthEndpoint) Command(_ func() string) *cobra.Command { return nil }

// ReadyEndpoint handles GET /ready.
type ReadyEndpoint struct{}

func (e *ReadyEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/ready", e.handler
}

func (e *ReadyEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Readiness check
//	@Description	OK once the form store is open (and DefraDB answers, for the defra backend)
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	HealthResponse
//	@Failure		503	{object}	HealthResponse
//	@Router			/ready [get]
func (e *ReadyEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Store: "ok"}

	if svcctx.StoreFrom(r.Context()) == nil {
		resp.Status = "degraded"
		resp.Store = "not_initialized"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	if client := svcctx.DefraClientFrom(r.Context()); client != nil {
		if err := client.HealthCheck(r.Context()); err != nil {
			resp.Status = "degraded"
			resp.Store = "unhealthy"
			writeJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *ReadyEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "ready",
		Short: "Check server readiness (includes the form store)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp HealthResponse
			if err := client.Get(cmd.Context(), "/ready", &resp); err != nil {
				return err
			}
			fmt.Printf("Status: %s\n", resp.Status)
			if resp.Store != "" {
				fmt.Printf("Store:  %s\n", resp.Store)
			}
			return nil
		},
	}
}

// StatusResponse is the detailed status response.
type StatusResponse struct {
	Server    string          `json:"server"`
	Version   string          `json:"version,omitempty"`
	Providers ProvidersStatus `json:"providers"`
	Store     StoreStatus     `json:"store"`
}

// ProvidersStatus shows registered providers.
type ProvidersStatus struct {
	OCR []string `json:"ocr"`
	LLM []string `json:"llm"`
	TTS string   `json:"tts,omitempty"`
}

// StoreStatus shows the form store backend and its health.
type StoreStatus struct {
	Backend   string `json:"backend"`
	Health    string `json:"health"`
	Templates int    `json:"templates"`
	Container string `json:"container,omitempty"`
	URL       string `json:"url,omitempty"`
}

// StatusEndpoint handles GET /status.
type StatusEndpoint struct {
	// Backend and DefraManager are set by the server since they are not in
	// Services.
	Backend      string
	Version      string
	DefraManager *defra.DockerManager
}

func (e *StatusEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/status", e.handler
}

func (e *StatusEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary	Server status
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	StatusResponse
//	@Router		/status [get]
func (e *StatusEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := StatusResponse{
		Server:  "running",
		Version: e.Version,
		Store:   StoreStatus{Backend: e.Backend},
	}

	if registry := svcctx.RegistryFrom(ctx); registry != nil {
		resp.Providers.OCR = registry.ListOCR()
		resp.Providers.LLM = registry.ListLLM()
		if tts := registry.TTS(); tts != nil {
			resp.Providers.TTS = tts.Name()
		}
	}

	if e.DefraManager != nil {
		status, err := e.DefraManager.Status(ctx)
		if err != nil {
			resp.Store.Container = "error"
		} else {
			resp.Store.Container = string(status)
		}
		resp.Store.URL = e.DefraManager.URL()
	}

	if store := svcctx.StoreFrom(ctx); store != nil {
		n, err := store.CountTemplates(ctx)
		if err != nil {
			resp.Store.Health = "unhealthy"
		} else {
			resp.Store.Health = "healthy"
			resp.Store.Templates = n
		}
	} else {
		resp.Store.Health = "not_initialized"
	}

	writeJSON(w, http.StatusOK, resp)
}

func (e *StatusEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Get detailed server status",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			var resp StatusResponse
			if err := client.Get(cmd.Context(), "/status", &resp); err != nil {
				return err
			}
			fmt.Printf("Server: %s\n", resp.Server)
			if resp.Version != "" {
				fmt.Printf("Version: %s\n", resp.Version)
			}
			fmt.Printf("Store:\n")
			fmt.Printf("  Backend:   %s\n", resp.Store.Backend)
			fmt.Printf("  Health:    %s\n", resp.Store.Health)
			fmt.Printf("  Templates: %d\n", resp.Store.Templates)
			if resp.Store.Container != "" {
				fmt.Printf("  Container: %s\n", resp.Store.Container)
				fmt.Printf("  URL:       %s\n", resp.Store.URL)
			}
			fmt.Printf("Providers:\n")
			fmt.Printf("  LLM: %v\n", resp.Providers.LLM)
			fmt.Printf("  OCR: %v\n", resp.Providers.OCR)
			fmt.Printf("  TTS: %s\n", resp.Providers.TTS)
			return nil
		},
	}
}
