package api

import (
	"net/http"
	"sort"

	"github.com/spf13/cobra"
)

// Grouped is implemented by endpoints whose CLI command lives under a
// subcommand such as "forms" or "llm".
type Grouped interface {
	Group() string
}

var groupShort = map[string]string{
	"auth":      "Login, logout and account commands",
	"forms":     "Form template commands",
	"responses": "Form response commands",
	"extract":   "Document text and field extraction commands",
	"voice":     "Speech commands",
	"pdf":       "AcroForm PDF commands",
	"llm":       "LLM text helper commands",
	"ai":        "LLM document analysis commands",
	"admin":     "Administrative commands",
}

// Registry holds all registered endpoints.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates a new endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds endpoints to the registry.
func (r *Registry) Register(eps ...Endpoint) {
	r.endpoints = append(r.endpoints, eps...)
}

// RegisterRoutes registers all endpoint HTTP routes with the given mux.
// initMiddleware wraps handlers that need the store and services.
func (r *Registry) RegisterRoutes(mux *http.ServeMux, initMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		if ep.RequiresInit() {
			handler = initMiddleware(handler)
		}
		mux.HandleFunc(method+" "+path, handler)
	}
}

// BuildCommands returns the "api" command with one subcommand per endpoint.
// Grouped endpoints are nested under their group.
func (r *Registry) BuildCommands(getServerURL func() string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call a running formassist server over HTTP.

Start one with "formassist serve". Use --server to point at another URL and
--token (or FORMASSIST_TOKEN) to authenticate.

Examples:
  formassist api health
  formassist api auth login admin adminpass
  formassist api forms list
  formassist api extract ocr scan.png`,
	}

	groups := map[string]*cobra.Command{}
	for _, ep := range r.endpoints {
		cmd := ep.Command(getServerURL)
		if cmd == nil {
			continue
		}
		g, ok := ep.(Grouped)
		if !ok || g.Group() == "" {
			apiCmd.AddCommand(cmd)
			continue
		}
		parent, exists := groups[g.Group()]
		if !exists {
			parent = &cobra.Command{Use: g.Group(), Short: groupShort[g.Group()]}
			groups[g.Group()] = parent
		}
		parent.AddCommand(cmd)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		apiCmd.AddCommand(groups[name])
	}
	return apiCmd
}

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}
