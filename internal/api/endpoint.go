package api

import (
	"net/http"

	"github.com/spf13/cobra"
)

// Endpoint pairs an HTTP route with the CLI command that calls it.
type Endpoint interface {
	// Route returns the HTTP method, path pattern and handler.
	Route() (method, path string, handler http.HandlerFunc)

	// RequiresInit reports whether the handler needs the store and the
	// provider registry. Such routes answer 503 until startup completes.
	RequiresInit() bool

	// Command returns a cobra command calling this endpoint. getServerURL is
	// evaluated when the command runs so that --server is honoured. A nil
	// command means the route has no CLI counterpart.
	Command(getServerURL func() string) *cobra.Command
}
