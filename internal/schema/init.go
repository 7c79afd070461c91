package schema

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackzampolin/formassist/internal/defra"
)

// Initialize applies all schemas to DefraDB. Collections that already exist
// are skipped, so it is safe on every start.
func Initialize(ctx context.Context, client *defra.Client, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	schemas, err := All()
	if err != nil {
		return fmt.Errorf("failed to load schemas: %w", err)
	}

	for _, s := range schemas {
		err := client.AddSchema(ctx, s.SDL)
		switch {
		case err == nil:
			logger.Info("schema added", "name", s.Name)
		case isAlreadyExistsError(err):
			logger.Debug("schema already exists", "name", s.Name)
		default:
			return fmt.Errorf("failed to add schema %s: %w", s.Name, err)
		}
	}
	return nil
}

// DefraDB is reached over HTTP, so the only signal is the error body.
func isAlreadyExistsError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "already exists")
}
