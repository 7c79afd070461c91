package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/extract"
	"github.com/jackzampolin/formassist/internal/formgen"
	"github.com/jackzampolin/formassist/internal/forms"
	"github.com/jackzampolin/formassist/internal/mcp"
	"github.com/jackzampolin/formassist/internal/providers"
	"github.com/jackzampolin/formassist/version"
)

var (
	mcpMaxFields int
	mcpBackend   string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP tool server on stdio",
	Long: `Run a Model Context Protocol server over stdin/stdout.

Tools: extract_fields, infer_schema, generate_form, list_forms, get_form.
The form tools read templates from the store selected with --backend
(memory holds the built-in templates only). Logs go to stderr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

		h, err := getHome()
		if err != nil {
			return err
		}
		cm, err := loadConfig(h)
		if err != nil {
			return err
		}
		cm.SetLogger(logger)
		cfg := cm.Get()

		var store forms.Store
		switch mcpBackend {
		case "memory":
			store = forms.NewMemoryStore()
		case "sqlite":
			path := cfg.Storage.SQLitePath
			if path == "" {
				path = h.SQLitePath()
			}
			s, err := forms.NewSQLiteStore(path)
			if err != nil {
				return err
			}
			store = s
		default:
			return fmt.Errorf("unsupported backend %q for mcp (use memory or sqlite)", mcpBackend)
		}
		defer store.Close()

		if _, err := forms.SeedIfEmpty(cmd.Context(), store); err != nil {
			return err
		}

		maxFields := cfg.Extract.MaxFields
		if cmd.Flags().Changed("max-fields") {
			maxFields = mcpMaxFields
		}
		engine := extract.NewEngine(
			extract.WithMatchMode(extract.ParseMatchMode(cfg.Extract.MatchMode)),
			extract.WithMaxFields(maxFields),
		)
		registry := providers.NewRegistryFromConfig(cfg.ToProviderRegistryConfig(), logger)

		srv := mcp.NewServer(mcp.Config{
			Name:      "formassist",
			Version:   version.GitRelease,
			MaxFields: maxFields,
			Engine:    engine,
			Generator: formgen.NewGenerator(registry, logger),
			Store:     store,
			Logger:    logger,
		})
		return srv.Serve(cmd.Context(), os.Stdin, os.Stdout)
	},
}

func init() {
	mcpCmd.Flags().IntVar(&mcpMaxFields, "max-fields", 0, "Cap on extracted fields (0 uses config)")
	mcpCmd.Flags().StringVar(&mcpBackend, "backend", "sqlite", "Template store: memory or sqlite")
	rootCmd.AddCommand(mcpCmd)
}
