package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/defra"
	"github.com/jackzampolin/formassist/internal/server"
	"github.com/jackzampolin/formassist/version"
)

var (
	serveHost    string
	servePort    string
	serveBackend string
	logLevel     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the formassist server",
	Long: `Start the formassist HTTP server.

The form store is chosen by storage.backend (or --backend):
  - sqlite  ~/.formassist/formassist.db (default)
  - defra   DefraDB in Docker, started and stopped with the server
  - memory  nothing persisted

Default templates are seeded when the store is empty. Provider and
extraction settings reload when the config file changes.

Examples:
  formassist serve                    # Start on the configured port (8000)
  formassist serve --port 3000        # Start on custom port
  formassist serve --backend memory   # Throwaway store for testing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return err
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)

		h, err := getHome()
		if err != nil {
			return err
		}
		cm, err := loadConfig(h)
		if err != nil {
			return err
		}
		cm.SetLogger(logger)
		cm.WatchConfig()
		cfg := cm.Get()
		if used := cm.ConfigFileUsed(); used != "" {
			logger.Info("loaded config", "file", used)
		}

		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:       host,
			Port:       port,
			Home:       h,
			Backend:    serveBackend,
			SQLitePath: cfg.Storage.SQLitePath,
			DefraConfig: defra.DockerConfig{
				ContainerName: cfg.Defra.ContainerName,
				Image:         cfg.Defra.Image,
				HostPort:      cfg.Defra.Port,
			},
			ConfigManager: cm,
			Logger:        logger,
			Version:       version.GitRelease,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to (overrides server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "8000", "Port to listen on (overrides server.port)")
	serveCmd.Flags().StringVar(&serveBackend, "backend", "", "Storage backend: sqlite, defra or memory (overrides storage.backend)")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(serveCmd)
}
