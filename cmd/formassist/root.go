package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/config"
	"github.com/jackzampolin/formassist/internal/home"
	"github.com/jackzampolin/formassist/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	serverURL    string
	token        string
)

var rootCmd = &cobra.Command{
	Use:   "formassist",
	Short: "Form assistant backend with document field extraction",
	Long: `formassist helps people fill in government and bank forms.

It reads uploaded documents (PDF, scans, HTML or text), pulls out the
personal details it recognizes and maps them onto form templates.

It provides:
  - Heuristic field extraction and schema inference from blank forms
  - Form templates and validated responses (sqlite, DefraDB or in-memory)
  - AcroForm PDF filling and printable response PDFs
  - Optional OCR, LLM and text-to-speech providers
  - An MCP tool server for assistants`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.formassist/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "formassist home directory (default: ~/.formassist)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&serverURL, "server", envOr(config.EnvPrefix+"_SERVER", "http://localhost:8000"), "Server URL",
	)
	rootCmd.PersistentFlags().StringVar(
		&token, "token", os.Getenv(config.EnvPrefix+"_TOKEN"), "Session token (default: $FORMASSIST_TOKEN)",
	)

	// Set output format and token before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := api.SetOutputFormat(outputFormat); err != nil {
			return err
		}
		api.SetDefaultToken(token)
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getHome returns the home directory, creating it if needed.
func getHome() (*home.Dir, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}
	if err := h.EnsureExists(); err != nil {
		return nil, fmt.Errorf("failed to create home directory: %w", err)
	}
	return h, nil
}

// loadConfig reads --config, or config.yaml from the home directory.
func loadConfig(h *home.Dir) (*config.Manager, error) {
	cm, err := config.NewManager(cfgFile, h.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cm, nil
}
