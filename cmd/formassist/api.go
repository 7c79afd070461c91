package main

import (
	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/server/endpoints"
)

func init() {
	registry := api.NewRegistry()
	registry.Register(endpoints.All(endpoints.Config{})...)
	rootCmd.AddCommand(registry.BuildCommands(getServerURL))
}
