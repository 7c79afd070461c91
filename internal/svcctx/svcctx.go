// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/jackzampolin/formassist/internal/auth"
	"github.com/jackzampolin/formassist/internal/config"
	"github.com/jackzampolin/formassist/internal/defra"
	"github.com/jackzampolin/formassist/internal/document"
	"github.com/jackzampolin/formassist/internal/extract"
	"github.com/jackzampolin/formassist/internal/formgen"
	"github.com/jackzampolin/formassist/internal/forms"
	"github.com/jackzampolin/formassist/internal/home"
	"github.com/jackzampolin/formassist/internal/providers"
	"github.com/jackzampolin/formassist/internal/speech"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Store       forms.Store
	DefraClient *defra.Client
	Registry    *providers.Registry
	Auth        *auth.Service
	Documents   *document.Extractor
	Generator   *formgen.Generator
	Assistant   *formgen.Assistant
	Speech      *speech.Service
	ConfigStore *config.Manager
	Logger      *slog.Logger
	Home        *home.Dir

	// engine is swapped on config reload.
	engine atomic.Pointer[extract.Engine]
}

// SetEngine replaces the extraction engine seen by new requests.
func (s *Services) SetEngine(e *extract.Engine) {
	s.engine.Store(e)
	if s.Assistant != nil {
		s.Assistant.SetEngine(e)
	}
}

// Engine returns the current extraction engine, or the built-in default.
func (s *Services) Engine() *extract.Engine {
	if e := s.engine.Load(); e != nil {
		return e
	}
	return extract.NewEngine()
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// StoreFrom extracts the form store from context.
func StoreFrom(ctx context.Context) forms.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Store
	}
	return nil
}

// DefraClientFrom extracts the DefraDB client from context. It is nil unless
// storage.backend is "defra".
func DefraClientFrom(ctx context.Context) *defra.Client {
	if s := ServicesFrom(ctx); s != nil {
		return s.DefraClient
	}
	return nil
}

// RegistryFrom extracts the provider registry from context.
func RegistryFrom(ctx context.Context) *providers.Registry {
	if s := ServicesFrom(ctx); s != nil {
		return s.Registry
	}
	return nil
}

// AuthFrom extracts the auth service from context.
func AuthFrom(ctx context.Context) *auth.Service {
	if s := ServicesFrom(ctx); s != nil {
		return s.Auth
	}
	return nil
}

// DocumentsFrom extracts the document text extractor from context.
func DocumentsFrom(ctx context.Context) *document.Extractor {
	if s := ServicesFrom(ctx); s != nil {
		return s.Documents
	}
	return nil
}

// GeneratorFrom extracts the form generator from context.
func GeneratorFrom(ctx context.Context) *formgen.Generator {
	if s := ServicesFrom(ctx); s != nil {
		return s.Generator
	}
	return nil
}

// AssistantFrom extracts the LLM text assistant from context.
func AssistantFrom(ctx context.Context) *formgen.Assistant {
	if s := ServicesFrom(ctx); s != nil {
		return s.Assistant
	}
	return nil
}

// SpeechFrom extracts the speech service from context.
func SpeechFrom(ctx context.Context) *speech.Service {
	if s := ServicesFrom(ctx); s != nil {
		return s.Speech
	}
	return nil
}

// EngineFrom extracts the extraction engine from context. Falls back to the
// default engine so handlers never see nil.
func EngineFrom(ctx context.Context) *extract.Engine {
	if s := ServicesFrom(ctx); s != nil {
		return s.Engine()
	}
	return extract.NewEngine()
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// ConfigStoreFrom extracts the config manager from context.
func ConfigStoreFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigStore
	}
	return nil
}
