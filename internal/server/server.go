package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/auth"
	"github.com/jackzampolin/formassist/internal/config"
	"github.com/jackzampolin/formassist/internal/defra"
	"github.com/jackzampolin/formassist/internal/document"
	"github.com/jackzampolin/formassist/internal/extract"
	"github.com/jackzampolin/formassist/internal/formgen"
	"github.com/jackzampolin/formassist/internal/forms"
	"github.com/jackzampolin/formassist/internal/home"
	"github.com/jackzampolin/formassist/internal/providers"
	"github.com/jackzampolin/formassist/internal/server/endpoints"
	"github.com/jackzampolin/formassist/internal/speech"
	"github.com/jackzampolin/formassist/internal/svcctx"
)

// Storage backends.
const (
	BackendDefra  = "defra"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Server is the formassist HTTP server.
// With the defra backend it manages the DefraDB container lifecycle, starting
// it on server start and stopping it on shutdown.
type Server struct {
	httpServer   *http.Server
	defraManager *defra.DockerManager
	registry     *providers.Registry
	configMgr    *config.Manager
	logger       *slog.Logger
	cfg          Config

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	// ready is set once the form store is open.
	ready atomic.Bool

	// maxUpload and origins change on config reload.
	maxUpload atomic.Int64
	origins   atomic.Pointer[[]string]

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8000)
	Port string
	// Home is the data directory. Required for the sqlite and defra backends
	// unless SQLitePath / DefraConfig.DataPath are set.
	Home *home.Dir
	// Backend selects the form store: "defra", "sqlite" or "memory"
	Backend string
	// SQLitePath overrides the sqlite database location
	SQLitePath string
	// DefraConfig holds DefraDB container settings
	DefraConfig defra.DockerConfig
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Providers replaces the registry built from config when set
	Providers *providers.Registry
	// Logger is the structured logger to use
	Logger *slog.Logger
	// Version is reported by /status
	Version string
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	appCfg := config.DefaultConfig()
	if cfg.ConfigManager != nil {
		appCfg = cfg.ConfigManager.Get()
	}
	if cfg.Backend == "" {
		cfg.Backend = appCfg.Storage.Backend
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	switch cfg.Backend {
	case BackendDefra, BackendSQLite, BackendMemory:
	case "":
		cfg.Backend = BackendSQLite
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = appCfg.Storage.SQLitePath
	}

	s := &Server{
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
		cfg:       cfg,
	}

	if cfg.Backend == BackendDefra {
		if cfg.DefraConfig.DataPath == "" && cfg.Home != nil {
			cfg.DefraConfig.DataPath = cfg.Home.DataPath()
		}
		if cfg.DefraConfig.Logger == nil {
			cfg.DefraConfig.Logger = cfg.Logger
		}
		defraManager, err := defra.NewDockerManager(cfg.DefraConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create defra manager: %w", err)
		}
		s.defraManager = defraManager
		s.cfg = cfg
	}

	// Create provider registry
	s.registry = cfg.Providers
	if s.registry == nil {
		s.registry = providers.NewRegistryFromConfig(appCfg.ToProviderRegistryConfig(), cfg.Logger)
	}

	authSvc, err := auth.New(authUsers(appCfg.Auth), appCfg.Auth.SessionTTLDuration())
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	engine := newEngine(appCfg.Extract)
	s.services = &svcctx.Services{
		Registry: s.registry,
		Auth:     authSvc,
		Documents: document.NewExtractor(s.registry, document.Config{
			MinPDFText: appCfg.Extract.MinPDFText,
			Logger:     cfg.Logger,
		}),
		Generator:   formgen.NewGenerator(s.registry, cfg.Logger),
		Assistant:   formgen.NewAssistant(s.registry, engine, cfg.Logger),
		Speech:      speech.New(s.registry, appCfg.Speech.CacheLimit, cfg.Logger),
		ConfigStore: cfg.ConfigManager,
		Logger:      cfg.Logger,
		Home:        cfg.Home,
	}
	s.services.SetEngine(engine)
	s.applyServerConfig(appCfg.Server)

	// Watch for config changes
	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(s.reload)
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All(endpoints.Config{
		DefraManager: s.defraManager,
		Backend:      cfg.Backend,
		Version:      cfg.Version,
	}) {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withCORS(s.withUploadLimit(s.withServices(mux))),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

func authUsers(cfg config.AuthCfg) []auth.Credentials {
	if len(cfg.Users) == 0 {
		return auth.DefaultUsers()
	}
	users := make([]auth.Credentials, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		users = append(users, auth.Credentials{
			Username: u.Username,
			Password: config.ResolveEnvVars(u.Password),
			Role:     u.Role,
		})
	}
	return users
}

func newEngine(cfg config.ExtractCfg) *extract.Engine {
	return extract.NewEngine(
		extract.WithMatchMode(extract.ParseMatchMode(cfg.MatchMode)),
		extract.WithMaxFields(cfg.MaxFields),
	)
}

func (s *Server) applyServerConfig(cfg config.ServerCfg) {
	mb := cfg.MaxUploadMB
	if mb <= 0 {
		mb = 20
	}
	s.maxUpload.Store(int64(mb) << 20)
	origins := slices.Clone(cfg.CORSOrigins)
	s.origins.Store(&origins)
}

// reload applies a changed config file. Storage, listen address and users
// need a restart.
func (s *Server) reload(c *config.Config) {
	s.registry.Reload(c.ToProviderRegistryConfig())
	s.services.SetEngine(newEngine(c.Extract))
	s.services.Documents.SetMinPDFText(c.Extract.MinPDFText)
	s.services.Auth.SetTTL(c.Auth.SessionTTLDuration())
	s.services.Speech.SetLimit(c.Speech.CacheLimit)
	s.applyServerConfig(c.Server)
	s.logger.Info("configuration reloaded",
		"match_mode", c.Extract.MatchMode,
		"llm", s.registry.ListLLM(),
		"ocr", s.registry.ListOCR())
}

// Init opens the form store and seeds the default templates when it is
// empty. Routes that need the store answer 503 until Init returns.
func (s *Server) Init(ctx context.Context) error {
	store, err := s.openStore(ctx)
	if err != nil {
		return err
	}
	res, err := forms.SeedIfEmpty(ctx, store)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("failed to seed templates: %w", err)
	}
	if res.Added > 0 {
		s.logger.Info("seeded default templates", "added", res.Added)
	}
	s.services.Store = store
	s.ready.Store(true)
	return nil
}

func (s *Server) openStore(ctx context.Context) (forms.Store, error) {
	switch s.cfg.Backend {
	case BackendMemory:
		s.logger.Info("using in-memory form store")
		return forms.NewMemoryStore(), nil

	case BackendSQLite:
		path := s.cfg.SQLitePath
		if path == "" {
			if s.cfg.Home == nil {
				return nil, errors.New("sqlite backend needs a home directory or sqlite_path")
			}
			path = s.cfg.Home.SQLitePath()
		}
		s.logger.Info("opening sqlite form store", "path", path)
		store, err := forms.NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return store, nil

	case BackendDefra:
		s.logger.Info("starting DefraDB")
		if err := s.defraManager.Start(ctx); err != nil {
			return nil, fmt.Errorf("failed to start DefraDB: %w", err)
		}

		client := defra.NewClient(s.defraManager.URL())
		if err := client.HealthCheck(ctx); err != nil {
			return nil, fmt.Errorf("DefraDB health check failed: %w", err)
		}
		s.logger.Info("DefraDB is ready", "url", s.defraManager.URL())

		store, err := forms.NewDefraStore(ctx, client, s.logger)
		if err != nil {
			return nil, fmt.Errorf("schema initialization failed: %w", err)
		}
		s.services.DefraClient = client
		return store, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", s.cfg.Backend)
}

// Start initializes storage and serves HTTP.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if err := s.Init(ctx); err != nil {
		_ = s.shutdown()
		return err
	}

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr, "backend", s.cfg.Backend)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			_ = s.shutdown()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown stops the HTTP server, closes the store and stops DefraDB.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.ready.Store(false)
	if s.services.Store != nil {
		if err := s.services.Store.Close(); err != nil {
			s.logger.Error("form store close error", "error", err)
		}
	}

	if s.defraManager != nil {
		s.logger.Info("stopping DefraDB")
		if err := s.defraManager.Stop(shutdownCtx); err != nil {
			s.logger.Error("DefraDB stop error", "error", err)
		}
		if err := s.defraManager.Close(); err != nil {
			s.logger.Error("DefraDB manager close error", "error", err)
		}
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the root handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// Services returns the services shared with handlers.
func (s *Server) Services() *svcctx.Services {
	return s.services
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := svcctx.WithServices(r.Context(), s.services)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// withUploadLimit caps request bodies at server.max_upload_mb.
func (s *Server) withUploadLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload.Load())
		}
		next.ServeHTTP(w, r)
	})
}

// withCORS answers preflight requests and sets the allow headers for
// origins in server.cors_origins. "*" allows any origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	origins := s.origins.Load()
	if origins == nil {
		return false
	}
	for _, o := range *origins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}

// requireInit is middleware that ensures the form store is open.
// Returns 503 Service Unavailable until Init completes.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.ready.Load() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
