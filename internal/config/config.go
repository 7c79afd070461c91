package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/jackzampolin/formassist/internal/providers"
)

// EnvPrefix is prepended to environment overrides, e.g. FORMASSIST_SERVER_PORT.
const EnvPrefix = "FORMASSIST"

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
	logger    *slog.Logger
}

// NewManager creates a new config manager and loads initial config. When
// cfgFile is empty, config.yaml is looked up in searchPaths, then in the
// working directory and $HOME/.formassist.
func NewManager(cfgFile string, searchPaths ...string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
		logger:    slog.Default(),
	}

	if err := cm.initViper(cfgFile, searchPaths); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// SetLogger sets the logger used for reload failures.
func (cm *Manager) SetLogger(logger *slog.Logger) {
	if logger != nil {
		cm.logger = logger
	}
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string, searchPaths []string) error {
	v := cm.v
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.max_upload_mb", d.Server.MaxUploadMB)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("defra.container_name", d.Defra.ContainerName)
	v.SetDefault("defra.image", d.Defra.Image)
	v.SetDefault("defra.port", d.Defra.Port)
	v.SetDefault("ocr_providers", d.OCRProviders)
	v.SetDefault("llm_providers", d.LLMProviders)
	v.SetDefault("tts.type", d.TTS.Type)
	v.SetDefault("tts.model", d.TTS.Model)
	v.SetDefault("tts.voice", d.TTS.Voice)
	v.SetDefault("tts.api_key", d.TTS.APIKey)
	v.SetDefault("tts.speed", d.TTS.Speed)
	v.SetDefault("tts.instructions", d.TTS.Instructions)
	v.SetDefault("tts.enabled", d.TTS.Enabled)
	v.SetDefault("defaults.ocr_providers", d.Defaults.OCRProviders)
	v.SetDefault("defaults.llm_provider", d.Defaults.LLMProvider)
	v.SetDefault("extract.match_mode", d.Extract.MatchMode)
	v.SetDefault("extract.max_fields", d.Extract.MaxFields)
	v.SetDefault("extract.min_pdf_text", d.Extract.MinPDFText)
	v.SetDefault("speech.cache_limit", d.Speech.CacheLimit)
	v.SetDefault("auth.session_ttl", d.Auth.SessionTTL)
	v.SetDefault("auth.users", d.Auth.Users)

	// Environment variables with FORMASSIST_ prefix; nested keys use _
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range searchPaths {
			if p != "" {
				v.AddConfigPath(p)
			}
		}
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.formassist")
	}

	// Try to read config file (not required)
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFileUsed returns the path of the loaded config file, or "".
func (cm *Manager) ConfigFileUsed() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration. It is a no-op when no
// config file was found.
func (cm *Manager) WatchConfig() {
	if cm.v.ConfigFileUsed() == "" {
		return
	}
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil {
			cm.logger.Warn("config reload failed", "file", e.Name, "error", err)
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		cm.logger.Info("config reloaded", "file", e.Name)
		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ToProviderRegistryConfig converts the config to a format suitable for providers.Registry.
// It resolves all ${ENV_VAR} references in API keys.
func (c *Config) ToProviderRegistryConfig() providers.RegistryConfig {
	cfg := providers.RegistryConfig{
		OCRProviders: make(map[string]providers.OCRProviderConfig),
		LLMProviders: make(map[string]providers.LLMProviderConfig),
		TTS: providers.TTSProviderConfig{
			Type:         c.TTS.Type,
			Model:        c.TTS.Model,
			Voice:        c.TTS.Voice,
			APIKey:       ResolveEnvVars(c.TTS.APIKey),
			Speed:        c.TTS.Speed,
			Instructions: c.TTS.Instructions,
			Enabled:      c.TTS.Enabled,
		},
		OCROrder:   append([]string(nil), c.Defaults.OCRProviders...),
		DefaultLLM: c.Defaults.LLMProvider,
	}

	for name, ocr := range c.OCRProviders {
		cfg.OCRProviders[name] = providers.OCRProviderConfig{
			Type:      ocr.Type,
			Model:     ocr.Model,
			APIKey:    ResolveEnvVars(ocr.APIKey),
			RateLimit: ocr.RateLimit,
			Languages: append([]string(nil), ocr.Languages...),
			Enabled:   ocr.Enabled,
		}
	}

	for name, llm := range c.LLMProviders {
		cfg.LLMProviders[name] = providers.LLMProviderConfig{
			Type:      llm.Type,
			Model:     llm.Model,
			APIKey:    ResolveEnvVars(llm.APIKey),
			RateLimit: llm.RateLimit,
			Enabled:   llm.Enabled,
		}
	}

	return cfg
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# formassist configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export MISTRAL_API_KEY=xxx OPENROUTER_API_KEY=xxx OPENAI_API_KEY=xxx
# Any key can be overridden with FORMASSIST_<SECTION>_<KEY>, e.g. FORMASSIST_SERVER_PORT=9000

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
