package config

import (
	"strings"
	"time"
)

// Config holds formassist configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Server       ServerCfg                 `mapstructure:"server" yaml:"server"`
	Storage      StorageCfg                `mapstructure:"storage" yaml:"storage"`
	Defra        DefraConfig               `mapstructure:"defra" yaml:"defra"`
	OCRProviders map[string]OCRProviderCfg `mapstructure:"ocr_providers" yaml:"ocr_providers"`
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	TTS          TTSCfg                    `mapstructure:"tts" yaml:"tts"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Extract      ExtractCfg                `mapstructure:"extract" yaml:"extract"`
	Speech       SpeechCfg                 `mapstructure:"speech" yaml:"speech"`
	Auth         AuthCfg                   `mapstructure:"auth" yaml:"auth"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host        string   `mapstructure:"host" yaml:"host"`
	Port        string   `mapstructure:"port" yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
	MaxUploadMB int      `mapstructure:"max_upload_mb" yaml:"max_upload_mb"`
}

// StorageCfg selects the form store backend.
type StorageCfg struct {
	Backend    string `mapstructure:"backend" yaml:"backend"`         // "defra", "sqlite" or "memory"
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"` // default {home}/formassist.db
}

// DefraConfig holds DefraDB container configuration.
type DefraConfig struct {
	// ContainerName is the Docker container name (default: formassist-defra)
	ContainerName string `mapstructure:"container_name" yaml:"container_name"`
	// Image is the Docker image to use (default: sourcenetwork/defradb:latest)
	Image string `mapstructure:"image" yaml:"image"`
	// Port is the host port to bind (default: 9181)
	Port string `mapstructure:"port" yaml:"port"`
}

// OCRProviderCfg configures an OCR provider.
type OCRProviderCfg struct {
	Type      string   `mapstructure:"type" yaml:"type"`             // "mistral-ocr", "tesseract"
	Model     string   `mapstructure:"model" yaml:"model"`           // model override (mistral)
	APIKey    string   `mapstructure:"api_key" yaml:"api_key"`       // supports ${ENV_VAR} syntax
	RateLimit float64  `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second
	Languages []string `mapstructure:"language" yaml:"language"`     // tesseract languages
	Enabled   bool     `mapstructure:"enabled" yaml:"enabled"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type      string  `mapstructure:"type" yaml:"type"`             // "openrouter"
	Model     string  `mapstructure:"model" yaml:"model"`           // model name
	APIKey    string  `mapstructure:"api_key" yaml:"api_key"`       // supports ${ENV_VAR} syntax
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"` // requests per second
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled"`
}

// TTSCfg configures text-to-speech.
type TTSCfg struct {
	Type         string  `mapstructure:"type" yaml:"type"` // "openai"
	Model        string  `mapstructure:"model" yaml:"model"`
	Voice        string  `mapstructure:"voice" yaml:"voice"`
	APIKey       string  `mapstructure:"api_key" yaml:"api_key"`
	Speed        float64 `mapstructure:"speed" yaml:"speed"`
	Instructions string  `mapstructure:"instructions" yaml:"instructions"`
	Enabled      bool    `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default provider selections.
type DefaultsCfg struct {
	OCRProviders []string `mapstructure:"ocr_providers" yaml:"ocr_providers"` // OCR try order
	LLMProvider  string   `mapstructure:"llm_provider" yaml:"llm_provider"`
}

// ExtractCfg tunes field extraction.
type ExtractCfg struct {
	MatchMode string `mapstructure:"match_mode" yaml:"match_mode"` // "words" or "substring"
	MaxFields int    `mapstructure:"max_fields" yaml:"max_fields"`
	// MinPDFText is the text-layer length below which a PDF is treated as a
	// scan and sent to OCR.
	MinPDFText int `mapstructure:"min_pdf_text" yaml:"min_pdf_text"`
}

// SpeechCfg tunes the speech cache.
type SpeechCfg struct {
	CacheLimit int `mapstructure:"cache_limit" yaml:"cache_limit"`
}

// AuthCfg configures login sessions and seeded accounts.
type AuthCfg struct {
	SessionTTL string    `mapstructure:"session_ttl" yaml:"session_ttl"`
	Users      []UserCfg `mapstructure:"users" yaml:"users"`
}

// UserCfg is an account created at startup.
type UserCfg struct {
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"` // supports ${ENV_VAR} syntax
	Role     string `mapstructure:"role" yaml:"role"`         // "admin" or "user"
}

// DefaultSessionTTL applies when auth.session_ttl is empty or invalid.
const DefaultSessionTTL = 24 * time.Hour

// SessionTTLDuration parses auth.session_ttl.
func (a AuthCfg) SessionTTLDuration() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(a.SessionTTL))
	if err != nil || d <= 0 {
		return DefaultSessionTTL
	}
	return d
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host:        "127.0.0.1",
			Port:        "8000",
			CORSOrigins: []string{"*"},
			MaxUploadMB: 20,
		},
		Storage: StorageCfg{
			Backend: "sqlite",
		},
		Defra: DefraConfig{
			ContainerName: "formassist-defra",
			Image:         "sourcenetwork/defradb:latest",
			Port:          "9181",
		},
		OCRProviders: map[string]OCRProviderCfg{
			"mistral": {
				Type:      "mistral-ocr",
				APIKey:    "${MISTRAL_API_KEY}",
				RateLimit: 6.0,
				Enabled:   true,
			},
			"tesseract": {
				Type:      "tesseract",
				Languages: []string{"eng", "hin"},
				Enabled:   true,
			},
		},
		LLMProviders: map[string]LLMProviderCfg{
			"openrouter": {
				Type:      "openrouter",
				Model:     "google/gemini-2.0-flash-001",
				APIKey:    "${OPENROUTER_API_KEY}",
				RateLimit: 5,
				Enabled:   true,
			},
		},
		TTS: TTSCfg{
			Type:    "openai",
			Model:   "gpt-4o-mini-tts",
			Voice:   "alloy",
			APIKey:  "${OPENAI_API_KEY}",
			Speed:   1.0,
			Enabled: true,
		},
		Defaults: DefaultsCfg{
			OCRProviders: []string{"mistral", "tesseract"},
			LLMProvider:  "openrouter",
		},
		Extract: ExtractCfg{
			MatchMode:  "words",
			MaxFields:  60,
			MinPDFText: 20,
		},
		Speech: SpeechCfg{
			CacheLimit: 10,
		},
		Auth: AuthCfg{
			SessionTTL: "24h",
			Users: []UserCfg{
				{Username: "admin", Password: "adminpass", Role: "admin"},
				{Username: "user", Password: "userpass", Role: "user"},
			},
		},
	}
}

// GetOCRProvider returns an OCR provider config by name.
func (c *Config) GetOCRProvider(name string) (OCRProviderCfg, bool) {
	cfg, ok := c.OCRProviders[name]
	return cfg, ok
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledOCRProviders returns all enabled OCR providers.
func (c *Config) EnabledOCRProviders() map[string]OCRProviderCfg {
	result := make(map[string]OCRProviderCfg)
	for name, cfg := range c.OCRProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// EnabledLLMProviders returns all enabled LLM providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// MaxUploadBytes is server.max_upload_mb in bytes.
func (c *Config) MaxUploadBytes() int64 {
	mb := c.Server.MaxUploadMB
	if mb <= 0 {
		mb = 20
	}
	return int64(mb) << 20
}
