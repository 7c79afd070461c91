package providers

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
)

// Registry holds the configured LLM clients, OCR providers and the TTS
// provider. It is safe for concurrent use and can be reloaded when the config
// file changes.
type Registry struct {
	mu     sync.RWMutex
	logger *slog.Logger

	llmClients   map[string]LLMClient
	ocrProviders map[string]OCRProvider
	tts          TTSProvider

	// configs the live providers were built from, for change detection
	llmCfg map[string]LLMProviderConfig
	ocrCfg map[string]OCRProviderConfig
	ttsCfg TTSProviderConfig

	ocrOrder   []string
	defaultLLM string
}

// RegistryConfig defines the providers to instantiate. API keys are already
// resolved.
type RegistryConfig struct {
	OCRProviders map[string]OCRProviderConfig
	LLMProviders map[string]LLMProviderConfig
	TTS          TTSProviderConfig

	// OCROrder is the order OCR providers are tried in.
	OCROrder []string
	// DefaultLLM names the client returned by DefaultLLM.
	DefaultLLM string
}

// OCRProviderConfig configures one OCR provider.
type OCRProviderConfig struct {
	Type      string   // "mistral-ocr" or "tesseract"
	Model     string   // mistral model override
	APIKey    string   // required for mistral-ocr
	RateLimit float64  // requests per second
	Languages []string // tesseract languages
	Enabled   bool
}

// LLMProviderConfig configures one LLM provider.
type LLMProviderConfig struct {
	Type      string // "openrouter"
	Model     string
	APIKey    string
	RateLimit float64 // requests per second
	Enabled   bool
}

// TTSProviderConfig configures the speech provider.
type TTSProviderConfig struct {
	Type         string // "openai"
	Model        string
	Voice        string
	APIKey       string
	Speed        float64
	Instructions string
	Enabled      bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:       slog.Default(),
		llmClients:   make(map[string]LLMClient),
		ocrProviders: make(map[string]OCRProvider),
		llmCfg:       make(map[string]LLMProviderConfig),
		ocrCfg:       make(map[string]OCRProviderConfig),
	}
}

// NewRegistryFromConfig creates a registry and applies cfg.
func NewRegistryFromConfig(cfg RegistryConfig, logger *slog.Logger) *Registry {
	r := NewRegistry()
	if logger != nil {
		r.logger = logger
	}
	r.Reload(cfg)
	return r
}

// RegisterLLM registers an LLM client by name. The first registered client
// becomes the default if none is set.
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llmClients[name] = client
	if r.defaultLLM == "" {
		r.defaultLLM = name
	}
}

// RegisterOCR registers an OCR provider and appends it to the try order.
func (r *Registry) RegisterOCR(name string, provider OCRProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ocrProviders[name] = provider
	if !slices.Contains(r.ocrOrder, name) {
		r.ocrOrder = append(r.ocrOrder, name)
	}
}

// SetTTS sets the speech provider.
func (r *Registry) SetTTS(p TTSProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tts = p
}

// GetLLM returns an LLM client by name.
func (r *Registry) GetLLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.llmClients[name]
	if !ok {
		return nil, fmt.Errorf("%w: LLM %s", ErrNotConfigured, name)
	}
	return client, nil
}

// GetOCR returns an OCR provider by name.
func (r *Registry) GetOCR(name string) (OCRProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.ocrProviders[name]
	if !ok {
		return nil, fmt.Errorf("%w: OCR %s", ErrNotConfigured, name)
	}
	return p, nil
}

// DefaultLLM returns the default LLM client, or nil when none is configured.
func (r *Registry) DefaultLLM() LLMClient {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.llmClients[r.defaultLLM]; ok {
		return c
	}
	for _, name := range sortedKeys(r.llmClients) {
		return r.llmClients[name]
	}
	return nil
}

// OCRChain returns OCR providers in try order: the configured order first,
// then any other registered providers by name.
func (r *Registry) OCRChain() []OCRProvider {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	chain := make([]OCRProvider, 0, len(r.ocrProviders))
	seen := make(map[string]bool, len(r.ocrProviders))
	for _, name := range r.ocrOrder {
		if p, ok := r.ocrProviders[name]; ok && !seen[name] {
			chain = append(chain, p)
			seen[name] = true
		}
	}
	for _, name := range sortedKeys(r.ocrProviders) {
		if !seen[name] {
			chain = append(chain, r.ocrProviders[name])
		}
	}
	return chain
}

// TTS returns the speech provider, or nil.
func (r *Registry) TTS() TTSProvider {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tts
}

// ListLLM returns registered LLM client names, sorted.
func (r *Registry) ListLLM() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.llmClients)
}

// ListOCR returns registered OCR provider names in try order.
func (r *Registry) ListOCR() []string {
	chain := r.OCRChain()
	names := make([]string, len(chain))
	for i, p := range chain {
		names[i] = p.Name()
	}
	return names
}

// Reload brings the registry in line with cfg. Providers whose config is
// unchanged are kept; changed ones are rebuilt; removed or disabled ones are
// dropped. Providers added with RegisterLLM or RegisterOCR are left alone.
func (r *Registry) Reload(cfg RegistryConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for name, pc := range cfg.LLMProviders {
		if !pc.Enabled || pc.APIKey == "" {
			continue
		}
		if old, ok := r.llmCfg[name]; ok && old == pc {
			continue
		}
		client, err := createLLMClient(pc)
		if err != nil {
			r.logger.Warn("skipping LLM provider", "name", name, "error", err)
			continue
		}
		r.llmClients[name] = client
		r.llmCfg[name] = pc
		r.logger.Info("registered LLM client", "name", name, "type", pc.Type)
	}
	for name := range r.llmClients {
		if _, ok := r.llmCfg[name]; !ok {
			continue
		}
		pc, ok := cfg.LLMProviders[name]
		if !ok || !pc.Enabled || pc.APIKey == "" {
			delete(r.llmClients, name)
			delete(r.llmCfg, name)
			r.logger.Info("unregistered LLM client", "name", name)
		}
	}

	for name, pc := range cfg.OCRProviders {
		if !pc.Enabled {
			continue
		}
		if old, ok := r.ocrCfg[name]; ok && sameOCRConfig(old, pc) {
			continue
		}
		provider, err := createOCRProvider(pc)
		if err != nil {
			r.logger.Warn("skipping OCR provider", "name", name, "error", err)
			continue
		}
		r.ocrProviders[name] = provider
		r.ocrCfg[name] = pc
		r.logger.Info("registered OCR provider", "name", name, "type", pc.Type)
	}
	for name := range r.ocrProviders {
		if _, ok := r.ocrCfg[name]; !ok {
			continue
		}
		if pc, ok := cfg.OCRProviders[name]; !ok || !pc.Enabled {
			delete(r.ocrProviders, name)
			delete(r.ocrCfg, name)
			r.logger.Info("unregistered OCR provider", "name", name)
		}
	}

	if cfg.TTS != r.ttsCfg {
		r.tts = nil
		if cfg.TTS.Enabled && cfg.TTS.APIKey != "" {
			tts, err := createTTSProvider(cfg.TTS)
			if err != nil {
				r.logger.Warn("skipping TTS provider", "type", cfg.TTS.Type, "error", err)
			} else {
				r.tts = tts
				r.logger.Info("registered TTS provider", "type", cfg.TTS.Type)
			}
		}
		r.ttsCfg = cfg.TTS
	}

	if len(cfg.OCROrder) > 0 {
		r.ocrOrder = append([]string(nil), cfg.OCROrder...)
	}
	if cfg.DefaultLLM != "" {
		r.defaultLLM = cfg.DefaultLLM
	}
}

func sameOCRConfig(a, b OCRProviderConfig) bool {
	return a.Type == b.Type && a.Model == b.Model && a.APIKey == b.APIKey &&
		a.RateLimit == b.RateLimit && a.Enabled == b.Enabled && slices.Equal(a.Languages, b.Languages)
}

func createLLMClient(cfg LLMProviderConfig) (LLMClient, error) {
	switch cfg.Type {
	case "openrouter", "":
		return NewOpenRouterClient(OpenRouterConfig{
			APIKey:       cfg.APIKey,
			DefaultModel: cfg.Model,
			RPS:          cfg.RateLimit,
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider type %q", cfg.Type)
	}
}

func createOCRProvider(cfg OCRProviderConfig) (OCRProvider, error) {
	switch cfg.Type {
	case MistralOCRType:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("mistral-ocr requires an api_key")
		}
		return NewMistralOCRClient(MistralOCRConfig{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			RateLimit: cfg.RateLimit,
		}), nil
	case TesseractName:
		return NewTesseractOCR(TesseractConfig{Languages: cfg.Languages})
	default:
		return nil, fmt.Errorf("unknown OCR provider type %q", cfg.Type)
	}
}

func createTTSProvider(cfg TTSProviderConfig) (TTSProvider, error) {
	switch cfg.Type {
	case OpenAITTSName, "":
		return NewOpenAITTSClient(OpenAITTSConfig{
			APIKey:       cfg.APIKey,
			Model:        cfg.Model,
			Voice:        cfg.Voice,
			Speed:        cfg.Speed,
			Instructions: cfg.Instructions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown TTS provider type %q", cfg.Type)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
