package providers

import "os"

// TestConfig holds provider API keys read from the environment so that
// integration tests can run against real services when keys are present.
type TestConfig struct {
	OpenRouterAPIKey string
	MistralAPIKey    string
	OpenAIAPIKey     string
}

// LoadTestConfig reads OPENROUTER_API_KEY, MISTRAL_API_KEY and OPENAI_API_KEY.
func LoadTestConfig() TestConfig {
	return TestConfig{
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		MistralAPIKey:    os.Getenv("MISTRAL_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
	}
}

func (c TestConfig) HasOpenRouter() bool { return c.OpenRouterAPIKey != "" }
func (c TestConfig) HasMistral() bool    { return c.MistralAPIKey != "" }
func (c TestConfig) HasOpenAI() bool     { return c.OpenAIAPIKey != "" }

// ToRegistryConfig returns a RegistryConfig with every provider that has a key.
func (c TestConfig) ToRegistryConfig() RegistryConfig {
	cfg := RegistryConfig{
		OCRProviders: make(map[string]OCRProviderConfig),
		LLMProviders: make(map[string]LLMProviderConfig),
	}
	if c.HasOpenRouter() {
		cfg.LLMProviders["openrouter"] = LLMProviderConfig{
			Type: "openrouter", APIKey: c.OpenRouterAPIKey, RateLimit: 2, Enabled: true,
		}
	}
	if c.HasMistral() {
		cfg.OCRProviders["mistral"] = OCRProviderConfig{
			Type: MistralOCRType, APIKey: c.MistralAPIKey, RateLimit: 6, Enabled: true,
		}
	}
	if c.HasOpenAI() {
		cfg.TTS = TTSProviderConfig{Type: OpenAITTSName, APIKey: c.OpenAIAPIKey, Enabled: true}
	}
	return cfg
}
