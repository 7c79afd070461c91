package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OCRProviders["mistral"].APIKey != "${MISTRAL_API_KEY}" {
		t.Error("expected mistral API key placeholder")
	}
	if cfg.Speech.CacheLimit != 10 {
		t.Errorf("cache limit = %d, want 10", cfg.Speech.CacheLimit)
	}
	if cfg.Auth.SessionTTLDuration() != 24*time.Hour {
		t.Errorf("session ttl = %v", cfg.Auth.SessionTTLDuration())
	}
	if cfg.MaxUploadBytes() != 20<<20 {
		t.Errorf("max upload = %d", cfg.MaxUploadBytes())
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		t.Setenv("TEST_API_KEY", "secret123")
		if result := ResolveEnvVars("${TEST_API_KEY}"); result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		if result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}"); result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		if result := ResolveEnvVars("literal-value"); result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})

	t.Run("expands inside text", func(t *testing.T) {
		t.Setenv("TEST_HOST", "db")
		if result := ResolveEnvVars("http://${TEST_HOST}:9181"); result != "http://db:9181" {
			t.Errorf("got %s", result)
		}
	})
}

func TestSessionTTLDuration(t *testing.T) {
	tests := map[string]time.Duration{
		"":      DefaultSessionTTL,
		"90m":   90 * time.Minute,
		"bogus": DefaultSessionTTL,
		"-1h":   DefaultSessionTTL,
	}
	for in, want := range tests {
		if got := (AuthCfg{SessionTTL: in}).SessionTTLDuration(); got != want {
			t.Errorf("SessionTTLDuration(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewManager(t *testing.T) {
	t.Run("loads from config file", func(t *testing.T) {
		path := writeConfig(t, `
server:
  port: "9000"
storage:
  backend: memory
extract:
  match_mode: substring
llm_providers:
  local:
    type: openrouter
    api_key: literal
    enabled: true
`)
		mgr, err := NewManager(path)
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}

		cfg := mgr.Get()
		if cfg.Server.Port != "9000" || cfg.Storage.Backend != "memory" {
			t.Errorf("server/storage = %+v / %+v", cfg.Server, cfg.Storage)
		}
		if cfg.Extract.MatchMode != "substring" {
			t.Errorf("match mode = %q", cfg.Extract.MatchMode)
		}
		// unset keys keep their defaults
		if cfg.Server.Host != "127.0.0.1" || cfg.Speech.CacheLimit != 10 || cfg.Extract.MaxFields != 60 {
			t.Errorf("defaults lost: %+v %+v %+v", cfg.Server, cfg.Speech, cfg.Extract)
		}
		if _, ok := cfg.GetLLMProvider("local"); !ok {
			t.Error("expected local LLM provider")
		}
		if mgr.ConfigFileUsed() != path {
			t.Errorf("ConfigFileUsed() = %q", mgr.ConfigFileUsed())
		}
	})

	t.Run("defaults without a file", func(t *testing.T) {
		mgr, err := NewManager("", t.TempDir())
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if diff := cmp.Diff([]string{"mistral", "tesseract"}, cfg.Defaults.OCRProviders); diff != "" {
			t.Errorf("ocr order (-want +got):\n%s", diff)
		}
		if len(cfg.Auth.Users) != 2 {
			t.Errorf("users = %+v", cfg.Auth.Users)
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("FORMASSIST_SERVER_PORT", "7777")
		t.Setenv("FORMASSIST_STORAGE_BACKEND", "memory")
		mgr, err := NewManager(writeConfig(t, "server:\n  port: \"9000\"\n"))
		if err != nil {
			t.Fatalf("failed to create manager: %v", err)
		}
		cfg := mgr.Get()
		if cfg.Server.Port != "7777" || cfg.Storage.Backend != "memory" {
			t.Errorf("env override ignored: %+v %+v", cfg.Server, cfg.Storage)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := NewManager(writeConfig(t, "server: [unterminated")); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}

func TestConfig_ToProviderRegistryConfig(t *testing.T) {
	t.Setenv("TEST_MISTRAL_KEY", "m-key")
	t.Setenv("TEST_TTS_KEY", "t-key")

	cfg := DefaultConfig()
	cfg.OCRProviders["mistral"] = OCRProviderCfg{Type: "mistral-ocr", APIKey: "${TEST_MISTRAL_KEY}", Enabled: true}
	cfg.TTS.APIKey = "${TEST_TTS_KEY}"

	rc := cfg.ToProviderRegistryConfig()
	if rc.OCRProviders["mistral"].APIKey != "m-key" {
		t.Errorf("mistral key = %q", rc.OCRProviders["mistral"].APIKey)
	}
	if rc.TTS.APIKey != "t-key" || rc.TTS.Voice != "alloy" {
		t.Errorf("tts = %+v", rc.TTS)
	}
	if diff := cmp.Diff([]string{"eng", "hin"}, rc.OCRProviders["tesseract"].Languages); diff != "" {
		t.Errorf("tesseract languages (-want +got):\n%s", diff)
	}
	if rc.DefaultLLM != "openrouter" || len(rc.OCROrder) != 2 {
		t.Errorf("defaults = %q %v", rc.DefaultLLM, rc.OCROrder)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# formassist configuration") {
		t.Errorf("missing header:\n%s", data)
	}

	mgr, err := NewManager(path)
	if err != nil {
		t.Fatalf("written default does not load: %v", err)
	}
	cfg := mgr.Get()
	if cfg.Defra.ContainerName != "formassist-defra" || cfg.Auth.SessionTTL != "24h" {
		t.Errorf("round trip lost values: %+v %+v", cfg.Defra, cfg.Auth)
	}
	if !cfg.OCRProviders["mistral"].Enabled {
		t.Error("mistral should be enabled")
	}
}

func TestManager_OnChange_Multiple(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "speech:\n  cache_limit: 5\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})
	mgr.OnChange(func(cfg *Config) {})

	mgr.mu.RLock()
	if len(mgr.callbacks) != 3 {
		t.Errorf("expected 3 callbacks, got %d", len(mgr.callbacks))
	}
	mgr.mu.RUnlock()
}

func TestManager_Get_ThreadSafe(t *testing.T) {
	mgr, err := NewManager(writeConfig(t, "speech:\n  cache_limit: 5\n"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = mgr.Get().Speech.CacheLimit
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestManager_WatchConfig(t *testing.T) {
	configFile := writeConfig(t, "extract:\n  match_mode: words\n")

	mgr, err := NewManager(configFile)
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	if got := mgr.Get().Extract.MatchMode; got != "words" {
		t.Errorf("initial match mode = %q", got)
	}

	var callbackCount atomic.Int32
	var lastValue atomic.Value
	mgr.OnChange(func(cfg *Config) {
		callbackCount.Add(1)
		lastValue.Store(cfg.Extract.MatchMode)
	})

	mgr.WatchConfig()

	// Give fsnotify time to set up the watcher
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(configFile, []byte("extract:\n  match_mode: substring\n"), 0o644); err != nil {
		t.Fatalf("failed to write updated config file: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if v, _ := lastValue.Load().(string); v == "substring" {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	if callbackCount.Load() == 0 {
		t.Fatal("callback was not invoked after config file change")
	}
	if got := mgr.Get().Extract.MatchMode; got != "substring" {
		t.Errorf("config not updated: got %q", got)
	}
}

func TestManager_WatchConfigWithoutFile(t *testing.T) {
	mgr, err := NewManager("", t.TempDir())
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	mgr.WatchConfig()
}
