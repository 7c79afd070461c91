package providers

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get", func(t *testing.T) {
		r := NewRegistry()
		llm := NewMockClient()
		ocr := NewMockOCRProvider()
		r.RegisterLLM("test-llm", llm)
		r.RegisterOCR("test-ocr", ocr)

		if got, err := r.GetLLM("test-llm"); err != nil || got != llm {
			t.Errorf("GetLLM() = %v, %v", got, err)
		}
		if got, err := r.GetOCR("test-ocr"); err != nil || got != ocr {
			t.Errorf("GetOCR() = %v, %v", got, err)
		}
		if r.DefaultLLM() != llm {
			t.Error("first registered LLM should be the default")
		}
	})

	t.Run("missing providers", func(t *testing.T) {
		r := NewRegistry()
		if _, err := r.GetLLM("nope"); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("GetLLM() error = %v", err)
		}
		if _, err := r.GetOCR("nope"); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("GetOCR() error = %v", err)
		}
		if r.DefaultLLM() != nil || r.TTS() != nil || len(r.OCRChain()) != 0 {
			t.Error("empty registry returned providers")
		}
	})

	t.Run("nil registry", func(t *testing.T) {
		var r *Registry
		if r.DefaultLLM() != nil || r.OCRChain() != nil || r.TTS() != nil {
			t.Error("nil registry returned providers")
		}
	})

	t.Run("concurrent access", func(t *testing.T) {
		r := NewRegistry()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				r.RegisterOCR("ocr", NewMockOCRProvider())
			}()
			go func() {
				defer wg.Done()
				_ = r.OCRChain()
			}()
		}
		wg.Wait()
	})
}

func TestRegistry_OCRChainOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		p := NewMockOCRProvider()
		p.ProviderName = name
		r.RegisterOCR(name, p)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, r.ListOCR()); diff != "" {
		t.Errorf("registration order (-want +got):\n%s", diff)
	}

	r.Reload(RegistryConfig{OCROrder: []string{"b", "missing"}})
	if diff := cmp.Diff([]string{"b", "a", "c"}, r.ListOCR()); diff != "" {
		t.Errorf("configured order (-want +got):\n%s", diff)
	}
}

func TestRegistry_Reload(t *testing.T) {
	cfg := RegistryConfig{
		LLMProviders: map[string]LLMProviderConfig{
			"openrouter": {Type: "openrouter", APIKey: "k1", Enabled: true},
			"disabled":   {Type: "openrouter", APIKey: "k2"},
			"nokey":      {Type: "openrouter", Enabled: true},
		},
		OCRProviders: map[string]OCRProviderConfig{
			"mistral": {Type: MistralOCRType, APIKey: "m", Enabled: true},
			"bogus":   {Type: "bogus", Enabled: true},
		},
		TTS:        TTSProviderConfig{Type: "openai", APIKey: "o", Enabled: true},
		DefaultLLM: "openrouter",
	}
	r := NewRegistryFromConfig(cfg, nil)

	if diff := cmp.Diff([]string{"openrouter"}, r.ListLLM()); diff != "" {
		t.Errorf("ListLLM (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{MistralOCRName}, r.ListOCR()); diff != "" {
		t.Errorf("ListOCR (-want +got):\n%s", diff)
	}
	if r.TTS() == nil {
		t.Fatal("expected TTS provider")
	}

	first, _ := r.GetLLM("openrouter")
	r.Reload(cfg)
	if again, _ := r.GetLLM("openrouter"); again != first {
		t.Error("unchanged config rebuilt the client")
	}

	manual := NewMockClient()
	r.RegisterLLM("manual", manual)

	changed := cfg
	changed.LLMProviders = map[string]LLMProviderConfig{
		"openrouter": {Type: "openrouter", APIKey: "rotated", Enabled: true},
	}
	changed.OCRProviders = nil
	changed.TTS = TTSProviderConfig{}
	r.Reload(changed)

	if again, _ := r.GetLLM("openrouter"); again == first {
		t.Error("changed key did not rebuild the client")
	}
	if _, err := r.GetLLM("manual"); err != nil {
		t.Error("manually registered client was removed")
	}
	if len(r.OCRChain()) != 0 {
		t.Errorf("OCR providers left after removal: %v", r.ListOCR())
	}
	if r.TTS() != nil {
		t.Error("TTS provider left after removal")
	}
}

func TestRegistry_TesseractWithoutBuildTag(t *testing.T) {
	if _, err := NewTesseractOCR(TesseractConfig{}); err == nil {
		t.Skip("built with tesseract support")
	}
	r := NewRegistryFromConfig(RegistryConfig{
		OCRProviders: map[string]OCRProviderConfig{"local": {Type: TesseractName, Enabled: true}},
	}, nil)
	if len(r.OCRChain()) != 0 {
		t.Error("tesseract registered without libtesseract")
	}
}
