package speech

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jackzampolin/formassist/internal/providers"
)

type fixedTTS struct{ p providers.TTSProvider }

func (f fixedTTS) TTS() providers.TTSProvider { return f.p }

func TestSpeak(t *testing.T) {
	ctx := context.Background()
	mock := &providers.MockTTSProvider{}
	s := New(fixedTTS{mock}, 3, nil)

	audio, err := s.Speak(ctx, "  Enter your name  ", "hi")
	if err != nil {
		t.Fatalf("Speak error = %v", err)
	}
	if string(audio) != "audio:hi:Enter your name" {
		t.Errorf("audio = %q", audio)
	}

	// Same text after trimming hits the cache.
	if _, err := s.Speak(ctx, "Enter your name", "hi"); err != nil {
		t.Fatalf("Speak error = %v", err)
	}
	if mock.Calls() != 1 {
		t.Errorf("provider called %d times, want 1", mock.Calls())
	}

	// Language is part of the key.
	if _, err := s.Speak(ctx, "Enter your name", "en"); err != nil {
		t.Fatalf("Speak error = %v", err)
	}
	if mock.Calls() != 2 {
		t.Errorf("provider called %d times, want 2", mock.Calls())
	}
}

func TestSpeak_Errors(t *testing.T) {
	ctx := context.Background()

	s := New(fixedTTS{&providers.MockTTSProvider{}}, 0, nil)
	for _, text := range []string{"", "   \n\t"} {
		if _, err := s.Speak(ctx, text, "en"); !errors.Is(err, ErrEmptyText) {
			t.Errorf("Speak(%q) error = %v, want ErrEmptyText", text, err)
		}
	}

	if _, err := New(nil, 0, nil).Speak(ctx, "hi", "en"); !errors.Is(err, ErrNoTTSProvider) {
		t.Errorf("nil source error = %v", err)
	}
	if _, err := New(fixedTTS{nil}, 0, nil).Speak(ctx, "hi", "en"); !errors.Is(err, ErrNoTTSProvider) {
		t.Errorf("nil provider error = %v", err)
	}

	failing := New(fixedTTS{&providers.MockTTSProvider{ShouldFail: true}}, 0, nil)
	if _, err := failing.Speak(ctx, "hi", "en"); err == nil {
		t.Error("expected provider error")
	}
	if failing.Len() != 0 {
		t.Error("failures must not be cached")
	}
}

func TestCache_LRU(t *testing.T) {
	ctx := context.Background()
	mock := &providers.MockTTSProvider{}
	s := New(fixedTTS{mock}, 2, nil)

	speak := func(text string) {
		t.Helper()
		if _, err := s.Speak(ctx, text, "en"); err != nil {
			t.Fatalf("Speak(%q) error = %v", text, err)
		}
	}

	speak("a")
	speak("b")
	speak("a") // refresh a; b is now oldest
	speak("c") // evicts b
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	calls := mock.Calls()

	speak("a")
	if mock.Calls() != calls {
		t.Error("a should still be cached")
	}
	speak("b")
	if mock.Calls() != calls+1 {
		t.Error("b should have been evicted")
	}

	s.SetLimit(1)
	if s.Len() != 1 {
		t.Errorf("Len after SetLimit(1) = %d", s.Len())
	}
}

func TestSpeak_Concurrent(t *testing.T) {
	ctx := context.Background()
	mock := &providers.MockTTSProvider{}
	s := New(fixedTTS{mock}, 5, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text := fmt.Sprintf("prompt %d", i%8)
			audio, err := s.Speak(ctx, text, "en")
			if err != nil {
				t.Errorf("Speak error = %v", err)
				return
			}
			if string(audio) != "audio:en:"+text {
				t.Errorf("audio = %q", audio)
			}
		}(i)
	}
	wg.Wait()

	if s.Len() > 5 {
		t.Errorf("cache grew to %d entries", s.Len())
	}
}
