// Package speech synthesizes prompts for voice-guided form filling and
// caches recent results.
package speech

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jackzampolin/formassist/internal/providers"
)

// DefaultCacheLimit is used when a non-positive limit is configured.
const DefaultCacheLimit = 10

var (
	ErrEmptyText     = errors.New("text is required")
	ErrNoTTSProvider = errors.New("no TTS provider configured")
	// ErrTranscriptionRetired marks the removed server-side transcription.
	// Browsers transcribe with their own speech recognition.
	ErrTranscriptionRetired = errors.New("server transcription endpoint has been retired")
)

// TTSSource returns the current speech provider. *providers.Registry
// satisfies it, so a config reload that swaps the provider is picked up.
type TTSSource interface {
	TTS() providers.TTSProvider
}

type cacheKey struct {
	text string
	lang string
}

type cacheEntry struct {
	key   cacheKey
	audio []byte
}

// Service synthesizes speech through a bounded LRU cache.
type Service struct {
	tts    TTSSource
	logger *slog.Logger

	mu      sync.Mutex
	limit   int
	order   *list.List // front is most recent
	entries map[cacheKey]*list.Element

	group singleflight.Group
}

// New creates a Service with the given cache limit.
func New(tts TTSSource, limit int, logger *slog.Logger) *Service {
	if limit <= 0 {
		limit = DefaultCacheLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		tts:     tts,
		logger:  logger,
		limit:   limit,
		order:   list.New(),
		entries: make(map[cacheKey]*list.Element),
	}
}

// Speak returns MP3 audio for text in lang. Text is trimmed first; identical
// concurrent misses share one provider call.
func (s *Service) Speak(ctx context.Context, text, lang string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = "en"
	}
	key := cacheKey{text: text, lang: lang}

	if audio, ok := s.get(key); ok {
		return audio, nil
	}

	v, err, _ := s.group.Do(lang+"\x00"+text, func() (any, error) {
		if audio, ok := s.get(key); ok {
			return audio, nil
		}
		audio, err := s.generate(ctx, text, lang)
		if err != nil {
			return nil, err
		}
		s.put(key, audio)
		return audio, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// SetLimit resizes the cache, evicting the oldest entries if needed.
func (s *Service) SetLimit(limit int) {
	if limit <= 0 {
		limit = DefaultCacheLimit
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = limit
	s.evict()
}

// Len returns the number of cached entries.
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *Service) generate(ctx context.Context, text, lang string) ([]byte, error) {
	var provider providers.TTSProvider
	if s.tts != nil {
		provider = s.tts.TTS()
	}
	if provider == nil {
		return nil, ErrNoTTSProvider
	}
	res, err := provider.Generate(ctx, &providers.TTSRequest{Text: text, Lang: lang, Format: "mp3"})
	if err != nil {
		return nil, fmt.Errorf("tts %s: %w", provider.Name(), err)
	}
	if res == nil || len(res.Audio) == 0 {
		return nil, fmt.Errorf("tts %s: empty audio", provider.Name())
	}
	s.logger.Debug("speech generated", "provider", provider.Name(), "lang", lang, "chars", len(text))
	return res.Audio, nil
}

func (s *Service) get(key cacheKey) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	s.order.MoveToFront(el)
	return el.Value.(*cacheEntry).audio, true
}

func (s *Service) put(key cacheKey, audio []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.entries[key]; ok {
		el.Value.(*cacheEntry).audio = audio
		s.order.MoveToFront(el)
		return
	}
	s.entries[key] = s.order.PushFront(&cacheEntry{key: key, audio: audio})
	s.evict()
}

// evict drops least recently used entries above the limit. Caller holds mu.
func (s *Service) evict() {
	for s.order.Len() > s.limit {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.entries, oldest.Value.(*cacheEntry).key)
	}
}
