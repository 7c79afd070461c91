package forms

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps everything in process memory. Used by tests and by
// `serve` with storage.backend=memory.
type MemoryStore struct {
	mu        sync.RWMutex
	templates map[string]Template
	responses map[string][]Response // form ID -> responses
	now       func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		templates: make(map[string]Template),
		responses: make(map[string][]Response),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) ListTemplates(ctx context.Context) ([]Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Template, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, cloneTemplate(t))
	}
	sortTemplates(out)
	return out, nil
}

func (s *MemoryStore) GetTemplate(ctx context.Context, id string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	t = cloneTemplate(t)
	return &t, nil
}

func (s *MemoryStore) CreateTemplate(ctx context.Context, t *Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now
	s.templates[t.ID] = cloneTemplate(*t)
	return nil
}

func (s *MemoryStore) UpdateTemplate(ctx context.Context, t *Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.templates[t.ID]
	if !ok {
		return fmt.Errorf("template %s: %w", t.ID, ErrNotFound)
	}
	t.CreatedBy = existing.CreatedBy
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = s.now()
	s.templates[t.ID] = cloneTemplate(*t)
	return nil
}

func (s *MemoryStore) DeleteTemplate(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	delete(s.templates, id)
	delete(s.responses, id)
	return nil
}

func (s *MemoryStore) CountTemplates(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates), nil
}

func (s *MemoryStore) FindTemplateByTitle(ctx context.Context, title string) (*Template, error) {
	title = strings.TrimSpace(title)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.templates {
		if t.Title == title {
			t = cloneTemplate(t)
			return &t, nil
		}
	}
	return nil, fmt.Errorf("template %q: %w", title, ErrNotFound)
}

func (s *MemoryStore) CreateResponse(ctx context.Context, r *Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[r.FormID]; !ok {
		return fmt.Errorf("template %s: %w", r.FormID, ErrNotFound)
	}
	r.ID = uuid.NewString()
	r.CreatedAt = s.now()
	s.responses[r.FormID] = append(s.responses[r.FormID], cloneResponse(*r))
	return nil
}

func (s *MemoryStore) GetResponse(ctx context.Context, formID, responseID string) (*Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.responses[formID] {
		if r.ID == responseID {
			r = cloneResponse(r)
			return &r, nil
		}
	}
	return nil, fmt.Errorf("response %s: %w", responseID, ErrNotFound)
}

func (s *MemoryStore) ListResponses(ctx context.Context, formID string) ([]Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.templates[formID]; !ok {
		return nil, fmt.Errorf("template %s: %w", formID, ErrNotFound)
	}
	out := make([]Response, 0, len(s.responses[formID]))
	for _, r := range s.responses[formID] {
		out = append(out, cloneResponse(r))
	}
	sortResponses(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneTemplate(t Template) Template {
	fields := make([]FormField, len(t.Schema.Fields))
	for i, f := range t.Schema.Fields {
		f.Options = append([]string(nil), f.Options...)
		fields[i] = f
	}
	t.Schema.Fields = fields
	return t
}

func cloneResponse(r Response) Response {
	r.Data = maps.Clone(r.Data)
	return r
}
