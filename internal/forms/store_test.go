package forms

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func TestMemoryStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store {
		s := NewMemoryStore()
		s.now = newFakeClock().Now
		return s
	})
}

func TestSQLiteStore(t *testing.T) {
	testStore(t, func(t *testing.T) Store {
		s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "forms.db"))
		if err != nil {
			t.Fatalf("NewSQLiteStore: %v", err)
		}
		s.now = newFakeClock().Now
		t.Cleanup(func() { s.Close() })
		return s
	})
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "forms.db")

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	tmpl := &Template{Title: "Persisted", Schema: Schema{Fields: []FormField{{Name: "a", Options: []string{"x"}}}}}
	if err := s.CreateTemplate(ctx, tmpl); err != nil {
		t.Fatalf("CreateTemplate: %v", err)
	}
	s.Close()

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.GetTemplate(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if diff := cmp.Diff(tmpl.Schema, got.Schema); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}
	if !got.CreatedAt.Equal(tmpl.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, tmpl.CreatedAt)
	}
}

func testStore(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		s := newStore(t)
		tmpl := &Template{
			Title:       " Leave Form ",
			Description: "Annual leave",
			CreatedBy:   "admin",
			Schema: Schema{Fields: []FormField{
				{Name: "name", Label: "Name", Type: TypeText, Required: true},
				{Name: "kind", Label: "Kind", Type: TypeSelect, Options: []string{"Sick", "Casual"}},
			}},
		}
		if err := s.CreateTemplate(ctx, tmpl); err != nil {
			t.Fatalf("CreateTemplate: %v", err)
		}
		if tmpl.ID == "" || tmpl.CreatedAt.IsZero() || !tmpl.CreatedAt.Equal(tmpl.UpdatedAt) {
			t.Fatalf("CreateTemplate did not assign id/timestamps: %+v", tmpl)
		}

		got, err := s.GetTemplate(ctx, tmpl.ID)
		if err != nil {
			t.Fatalf("GetTemplate: %v", err)
		}
		if got.Title != "Leave Form" || got.Description != "Annual leave" || got.CreatedBy != "admin" {
			t.Errorf("GetTemplate = %+v", got)
		}
		if diff := cmp.Diff(tmpl.Schema, got.Schema); diff != "" {
			t.Errorf("schema mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid template is rejected", func(t *testing.T) {
		s := newStore(t)
		if err := s.CreateTemplate(ctx, &Template{Title: ""}); !errors.Is(err, ErrInvalid) {
			t.Errorf("CreateTemplate = %v, want ErrInvalid", err)
		}
		if n, _ := s.CountTemplates(ctx); n != 0 {
			t.Errorf("CountTemplates = %d", n)
		}
	})

	t.Run("not found", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.GetTemplate(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetTemplate = %v", err)
		}
		if err := s.DeleteTemplate(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("DeleteTemplate = %v", err)
		}
		if err := s.UpdateTemplate(ctx, &Template{ID: "missing", Title: "x"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateTemplate = %v", err)
		}
		if _, err := s.FindTemplateByTitle(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("FindTemplateByTitle = %v", err)
		}
		if err := s.CreateResponse(ctx, &Response{FormID: "missing"}); !errors.Is(err, ErrNotFound) {
			t.Errorf("CreateResponse = %v", err)
		}
		if _, err := s.ListResponses(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("ListResponses = %v", err)
		}
	})

	t.Run("list order follows updates", func(t *testing.T) {
		s := newStore(t)
		a := &Template{Title: "A"}
		b := &Template{Title: "B"}
		c := &Template{Title: "C"}
		for _, tmpl := range []*Template{a, b, c} {
			if err := s.CreateTemplate(ctx, tmpl); err != nil {
				t.Fatalf("CreateTemplate: %v", err)
			}
		}

		a.Description = "touched"
		if err := s.UpdateTemplate(ctx, a); err != nil {
			t.Fatalf("UpdateTemplate: %v", err)
		}
		if !a.UpdatedAt.After(a.CreatedAt) {
			t.Errorf("UpdatedAt %v not after CreatedAt %v", a.UpdatedAt, a.CreatedAt)
		}

		list, err := s.ListTemplates(ctx)
		if err != nil {
			t.Fatalf("ListTemplates: %v", err)
		}
		var titles []string
		for _, tmpl := range list {
			titles = append(titles, tmpl.Title)
		}
		if diff := cmp.Diff([]string{"A", "C", "B"}, titles); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("update keeps creator", func(t *testing.T) {
		s := newStore(t)
		tmpl := &Template{Title: "Orig", CreatedBy: "admin"}
		if err := s.CreateTemplate(ctx, tmpl); err != nil {
			t.Fatalf("CreateTemplate: %v", err)
		}
		update := &Template{ID: tmpl.ID, Title: "Renamed", CreatedBy: "someone-else"}
		if err := s.UpdateTemplate(ctx, update); err != nil {
			t.Fatalf("UpdateTemplate: %v", err)
		}
		got, err := s.GetTemplate(ctx, tmpl.ID)
		if err != nil {
			t.Fatalf("GetTemplate: %v", err)
		}
		if got.Title != "Renamed" || got.CreatedBy != "admin" {
			t.Errorf("GetTemplate = %+v", got)
		}
	})

	t.Run("responses", func(t *testing.T) {
		s := newStore(t)
		tmpl := &Template{Title: "Survey"}
		if err := s.CreateTemplate(ctx, tmpl); err != nil {
			t.Fatalf("CreateTemplate: %v", err)
		}
		first := &Response{FormID: tmpl.ID, Username: "user", Data: map[string]any{"q": "one"}}
		second := &Response{FormID: tmpl.ID, Username: "admin", Data: map[string]any{"q": "two"}}
		for _, r := range []*Response{first, second} {
			if err := s.CreateResponse(ctx, r); err != nil {
				t.Fatalf("CreateResponse: %v", err)
			}
		}

		got, err := s.GetResponse(ctx, tmpl.ID, first.ID)
		if err != nil {
			t.Fatalf("GetResponse: %v", err)
		}
		if got.Username != "user" || got.Data["q"] != "one" {
			t.Errorf("GetResponse = %+v", got)
		}
		if _, err := s.GetResponse(ctx, "other-form", first.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetResponse with wrong form = %v", err)
		}

		list, err := s.ListResponses(ctx, tmpl.ID)
		if err != nil {
			t.Fatalf("ListResponses: %v", err)
		}
		if len(list) != 2 || list[0].ID != second.ID {
			t.Errorf("ListResponses = %+v, want newest first", list)
		}
	})

	t.Run("delete cascades to responses", func(t *testing.T) {
		s := newStore(t)
		tmpl := &Template{Title: "Temp"}
		if err := s.CreateTemplate(ctx, tmpl); err != nil {
			t.Fatalf("CreateTemplate: %v", err)
		}
		resp := &Response{FormID: tmpl.ID, Data: map[string]any{}}
		if err := s.CreateResponse(ctx, resp); err != nil {
			t.Fatalf("CreateResponse: %v", err)
		}
		if err := s.DeleteTemplate(ctx, tmpl.ID); err != nil {
			t.Fatalf("DeleteTemplate: %v", err)
		}
		if _, err := s.GetResponse(ctx, tmpl.ID, resp.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetResponse after delete = %v", err)
		}
		if n, _ := s.CountTemplates(ctx); n != 0 {
			t.Errorf("CountTemplates = %d", n)
		}
	})

	t.Run("seeding", func(t *testing.T) {
		s := newStore(t)
		seeds, err := Seeds()
		if err != nil {
			t.Fatalf("Seeds: %v", err)
		}

		res, err := SeedIfEmpty(ctx, s)
		if err != nil {
			t.Fatalf("SeedIfEmpty: %v", err)
		}
		if res.Added != len(seeds) {
			t.Errorf("SeedIfEmpty added %d, want %d", res.Added, len(seeds))
		}
		res, err = SeedIfEmpty(ctx, s)
		if err != nil {
			t.Fatalf("SeedIfEmpty again: %v", err)
		}
		if res.Added != 0 || res.Existing != len(seeds) {
			t.Errorf("second SeedIfEmpty = %+v", res)
		}

		passport, err := s.FindTemplateByTitle(ctx, "Passport Application")
		if err != nil {
			t.Fatalf("FindTemplateByTitle: %v", err)
		}
		if passport.CreatedBy != SeedUser {
			t.Errorf("CreatedBy = %q", passport.CreatedBy)
		}
		if err := s.DeleteTemplate(ctx, passport.ID); err != nil {
			t.Fatalf("DeleteTemplate: %v", err)
		}

		res, err = SeedMissing(ctx, s)
		if err != nil {
			t.Fatalf("SeedMissing: %v", err)
		}
		want := SeedResult{Added: 1, Existing: len(seeds) - 1, Total: len(seeds)}
		if diff := cmp.Diff(want, res); diff != "" {
			t.Errorf("SeedMissing mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestSeeds(t *testing.T) {
	seeds, err := Seeds()
	if err != nil {
		t.Fatalf("Seeds: %v", err)
	}
	if len(seeds) != 8 {
		t.Fatalf("got %d seeds, want 8", len(seeds))
	}
	for _, s := range seeds {
		tmpl := s
		if err := tmpl.Validate(); err != nil {
			t.Errorf("seed %q: %v", s.Title, err)
		}
		if len(s.Schema.Fields) < 10 {
			t.Errorf("seed %q has only %d fields", s.Title, len(s.Schema.Fields))
		}
	}

	// Callers may mutate the result freely.
	seeds[0].Title = "changed"
	again, _ := Seeds()
	if again[0].Title == "changed" {
		t.Error("Seeds returned shared state")
	}
}
