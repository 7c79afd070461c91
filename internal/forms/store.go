package forms

import (
	"context"
	"sort"
)

// Store persists templates and their responses.
//
// Implementations assign IDs and timestamps on create, return ErrNotFound for
// missing records, and delete a template's responses together with it.
type Store interface {
	ListTemplates(ctx context.Context) ([]Template, error)
	GetTemplate(ctx context.Context, id string) (*Template, error)
	CreateTemplate(ctx context.Context, t *Template) error
	UpdateTemplate(ctx context.Context, t *Template) error
	DeleteTemplate(ctx context.Context, id string) error
	CountTemplates(ctx context.Context) (int, error)
	FindTemplateByTitle(ctx context.Context, title string) (*Template, error)

	CreateResponse(ctx context.Context, r *Response) error
	GetResponse(ctx context.Context, formID, responseID string) (*Response, error)
	ListResponses(ctx context.Context, formID string) ([]Response, error)

	Close() error
}

// sortTemplates orders by updated_at desc, then created_at desc.
func sortTemplates(ts []Template) {
	sort.SliceStable(ts, func(i, j int) bool {
		if !ts[i].UpdatedAt.Equal(ts[j].UpdatedAt) {
			return ts[i].UpdatedAt.After(ts[j].UpdatedAt)
		}
		return ts[i].CreatedAt.After(ts[j].CreatedAt)
	})
}

func sortResponses(rs []Response) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].CreatedAt.After(rs[j].CreatedAt)
	})
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*DefraStore)(nil)
)
