package forms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jackzampolin/formassist/internal/defra"
	"github.com/jackzampolin/formassist/internal/schema"
)

var (
	templateFields = []string{"_docID", "form_id", "title", "description", "schema_json", "created_by", "created_at", "updated_at"}
	responseFields = []string{"_docID", "response_id", "form_id", "username", "data_json", "created_at"}
)

// DefraStore keeps forms in DefraDB. Records are addressed by their own
// form_id/response_id so IDs look the same as in the other backends.
type DefraStore struct {
	client *defra.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewDefraStore applies the collection schemas and returns a store.
func NewDefraStore(ctx context.Context, client *defra.Client, logger *slog.Logger) (*DefraStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := schema.Initialize(ctx, client, logger); err != nil {
		return nil, err
	}
	return &DefraStore{
		client: client,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *DefraStore) Close() error { return nil }

func (s *DefraStore) ListTemplates(ctx context.Context) ([]Template, error) {
	docs, err := defra.NewQuery(schema.FormTemplate).
		Fields(templateFields...).
		OrderBy("updated_at", "DESC").
		OrderBy("created_at", "DESC").
		Execute(ctx, s.client)
	if err != nil {
		return nil, err
	}
	out := make([]Template, 0, len(docs))
	for _, doc := range docs {
		t, err := templateFromDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *DefraStore) GetTemplate(ctx context.Context, id string) (*Template, error) {
	doc, err := s.findOne(ctx, schema.FormTemplate, "form_id", id, templateFields)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return templateFromDoc(doc)
}

func (s *DefraStore) FindTemplateByTitle(ctx context.Context, title string) (*Template, error) {
	title = strings.TrimSpace(title)
	doc, err := s.findOne(ctx, schema.FormTemplate, "title", title, templateFields)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("template %q: %w", title, ErrNotFound)
	}
	return templateFromDoc(doc)
}

func (s *DefraStore) CountTemplates(ctx context.Context) (int, error) {
	docs, err := defra.NewQuery(schema.FormTemplate).Execute(ctx, s.client)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (s *DefraStore) CreateTemplate(ctx context.Context, t *Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	schemaJSON, err := json.Marshal(t.Schema)
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	now := s.now()
	id := uuid.NewString()
	_, err = s.client.Create(ctx, schema.FormTemplate, map[string]any{
		"form_id":     id,
		"title":       t.Title,
		"description": t.Description,
		"schema_json": string(schemaJSON),
		"created_by":  t.CreatedBy,
		"created_at":  now,
		"updated_at":  now,
	})
	if err != nil {
		return err
	}
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (s *DefraStore) UpdateTemplate(ctx context.Context, t *Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	doc, err := s.findOne(ctx, schema.FormTemplate, "form_id", t.ID, templateFields)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("template %s: %w", t.ID, ErrNotFound)
	}
	existing, err := templateFromDoc(doc)
	if err != nil {
		return err
	}
	schemaJSON, err := json.Marshal(t.Schema)
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	now := s.now()
	docID, _ := doc["_docID"].(string)
	err = s.client.Update(ctx, schema.FormTemplate, docID, map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"schema_json": string(schemaJSON),
		"updated_at":  now,
	})
	if err != nil {
		return err
	}
	t.CreatedBy = existing.CreatedBy
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = now
	return nil
}

// DeleteTemplate removes the template's responses first so a failure leaves
// the template visible rather than orphaning responses.
func (s *DefraStore) DeleteTemplate(ctx context.Context, id string) error {
	doc, err := s.findOne(ctx, schema.FormTemplate, "form_id", id, []string{"_docID"})
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	n, err := s.client.DeleteWhere(ctx, schema.FormResponse, "form_id", id)
	if err != nil {
		return err
	}
	docID, _ := doc["_docID"].(string)
	if err := s.client.Delete(ctx, schema.FormTemplate, docID); err != nil {
		return err
	}
	s.logger.Debug("template deleted", "form_id", id, "responses", n)
	return nil
}

func (s *DefraStore) CreateResponse(ctx context.Context, r *Response) error {
	if _, err := s.GetTemplate(ctx, r.FormID); err != nil {
		return err
	}
	data := r.Data
	if data == nil {
		data = map[string]any{}
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding response data: %w", err)
	}
	now := s.now()
	id := uuid.NewString()
	_, err = s.client.Create(ctx, schema.FormResponse, map[string]any{
		"response_id": id,
		"form_id":     r.FormID,
		"username":    r.Username,
		"data_json":   string(dataJSON),
		"created_at":  now,
	})
	if err != nil {
		return err
	}
	r.ID = id
	r.CreatedAt = now
	return nil
}

func (s *DefraStore) GetResponse(ctx context.Context, formID, responseID string) (*Response, error) {
	docs, err := defra.NewQuery(schema.FormResponse).
		Filter("response_id", responseID).
		Filter("form_id", formID).
		Fields(responseFields...).
		Limit(1).
		Execute(ctx, s.client)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("response %s: %w", responseID, ErrNotFound)
	}
	return responseFromDoc(docs[0])
}

func (s *DefraStore) ListResponses(ctx context.Context, formID string) ([]Response, error) {
	if _, err := s.GetTemplate(ctx, formID); err != nil {
		return nil, err
	}
	docs, err := defra.NewQuery(schema.FormResponse).
		Filter("form_id", formID).
		Fields(responseFields...).
		OrderBy("created_at", "DESC").
		Execute(ctx, s.client)
	if err != nil {
		return nil, err
	}
	out := make([]Response, 0, len(docs))
	for _, doc := range docs {
		r, err := responseFromDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *DefraStore) findOne(ctx context.Context, collection, field, value string, fields []string) (map[string]any, error) {
	docs, err := defra.NewQuery(collection).
		Filter(field, value).
		Fields(fields...).
		Limit(1).
		Execute(ctx, s.client)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

func templateFromDoc(doc map[string]any) (*Template, error) {
	t := &Template{
		ID:          str(doc["form_id"]),
		Title:       str(doc["title"]),
		Description: str(doc["description"]),
		CreatedBy:   str(doc["created_by"]),
		CreatedAt:   parseTime(doc["created_at"]),
		UpdatedAt:   parseTime(doc["updated_at"]),
	}
	if raw := str(doc["schema_json"]); raw != "" {
		if err := json.Unmarshal([]byte(raw), &t.Schema); err != nil {
			return nil, fmt.Errorf("decoding schema of template %s: %w", t.ID, err)
		}
	}
	return t, nil
}

func responseFromDoc(doc map[string]any) (*Response, error) {
	r := &Response{
		ID:        str(doc["response_id"]),
		FormID:    str(doc["form_id"]),
		Username:  str(doc["username"]),
		CreatedAt: parseTime(doc["created_at"]),
	}
	if raw := str(doc["data_json"]); raw != "" {
		if err := json.Unmarshal([]byte(raw), &r.Data); err != nil {
			return nil, fmt.Errorf("decoding data of response %s: %w", r.ID, err)
		}
	}
	return r, nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func parseTime(v any) time.Time {
	t, err := time.Parse(time.RFC3339Nano, str(v))
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
