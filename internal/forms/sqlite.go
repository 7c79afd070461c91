package forms

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Fixed width so that ORDER BY on the text column is chronological.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS form_templates (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		schema_json TEXT NOT NULL,
		created_by  TEXT NOT NULL DEFAULT '',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_form_templates_title ON form_templates(title)`,
	`CREATE TABLE IF NOT EXISTS form_responses (
		id         TEXT PRIMARY KEY,
		form_id    TEXT NOT NULL REFERENCES form_templates(id) ON DELETE CASCADE,
		username   TEXT NOT NULL DEFAULT '',
		data_json  TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_form_responses_form ON form_responses(form_id)`,
}

// SQLiteStore persists forms in a single SQLite file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (creating if needed) the database at path and applies
// the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection keeps :memory: databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}

	return &SQLiteStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

const templateColumns = "id, title, description, schema_json, created_by, created_at, updated_at"

func (s *SQLiteStore) ListTemplates(ctx context.Context) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+templateColumns+" FROM form_templates ORDER BY updated_at DESC, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	defer rows.Close()

	out := []Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetTemplate(ctx context.Context, id string) (*Template, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+templateColumns+" FROM form_templates WHERE id = ?", id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return t, err
}

func (s *SQLiteStore) FindTemplateByTitle(ctx context.Context, title string) (*Template, error) {
	title = strings.TrimSpace(title)
	row := s.db.QueryRowContext(ctx,
		"SELECT "+templateColumns+" FROM form_templates WHERE title = ? ORDER BY created_at LIMIT 1", title)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template %q: %w", title, ErrNotFound)
	}
	return t, err
}

func (s *SQLiteStore) CountTemplates(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM form_templates").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting templates: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) CreateTemplate(ctx context.Context, t *Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	schemaJSON, err := json.Marshal(t.Schema)
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	now := s.now()
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO form_templates ("+templateColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, t.Title, t.Description, string(schemaJSON), t.CreatedBy,
		now.Format(sqliteTimeLayout), now.Format(sqliteTimeLayout))
	if err != nil {
		return fmt.Errorf("inserting template: %w", err)
	}
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) UpdateTemplate(ctx context.Context, t *Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	existing, err := s.GetTemplate(ctx, t.ID)
	if err != nil {
		return err
	}
	schemaJSON, err := json.Marshal(t.Schema)
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	now := s.now()
	_, err = s.db.ExecContext(ctx,
		"UPDATE form_templates SET title = ?, description = ?, schema_json = ?, updated_at = ? WHERE id = ?",
		t.Title, t.Description, string(schemaJSON), now.Format(sqliteTimeLayout), t.ID)
	if err != nil {
		return fmt.Errorf("updating template: %w", err)
	}
	t.CreatedBy = existing.CreatedBy
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = now
	return nil
}

func (s *SQLiteStore) DeleteTemplate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM form_templates WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting template: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("template %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) CreateResponse(ctx context.Context, r *Response) error {
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
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO form_responses (id, form_id, username, data_json, created_at) VALUES (?, ?, ?, ?, ?)",
		id, r.FormID, r.Username, string(dataJSON), now.Format(sqliteTimeLayout))
	if err != nil {
		return fmt.Errorf("inserting response: %w", err)
	}
	r.ID = id
	r.CreatedAt = now
	return nil
}

func (s *SQLiteStore) GetResponse(ctx context.Context, formID, responseID string) (*Response, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, form_id, username, data_json, created_at FROM form_responses WHERE id = ? AND form_id = ?",
		responseID, formID)
	r, err := scanResponse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("response %s: %w", responseID, ErrNotFound)
	}
	return r, err
}

func (s *SQLiteStore) ListResponses(ctx context.Context, formID string) ([]Response, error) {
	if _, err := s.GetTemplate(ctx, formID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, form_id, username, data_json, created_at FROM form_responses WHERE form_id = ? ORDER BY created_at DESC",
		formID)
	if err != nil {
		return nil, fmt.Errorf("listing responses: %w", err)
	}
	defer rows.Close()

	out := []Response{}
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTemplate(sc scanner) (*Template, error) {
	var (
		t                    Template
		schemaJSON           string
		createdAt, updatedAt string
	)
	if err := sc.Scan(&t.ID, &t.Title, &t.Description, &schemaJSON, &t.CreatedBy, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning template: %w", err)
	}
	if err := json.Unmarshal([]byte(schemaJSON), &t.Schema); err != nil {
		return nil, fmt.Errorf("decoding schema of template %s: %w", t.ID, err)
	}
	t.CreatedAt, _ = time.Parse(sqliteTimeLayout, createdAt)
	t.UpdatedAt, _ = time.Parse(sqliteTimeLayout, updatedAt)
	return &t, nil
}

func scanResponse(sc scanner) (*Response, error) {
	var (
		r         Response
		dataJSON  string
		createdAt string
	)
	if err := sc.Scan(&r.ID, &r.FormID, &r.Username, &dataJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning response: %w", err)
	}
	if err := json.Unmarshal([]byte(dataJSON), &r.Data); err != nil {
		return nil, fmt.Errorf("decoding data of response %s: %w", r.ID, err)
	}
	r.CreatedAt, _ = time.Parse(sqliteTimeLayout, createdAt)
	return &r, nil
}
