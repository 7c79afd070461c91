package forms

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackzampolin/formassist/internal/extract"
)

// ErrNotFound is returned by stores when a template or response does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalid wraps template validation failures.
var ErrInvalid = errors.New("invalid template")

// Field types understood by the form renderer.
const (
	TypeText     = "text"
	TypeEmail    = "email"
	TypeTel      = "tel"
	TypeNumber   = "number"
	TypeDate     = "date"
	TypeTextarea = "textarea"
	TypeSelect   = "select"
)

// FormField is one input of a form template.
type FormField struct {
	Name        string   `json:"name" yaml:"name"`
	Label       string   `json:"label" yaml:"label"`
	Type        string   `json:"type" yaml:"type"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	FullWidth   bool     `json:"fullWidth,omitempty" yaml:"fullWidth,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty" yaml:"options,omitempty"`
	Rows        int      `json:"rows,omitempty" yaml:"rows,omitempty"`
	Default     string   `json:"default,omitempty" yaml:"default,omitempty"`
}

// Schema is the ordered field list of a template.
type Schema struct {
	Fields []FormField `json:"fields" yaml:"fields"`
}

// Field returns the field with the given name.
func (s Schema) Field(name string) (FormField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FormField{}, false
}

// Names returns field names in schema order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Template is a stored form definition.
type Template struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Schema      Schema    `json:"schema" yaml:"schema"`
	CreatedBy   string    `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

// Validate checks the title and field names and normalizes whitespace in
// place.
func (t *Template) Validate() error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalid)
	}
	seen := make(map[string]bool, len(t.Schema.Fields))
	for i := range t.Schema.Fields {
		f := &t.Schema.Fields[i]
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			return fmt.Errorf("%w: field %d has no name", ErrInvalid, i)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate field name %q", ErrInvalid, f.Name)
		}
		seen[f.Name] = true
		if f.Type == "" {
			f.Type = TypeText
		}
	}
	return nil
}

// Response is one submission of a form.
type Response struct {
	ID        string         `json:"id" yaml:"id"`
	FormID    string         `json:"form_id" yaml:"form_id"`
	Username  string         `json:"username" yaml:"username"`
	Data      map[string]any `json:"data" yaml:"data"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}

// FromDescriptors converts inferred field descriptors into a form schema.
func FromDescriptors(descs []extract.FieldDescriptor) Schema {
	fields := make([]FormField, 0, len(descs))
	for _, d := range descs {
		fields = append(fields, FormField{
			Name:      d.Name,
			Label:     d.Label,
			Type:      string(d.Type),
			Required:  d.Required,
			FullWidth: d.FullWidth,
			Default:   d.Default,
		})
	}
	return Schema{Fields: fields}
}
