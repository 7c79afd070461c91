package formgen

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jackzampolin/formassist/internal/extract"
	"github.com/jackzampolin/formassist/internal/forms"
)

// Result sources.
const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// ErrEmptyPrompt is returned by Generate for a blank prompt.
var ErrEmptyPrompt = errors.New("prompt is required")

// Result is a generated schema and where it came from.
type Result struct {
	Schema forms.Schema `json:"schema"`
	Source string       `json:"source"`
}

// formSchema constrains generated forms. Optional attributes are nullable
// rather than absent so every property can be required.
var formSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"fields": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":  map[string]any{"type": "string"},
					"label": map[string]any{"type": "string"},
					"type": map[string]any{
						"type": "string",
						"enum": []string{
							forms.TypeText, forms.TypeEmail, forms.TypeTel, forms.TypeNumber,
							forms.TypeDate, forms.TypeTextarea, forms.TypeSelect,
						},
					},
					"required":    map[string]any{"type": "boolean"},
					"fullWidth":   map[string]any{"type": []string{"boolean", "null"}},
					"placeholder": map[string]any{"type": []string{"string", "null"}},
					"options": map[string]any{
						"type":  []string{"array", "null"},
						"items": map[string]any{"type": "string"},
					},
				},
				"required":             []string{"name", "label", "type", "required", "fullWidth", "placeholder", "options"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []string{"fields"},
	"additionalProperties": false,
}

type llmField struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	FullWidth   *bool    `json:"fullWidth"`
	Placeholder *string  `json:"placeholder"`
	Options     []string `json:"options"`
}

type llmForm struct {
	Fields []llmField `json:"fields"`
}

// Generator turns prompts into form schemas.
type Generator struct {
	llm    LLMSource
	logger *slog.Logger
}

// NewGenerator creates a Generator. llm may be nil.
func NewGenerator(llm LLMSource, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{llm: llm, logger: logger}
}

// Generate designs a form for prompt. LLM failures are logged and answered
// by the keyword fallback, so the only error is ErrEmptyPrompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (*Result, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	client := clientFrom(g.llm)
	if client == nil {
		g.logger.Debug("no LLM configured, using keyword fallback")
		return &Result{Schema: Fallback(prompt), Source: SourceFallback}, nil
	}

	var out llmForm
	err := chatJSON(ctx, client, "form_schema", formSchema,
		render("generate_system", nil),
		render("generate_user", struct{ Prompt string }{prompt}),
		&out)
	if err != nil {
		g.logger.Warn("form generation failed, using keyword fallback", "provider", client.Name(), "error", err)
		return &Result{Schema: Fallback(prompt), Source: SourceFallback}, nil
	}

	schema := normalize(out.Fields)
	if len(schema.Fields) == 0 {
		g.logger.Warn("LLM returned no usable fields, using keyword fallback", "provider", client.Name())
		return &Result{Schema: Fallback(prompt), Source: SourceFallback}, nil
	}
	return &Result{Schema: schema, Source: SourceLLM}, nil
}

var validTypes = map[string]bool{
	forms.TypeText: true, forms.TypeEmail: true, forms.TypeTel: true, forms.TypeNumber: true,
	forms.TypeDate: true, forms.TypeTextarea: true, forms.TypeSelect: true,
}

// normalize fills in missing names, labels and types, sanitizes text and
// drops duplicate names.
func normalize(in []llmField) forms.Schema {
	seen := make(map[string]bool, len(in))
	fields := make([]forms.FormField, 0, len(in))
	for _, f := range in {
		label := Sanitize(f.Label)
		name := strings.TrimSpace(f.Name)
		if name == "" {
			name = label
		}
		if name == "" {
			continue
		}
		name = extract.Slugify(name)
		if seen[name] {
			continue
		}
		seen[name] = true
		if label == "" {
			label = name
		}

		typ := strings.ToLower(strings.TrimSpace(f.Type))
		if !validTypes[typ] {
			typ = forms.TypeText
		}

		var options []string
		if typ == forms.TypeSelect {
			for _, o := range f.Options {
				if o = Sanitize(o); o != "" {
					options = append(options, o)
				}
			}
			if len(options) == 0 {
				typ = forms.TypeText
			}
		}

		field := forms.FormField{
			Name:      name,
			Label:     label,
			Type:      typ,
			Required:  f.Required,
			FullWidth: typ == forms.TypeTextarea,
			Options:   options,
		}
		if f.FullWidth != nil {
			field.FullWidth = *f.FullWidth
		}
		if f.Placeholder != nil {
			field.Placeholder = Sanitize(*f.Placeholder)
		}
		fields = append(fields, field)
	}
	return forms.Schema{Fields: fields}
}

var strictPolicy = bluemonday.StrictPolicy()

// Sanitize strips all markup from s and returns plain text.
func Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}
