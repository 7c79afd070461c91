package forms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// FieldError describes one rejected response value.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field of a response that failed validation.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "invalid response: " + strings.Join(parts, "; ")
}

// FieldNames returns the offending field names.
func (e *ValidationError) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

const numericPattern = `^\s*-?\d+(\.\d+)?\s*$`

// JSONSchema builds a draft 2020-12 JSON Schema for response data. Optional
// fields accept null and blank strings.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		base := valueSchema(f)
		if f.Required {
			props[f.Name] = map[string]any{
				"allOf": []any{
					base,
					map[string]any{"not": map[string]any{"type": "string", "pattern": `^\s*$`}},
				},
			}
			continue
		}
		props[f.Name] = map[string]any{
			"anyOf": []any{
				map[string]any{"type": "null"},
				map[string]any{"type": "string", "pattern": `^\s*$`},
				base,
			},
		}
	}
	return map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": props,
	}
}

func valueSchema(f FormField) map[string]any {
	switch f.Type {
	case TypeEmail:
		return map[string]any{"type": "string", "format": "email"}
	case TypeDate:
		return map[string]any{"type": "string", "format": "date"}
	case TypeNumber:
		return map[string]any{"anyOf": []any{
			map[string]any{"type": "number"},
			map[string]any{"type": "string", "pattern": numericPattern},
		}}
	case TypeSelect:
		if len(f.Options) > 0 {
			opts := make([]any, len(f.Options))
			for i, o := range f.Options {
				opts[i] = o
			}
			return map[string]any{"enum": opts}
		}
	}
	return map[string]any{"type": []any{"string", "number", "boolean"}}
}

// ValidateResponse checks submitted data against the template schema. A
// *ValidationError is returned when any field fails; other errors mean the
// schema itself could not be compiled.
func ValidateResponse(schema Schema, data map[string]any) error {
	var fieldErrs []FieldError
	for _, f := range schema.Fields {
		if !f.Required {
			continue
		}
		if isBlank(data[f.Name]) {
			fieldErrs = append(fieldErrs, FieldError{Field: f.Name, Message: "is required"})
		}
	}

	compiled, err := compile(schema)
	if err != nil {
		return err
	}
	instance, err := normalizeInstance(data)
	if err != nil {
		return err
	}
	if err := compiled.Validate(instance); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return fmt.Errorf("failed to validate response: %w", err)
		}
		fieldErrs = append(fieldErrs, collectFieldErrors(schema, verr)...)
	}

	if len(fieldErrs) == 0 {
		return nil
	}
	return &ValidationError{Fields: dedupe(schema, fieldErrs)}
}

func isBlank(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	}
	return false
}

func compile(schema Schema) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema.JSONSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource("response.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load response schema: %w", err)
	}
	compiled, err := compiler.Compile("response.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile response schema: %w", err)
	}
	return compiled, nil
}

// normalizeInstance round-trips data through JSON so the validator only sees
// decoded JSON types.
func normalizeInstance(data map[string]any) (any, error) {
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response data: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode response data: %w", err)
	}
	return out, nil
}

func collectFieldErrors(schema Schema, verr *jsonschema.ValidationError) []FieldError {
	var out []FieldError
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if name := firstSegment(e.InstanceLocation); name != "" {
			if f, ok := schema.Field(name); ok {
				out = append(out, FieldError{Field: name, Message: describe(f)})
				return
			}
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return out
}

func firstSegment(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return ""
	}
	seg, _, _ := strings.Cut(pointer, "/")
	seg = strings.ReplaceAll(seg, "~1", "/")
	return strings.ReplaceAll(seg, "~0", "~")
}

func describe(f FormField) string {
	switch f.Type {
	case TypeEmail:
		return "must be a valid email address"
	case TypeDate:
		return "must be a date (YYYY-MM-DD)"
	case TypeNumber:
		return "must be a number"
	case TypeSelect:
		if len(f.Options) > 0 {
			return "must be one of: " + strings.Join(f.Options, ", ")
		}
	}
	if f.Required {
		return "is required"
	}
	return "has an invalid value"
}

// dedupe keeps the first error per field and orders them as the schema does.
func dedupe(schema Schema, errs []FieldError) []FieldError {
	order := make(map[string]int, len(schema.Fields))
	for i, f := range schema.Fields {
		order[f.Name] = i
	}
	seen := make(map[string]bool, len(errs))
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		if seen[e.Field] {
			continue
		}
		seen[e.Field] = true
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return order[out[i].Field] < order[out[j].Field] })
	return out
}
