package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// maxStructuredRepairAttempts bounds how often an invalid structured reply is
// sent back to the model for correction.
const maxStructuredRepairAttempts = 2

// JSONSchemaFormat builds a strict json_schema ResponseFormat named name.
func JSONSchemaFormat(name string, schema json.RawMessage) (*ResponseFormat, error) {
	wrapper, err := json.Marshal(map[string]any{
		"name":   name,
		"strict": true,
		"schema": schema,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to wrap schema %s: %w", name, err)
	}
	return &ResponseFormat{Type: "json_schema", JSONSchema: wrapper}, nil
}

// parseStructuredJSON parses model output as JSON. Markdown code fences and
// prose around a single object or array are tolerated.
func parseStructuredJSON(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty structured output")
	}
	for _, candidate := range []string{content, stripCodeFences(content), extractJSONCandidate(content)} {
		if candidate == "" {
			continue
		}
		var v any
		if json.Unmarshal([]byte(candidate), &v) == nil {
			out, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("failed to normalize structured output: %w", err)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("failed to parse structured JSON")
}

// StripCodeFences removes a surrounding ``` or ```json fence.
func StripCodeFences(content string) string {
	if s := stripCodeFences(content); s != "" {
		return s
	}
	return strings.TrimSpace(content)
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractJSONCandidate returns the span from the first '{' or '[' to the last
// matching closer.
func extractJSONCandidate(content string) string {
	start := strings.IndexAny(content, "{[")
	if start < 0 {
		return ""
	}
	closer := "}"
	if content[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(content, closer)
	if end < start {
		return ""
	}
	return content[start : end+1]
}

var schemaCache sync.Map // string(schema) -> *jsonschema.Schema

// validateStructuredJSON validates parsed against the schema inside a
// JSONSchemaFormat wrapper (or a bare schema).
func validateStructuredJSON(wrapper, parsed json.RawMessage) error {
	if len(wrapper) == 0 || len(parsed) == 0 {
		return nil
	}
	schema, err := compileSchema(wrapper)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(parsed, &doc); err != nil {
		return fmt.Errorf("failed to decode structured JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("structured output does not match schema: %w", err)
	}
	return nil
}

func compileSchema(wrapper json.RawMessage) (*jsonschema.Schema, error) {
	key := string(wrapper)
	if s, ok := schemaCache.Load(key); ok {
		return s.(*jsonschema.Schema), nil
	}

	raw := wrapper
	var outer struct {
		Schema json.RawMessage `json:"schema"`
	}
	if json.Unmarshal(wrapper, &outer) == nil && len(outer.Schema) > 0 {
		raw = outer.Schema
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load structured schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile structured schema: %w", err)
	}
	schemaCache.Store(key, schema)
	return schema, nil
}

func structuredRepairPrompt(wrapper json.RawMessage, issue error) string {
	return fmt.Sprintf(`Your previous reply was not valid. Return ONLY JSON (no markdown, no commentary) matching this schema:
%s

Problem:
%v`, string(wrapper), issue)
}
