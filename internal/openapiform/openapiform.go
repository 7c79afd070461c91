// Package openapiform turns the request body of an OpenAPI operation into a
// form schema.
package openapiform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jackzampolin/formassist/internal/forms"
)

// Strings longer than this become textareas.
const textareaMaxLength = 200

var (
	ErrEmptyDocument     = errors.New("openapi document is empty")
	ErrOperationNotFound = errors.New("operation not found")
	ErrNoRequestBody     = errors.New("operation has no form-compatible request body")
)

var mediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

type operation struct {
	id     string
	method string
	path   string
	op     *openapi3.Operation
}

// Operations lists operation IDs that carry a usable request body, in path
// and method order.
// Operations without an ID are named "method:path".
func Operations(ctx context.Context, data []byte) ([]string, error) {
	ops, err := load(ctx, data)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, o := range ops {
		if requestSchema(o.op) != nil {
			ids = append(ids, o.id)
		}
	}
	return ids, nil
}

// FromOpenAPI builds a schema from the request body of operationID. An empty
// operationID selects the first operation with a usable body.
func FromOpenAPI(ctx context.Context, data []byte, operationID string) (forms.Schema, error) {
	ops, err := load(ctx, data)
	if err != nil {
		return forms.Schema{}, err
	}

	operationID = strings.TrimSpace(operationID)
	for _, o := range ops {
		if operationID != "" && o.id != operationID {
			continue
		}
		schema := requestSchema(o.op)
		if schema == nil {
			if operationID != "" {
				return forms.Schema{}, fmt.Errorf("%w: %s", ErrNoRequestBody, operationID)
			}
			continue
		}
		return fieldsOf(schema), nil
	}
	if operationID != "" {
		return forms.Schema{}, fmt.Errorf("%w: %s", ErrOperationNotFound, operationID)
	}
	return forms.Schema{}, ErrNoRequestBody
}

func load(ctx context.Context, data []byte) ([]operation, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyDocument
	}
	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	if spec.Paths == nil {
		return nil, nil
	}

	var ops []operation
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			ops = append(ops, operation{id: id, method: method, path: path, op: op})
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].path != ops[j].path {
			return ops[i].path < ops[j].path
		}
		return ops[i].method < ops[j].method
	})
	return ops, nil
}

// requestSchema returns the object schema of the preferred media type.
func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mt := range mediaTypes {
		media, ok := content[mt]
		if !ok || media == nil || media.Schema == nil || media.Schema.Value == nil {
			continue
		}
		if s := media.Schema.Value; len(properties(s)) > 0 {
			return s
		}
	}
	return nil
}

// properties merges a schema's own properties with those of its allOf parts.
func properties(s *openapi3.Schema) map[string]*openapi3.Schema {
	out := map[string]*openapi3.Schema{}
	var collect func(*openapi3.Schema, int)
	collect = func(s *openapi3.Schema, depth int) {
		if s == nil || depth > 8 {
			return
		}
		for _, ref := range s.AllOf {
			if ref != nil {
				collect(ref.Value, depth+1)
			}
		}
		for name, ref := range s.Properties {
			if ref != nil && ref.Value != nil {
				out[name] = ref.Value
			}
		}
	}
	collect(s, 0)
	return out
}

func required(s *openapi3.Schema) map[string]bool {
	out := map[string]bool{}
	for _, r := range s.Required {
		out[r] = true
	}
	for _, ref := range s.AllOf {
		if ref != nil && ref.Value != nil {
			for k := range required(ref.Value) {
				out[k] = true
			}
		}
	}
	return out
}

func fieldsOf(s *openapi3.Schema) forms.Schema {
	props := properties(s)
	req := required(s)

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]forms.FormField, 0, len(names))
	for _, name := range names {
		p := props[name]
		if p.ReadOnly {
			continue
		}
		f := forms.FormField{
			Name:        name,
			Label:       strings.TrimSpace(p.Title),
			Type:        fieldType(p),
			Required:    req[name],
			Placeholder: strings.TrimSpace(p.Description),
		}
		if f.Label == "" {
			f.Label = humanize(name)
		}
		if f.Type == forms.TypeSelect {
			f.Options = options(p)
		}
		f.FullWidth = f.Type == forms.TypeTextarea
		if p.Default != nil {
			f.Default = fmt.Sprint(p.Default)
		}
		fields = append(fields, f)
	}
	return forms.Schema{Fields: fields}
}

func fieldType(s *openapi3.Schema) string {
	if len(s.Enum) > 0 {
		return forms.TypeSelect
	}
	switch {
	case s.Type.Includes(openapi3.TypeInteger), s.Type.Includes(openapi3.TypeNumber):
		return forms.TypeNumber
	case s.Type.Includes(openapi3.TypeBoolean):
		return forms.TypeSelect
	case s.Type.Includes(openapi3.TypeArray), s.Type.Includes(openapi3.TypeObject):
		return forms.TypeTextarea
	}
	switch strings.ToLower(s.Format) {
	case "email", "idn-email":
		return forms.TypeEmail
	case "date", "date-time":
		return forms.TypeDate
	case "phone", "tel":
		return forms.TypeTel
	case "textarea":
		return forms.TypeTextarea
	}
	if s.MaxLength != nil && *s.MaxLength > textareaMaxLength {
		return forms.TypeTextarea
	}
	return forms.TypeText
}

func options(s *openapi3.Schema) []string {
	if len(s.Enum) == 0 {
		return []string{"true", "false"}
	}
	out := make([]string, 0, len(s.Enum))
	for _, v := range s.Enum {
		if v != nil {
			out = append(out, fmt.Sprint(v))
		}
	}
	return out
}

// humanize turns "dateOfBirth" or "date_of_birth" into "Date Of Birth".
func humanize(name string) string {
	var b strings.Builder
	prev := rune(0)
	for _, r := range name {
		switch {
		case r == '_' || r == '-' || r == '.':
			b.WriteByte(' ')
		case unicode.IsUpper(r) && prev != 0 && unicode.IsLower(prev):
			b.WriteByte(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return cases.Title(language.English).String(strings.Join(strings.Fields(b.String()), " "))
}
