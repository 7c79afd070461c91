package extract

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// FieldType is the input type inferred for a form field.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeEmail    FieldType = "email"
	TypeTel      FieldType = "tel"
	TypeDate     FieldType = "date"
	TypeNumber   FieldType = "number"
	TypeTextarea FieldType = "textarea"
)

const (
	minLabelLen   = 3
	maxLabelLen   = 60
	fullWidthOver = 24
)

// FieldDescriptor describes one inferred form field.
type FieldDescriptor struct {
	Name      string    `json:"name" yaml:"name"`
	Label     string    `json:"label" yaml:"label"`
	Type      FieldType `json:"type" yaml:"type"`
	Required  bool      `json:"required" yaml:"required"`
	FullWidth bool      `json:"fullWidth" yaml:"fullWidth"`
	Default   string    `json:"default,omitempty" yaml:"default,omitempty"`
}

var typeKeywords = []struct {
	typ   FieldType
	words []string
}{
	{TypeEmail, []string{"email"}},
	{TypeTel, []string{"phone", "mobile", "contact"}},
	{TypeDate, []string{"date", "dob", "birth"}},
	{TypeNumber, []string{"amount", "total", "number", "qty"}},
	{TypeTextarea, []string{"address", "reason", "description", "notes"}},
}

// GuessType infers an input type from keywords in a label.
func GuessType(label string) FieldType {
	lower := strings.ToLower(label)
	for _, tk := range typeKeywords {
		if containsAny(lower, tk.words) {
			return tk.typ
		}
	}
	return TypeText
}

// nameSet hands out slugs that are unique within one schema.
type nameSet map[string]struct{}

func (s nameSet) claim(label string) string {
	base := Slugify(label)
	name := base
	for n := 2; ; n++ {
		if _, taken := s[name]; !taken {
			break
		}
		name = base + "_" + strconv.Itoa(n)
	}
	s[name] = struct{}{}
	return name
}

func labelLenOK(label string) bool {
	n := utf8.RuneCountInString(label)
	return n >= minLabelLen && n <= maxLabelLen
}

// InferSchema derives the fields of a blank form from its text. When no line
// looks like a field label it falls back to the values ExtractFields finds,
// carrying each value as the field default. maxFields <= 0 uses the engine
// limit.
func (e *Engine) InferSchema(text string, maxFields int) []FieldDescriptor {
	if maxFields <= 0 {
		maxFields = e.maxFields
	}
	lines := splitLines(text)
	names := nameSet{}
	out := []FieldDescriptor{}

	for i := 0; i < len(lines) && len(out) < maxFields; {
		if blankLineRe.MatchString(lines[i]) {
			i++
			continue
		}
		lc := newLineContext(lines, i)
		label, _, ok := deriveLabel(lc)
		if !ok || !labelLenOK(label) {
			i++
			continue
		}

		source := strings.ToLower(lc.line + " " + lc.next)
		out = append(out, FieldDescriptor{
			Name:      names.claim(label),
			Label:     label,
			Type:      GuessType(label),
			Required:  strings.Contains(source, "required"),
			FullWidth: utf8.RuneCountInString(label) > fullWidthOver,
		})

		if lc.nextIsBlank() {
			i += 2
		} else {
			i++
		}
	}
	if len(out) > 0 {
		return out
	}
	return e.schemaFromValues(text, maxFields)
}

func (e *Engine) schemaFromValues(text string, maxFields int) []FieldDescriptor {
	fields := e.ExtractFields(text)
	out := []FieldDescriptor{}
	for _, key := range fields.Keys() {
		if len(out) >= maxFields {
			break
		}
		label := titleCase(strings.ReplaceAll(key, "_", " "))
		if !labelLenOK(label) {
			continue
		}
		value, _ := fields.Get(key)
		out = append(out, FieldDescriptor{
			Name:      key,
			Label:     label,
			Type:      GuessType(label),
			FullWidth: utf8.RuneCountInString(label) > fullWidthOver,
			Default:   value,
		})
	}
	return out
}
