// Package extract turns plain document text into field values and form field
// schemas using a dictionary of label aliases, regex value recognizers and
// line layout heuristics. Everything here is pure and safe for concurrent use.
package extract

// DefaultMaxFields caps InferSchema when the caller passes a non-positive limit.
const DefaultMaxFields = 60

// Engine bundles the dictionary and tunables used by extraction and schema
// inference. The zero value is not usable; call NewEngine.
type Engine struct {
	dict      *Dictionary
	mode      MatchMode
	maxFields int
}

// Option configures an Engine.
type Option func(*Engine)

// WithDictionary replaces the built-in dictionary.
func WithDictionary(d *Dictionary) Option {
	return func(e *Engine) {
		if d != nil {
			e.dict = d
		}
	}
}

// WithMatchMode sets the containment rule used by Lookup.
func WithMatchMode(m MatchMode) Option {
	return func(e *Engine) { e.mode = m }
}

// WithMaxFields sets the schema size used when InferSchema is called with a
// non-positive limit.
func WithMaxFields(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxFields = n
		}
	}
}

// NewEngine creates an Engine over the default dictionary.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		dict:      DefaultDictionary(),
		mode:      MatchWords,
		maxFields: DefaultMaxFields,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MatchMode reports the engine's containment rule.
func (e *Engine) MatchMode() MatchMode { return e.mode }

// Lookup resolves a label to a canonical field id.
func (e *Engine) Lookup(label string) (string, bool) {
	return e.dict.Lookup(label, e.mode)
}

// ResolveLabel returns the canonical id for label, or its slug when no
// dictionary entry matches.
func (e *Engine) ResolveLabel(label string) string {
	if id, ok := e.Lookup(label); ok {
		return id
	}
	return Slugify(label)
}

// ExtractValues runs every value recognizer once over the whole text.
func (e *Engine) ExtractValues(text string) *Fields {
	fields := NewFields()
	for _, p := range patterns {
		if v, ok := p.find(text); ok {
			fields.Set(p.key, v)
		}
	}
	return fields
}

var defaultEngine = NewEngine()

// Lookup resolves a label against the default dictionary.
func Lookup(label string) (string, bool) { return defaultEngine.Lookup(label) }

// ExtractValues runs the value recognizers with the default engine.
func ExtractValues(text string) *Fields { return defaultEngine.ExtractValues(text) }

// ExtractFields extracts field values with the default engine.
func ExtractFields(text string) *Fields { return defaultEngine.ExtractFields(text) }

// Parse is an alias of ExtractFields.
func Parse(text string) *Fields { return defaultEngine.ExtractFields(text) }

// InferSchema infers a form schema with the default engine.
func InferSchema(text string, maxFields int) []FieldDescriptor {
	return defaultEngine.InferSchema(text, maxFields)
}
