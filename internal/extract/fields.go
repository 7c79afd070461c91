package extract

import (
	"bytes"
	"encoding/json"
)

// Fields is an insertion-ordered string map with first-writer-wins semantics.
// A key, once set, keeps its value for the lifetime of the map.
type Fields struct {
	keys   []string
	values map[string]string
}

// NewFields returns an empty Fields.
func NewFields() *Fields {
	return &Fields{values: make(map[string]string)}
}

// Set stores value under key unless the key is already present or value is
// empty. It reports whether the value was stored.
func (f *Fields) Set(key, value string) bool {
	if key == "" || value == "" {
		return false
	}
	if _, ok := f.values[key]; ok {
		return false
	}
	f.keys = append(f.keys, key)
	f.values[key] = value
	return true
}

func (f *Fields) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

func (f *Fields) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Keys returns keys in the order they were first written.
func (f *Fields) Keys() []string {
	return append([]string(nil), f.keys...)
}

func (f *Fields) Len() int {
	return len(f.keys)
}

// Map returns a plain map copy.
func (f *Fields) Map() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the fields as a JSON object in insertion order.
func (f *Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(f.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
