package forms

// Source names accepted by Merge, highest priority first.
const (
	SourceVoice   = "voice"
	SourceOCR     = "ocr"
	SourceProfile = "profile"
)

var sourcePriority = []string{SourceVoice, SourceOCR, SourceProfile}

// Sources maps a source name to the values it supplied.
type Sources map[string]map[string]any

// Merge picks a value for every schema field from the highest-priority source
// that has a non-empty value. Fields no source fills map to nil. Unknown
// source names are ignored.
func Merge(schema Schema, sources Sources) map[string]any {
	out := make(map[string]any, len(schema.Fields))
	for _, f := range schema.Fields {
		if f.Name == "" {
			continue
		}
		var value any
		for _, src := range sourcePriority {
			if v, ok := sources[src][f.Name]; ok && !isEmptyValue(v) {
				value = v
				break
			}
		}
		out[f.Name] = value
	}
	return out
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case int:
		return val == 0
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	}
	return false
}
