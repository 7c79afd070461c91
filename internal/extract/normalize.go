package extract

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// normalizeLabel folds a label into the form aliases are compared in:
// NFKC, lower case, letters/marks/digits only, single spaces. Apostrophes and
// periods are dropped ("Father's" -> "fathers", "D.O.B" -> "dob"); any other
// punctuation separates words ("City/Town" -> "city town").
func normalizeLabel(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsMark(r), unicode.IsDigit(r):
			b.WriteRune(r)
			space = false
		case r == '\'' || r == '’' || r == '`' || r == '.':
		default:
			if !space {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Slugify mints a field identifier from a label: lower case, every run of
// non-alphanumeric characters becomes "_", no leading or trailing "_".
// An empty result becomes "unknown".
func Slugify(label string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(label) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	if b.Len() == 0 {
		return "unknown"
	}
	return b.String()
}

// splitLines returns the non-empty trimmed lines of text.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, ln := range raw {
		if ln = strings.TrimSpace(ln); ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

// titleCase upper-cases the first letter of each word and lower-cases the rest.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
