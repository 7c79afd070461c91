package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minLineLen     = 3
	minPairLabel   = 2
	maxPairLabel   = 50
	innerColonSpan = 20
	nameScanLines  = 5
	addressExtra   = 3
)

var separators = []string{":", "-", "="}

var (
	trailingFillRe = regexp.MustCompile(`\s*[._]{3,}\s*$`)
	leadingSepRe   = regexp.MustCompile(`^[\s:\-=.]+`)
	labelTailRe    = regexp.MustCompile(`[\s:\-=._*]+$`)
)

var addressKeywords = []string{"address", "residence", "residential", "पता"}

var nonNameTokens = []string{
	"form", "application", "government", "department", "office", "certificate", "card", "document",
}

// splitPair finds the first separator, in priority order, that yields a label
// of acceptable length and a non-empty value.
func splitPair(line string) (label, value string, ok bool) {
	for _, sep := range separators {
		i := strings.Index(line, sep)
		if i < 0 {
			continue
		}
		label = strings.TrimSpace(line[:i])
		value = strings.TrimSpace(line[i+len(sep):])
		n := utf8.RuneCountInString(label)
		if n < minPairLabel || n > maxPairLabel || value == "" {
			continue
		}
		return label, value, true
	}
	return "", "", false
}

// cleanValue applies the inner-colon truncation and strips fill-blank runs.
func cleanValue(value string) string {
	if i := strings.Index(value, ":"); i >= 0 && utf8.RuneCountInString(value[:i]) < innerColonSpan {
		value = strings.TrimSpace(value[:i])
	}
	return strings.TrimSpace(trailingFillRe.ReplaceAllString(value, ""))
}

// ExtractFields runs the pattern extractors and then the line parser over
// text. Pattern values are written first and are never replaced.
func (e *Engine) ExtractFields(text string) *Fields {
	fields := e.ExtractValues(text)
	lines := splitLines(text)

	for i, line := range lines {
		if utf8.RuneCountInString(line) < minLineLen {
			continue
		}
		if label, value, ok := splitPair(line); ok {
			if value = cleanValue(value); value != "" {
				fields.Set(e.ResolveLabel(label), value)
			}
			continue
		}
		e.twoLine(fields, lines, i)
	}

	if !fields.Has("full_name") && !fields.Has("name") {
		if name, ok := e.guessName(lines); ok {
			fields.Set("full_name", name)
		}
	}
	if !fields.Has("date_of_birth") {
		if v, ok := findDOB(text); ok {
			fields.Set("date_of_birth", v)
		}
	}
	if !fields.Has("address") {
		if v, ok := e.scanAddress(lines); ok {
			fields.Set("address", v)
		}
	}
	if !fields.Has("pincode") {
		if v, ok := findPincode(text); ok {
			fields.Set("pincode", v)
		}
	}
	return fields
}

// twoLine handles a bare label on one line followed by its value on the next.
func (e *Engine) twoLine(fields *Fields, lines []string, i int) {
	if i+1 >= len(lines) {
		return
	}
	label := labelTailRe.ReplaceAllString(lines[i], "")
	if n := utf8.RuneCountInString(label); n < minPairLabel || n > maxPairLabel {
		return
	}
	id, ok := e.Lookup(label)
	if !ok {
		return
	}
	if entry, found := e.dict.Entry(id); found && entry.Multiline {
		return
	}
	next := lines[i+1]
	if _, _, kv := splitPair(next); kv {
		return
	}
	value := leadingSepRe.ReplaceAllString(next, "")
	value = strings.TrimSpace(trailingFillRe.ReplaceAllString(value, ""))
	fields.Set(id, value)
}

// guessName treats an early letters-only line as the holder's name, the way a
// name is printed under the header of an identity card.
func (e *Engine) guessName(lines []string) (string, bool) {
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}
	for _, line := range lines {
		if strings.ContainsAny(line, ":-") || utf8.RuneCountInString(line) < minLineLen {
			continue
		}
		if !isNameLike(line) {
			continue
		}
		lower := strings.ToLower(line)
		if containsAny(lower, nonNameTokens) {
			continue
		}
		if _, isLabel := e.dict.exact[normalizeLabel(line)]; isLabel {
			continue
		}
		return titleCase(collapseSpaces(line)), true
	}
	return "", false
}

func isNameLike(s string) bool {
	letters := 0
	for _, r := range s {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsMark(r), r == ' ', r == '.', r == '\'':
		default:
			return false
		}
	}
	return letters > 0
}

// scanAddress joins the first address-keyword line with up to three following
// lines, stopping early at a line that carries a different labelled field.
func (e *Engine) scanAddress(lines []string) (string, bool) {
	for i, line := range lines {
		if !containsAny(strings.ToLower(line), addressKeywords) {
			continue
		}
		first, ok := e.addressHead(line)
		if !ok {
			continue
		}
		parts := []string{}
		if first != "" {
			parts = append(parts, first)
		}
		for j := i + 1; j < len(lines) && j <= i+addressExtra; j++ {
			if label, _, kv := splitPair(lines[j]); kv {
				if id, known := e.Lookup(label); known && id != "address" {
					break
				}
			}
			if part := cleanAddressPart(lines[j]); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) == 0 {
			continue
		}
		return collapseSpaces(strings.Join(parts, " ")), true
	}
	return "", false
}

// addressHead returns the address text carried on the keyword line itself.
// Lines whose label resolves to some other field ("Email Address") are not
// address lines.
func (e *Engine) addressHead(line string) (string, bool) {
	if label, value, kv := splitPair(line); kv {
		if id, known := e.Lookup(label); known && id != "address" {
			return "", false
		}
		return cleanAddressPart(value), true
	}
	words := strings.Fields(labelTailRe.ReplaceAllString(line, ""))
	for n := min(len(words), 4); n > 0; n-- {
		if idx, ok := e.dict.exact[normalizeLabel(strings.Join(words[:n], " "))]; ok {
			if e.dict.entries[idx].ID != "address" {
				return "", false
			}
			return cleanAddressPart(strings.Join(words[n:], " ")), true
		}
	}
	return cleanAddressPart(line), true
}

func cleanAddressPart(s string) string {
	s = leadingSepRe.ReplaceAllString(s, "")
	s = trailingFillRe.ReplaceAllString(s, "")
	return strings.TrimSpace(collapseSpaces(s))
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
