package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	inlineBlankRe = regexp.MustCompile(`(?i)^(?P<label>.{3,}?)(?:[:*]|\b)\s*(?:_{3,}|\.{3,}|-{4,})\s*\(?(?:optional|required)?\)?$`)
	fillRunRe     = regexp.MustCompile(`[_.]{3,}`)
	blankLineRe   = regexp.MustCompile(`^[_.\-\s]{3,}$`)
	flagWordRe    = regexp.MustCompile(`(?i)\b(?:optional|required)\b`)
	fieldWordRe   = regexp.MustCompile(`(?i)\b(?:name|address|city|state|zip|phone|email|reason|amount)\b`)
)

const maxKeywordLabelWords = 6

// lineContext is what a label rule sees: the current line, the line with
// fill-blank runs blanked out, and the look-ahead line if any.
type lineContext struct {
	line       string
	normalized string
	next       string
	hasNext    bool
}

func newLineContext(lines []string, i int) lineContext {
	lc := lineContext{
		line:       lines[i],
		normalized: strings.TrimSpace(fillRunRe.ReplaceAllString(lines[i], " ")),
	}
	if i+1 < len(lines) {
		lc.next, lc.hasNext = lines[i+1], true
	}
	return lc
}

func (lc lineContext) nextIsBlank() bool {
	return lc.hasNext && blankLineRe.MatchString(lc.next)
}

// labelRule derives a field label from a line. Rules are tried in order and
// the first one that matches decides the label.
type labelRule struct {
	name  string
	match func(lc lineContext) (string, bool)
}

var labelRules = []labelRule{
	{name: "inline-blank", match: matchInlineBlank},
	{name: "labelled-value", match: matchLabelledValue},
	{name: "colon-then-blank", match: matchColonThenBlank},
	{name: "question", match: matchQuestion},
	{name: "flagged-colon", match: matchFlaggedColon},
	{name: "field-keyword", match: matchFieldKeyword},
	{name: "before-blank", match: matchBeforeBlank},
}

// deriveLabel returns the label from the first matching rule.
func deriveLabel(lc lineContext) (label, rule string, ok bool) {
	for _, r := range labelRules {
		if label, ok := r.match(lc); ok {
			return label, r.name, true
		}
	}
	return "", "", false
}

// matchInlineBlank: "Name: ________", "Amount ....... (required)".
func matchInlineBlank(lc lineContext) (string, bool) {
	m := inlineBlankRe.FindStringSubmatch(lc.line)
	if m == nil {
		return "", false
	}
	label := strings.TrimSpace(m[inlineBlankRe.SubexpIndex("label")])
	return label, label != ""
}

// matchLabelledValue: a colon followed by text, or a spaced " - " / " = "
// separator with text on both sides.
func matchLabelledValue(lc lineContext) (string, bool) {
	if before, after, found := strings.Cut(lc.normalized, ":"); found {
		if strings.TrimSpace(after) != "" {
			return strings.TrimSpace(before), true
		}
		return "", false
	}
	for _, sep := range []string{" - ", " = "} {
		before, after, found := strings.Cut(lc.normalized, sep)
		if found && strings.TrimSpace(before) != "" && strings.TrimSpace(after) != "" {
			return strings.TrimSpace(before), true
		}
	}
	return "", false
}

func matchColonThenBlank(lc lineContext) (string, bool) {
	before, after, found := strings.Cut(lc.normalized, ":")
	if !found || strings.TrimSpace(after) != "" || !lc.nextIsBlank() {
		return "", false
	}
	return strings.TrimSpace(before), true
}

func matchQuestion(lc lineContext) (string, bool) {
	if !strings.HasSuffix(lc.normalized, "?") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimRight(lc.normalized, "?")), true
}

func matchFlaggedColon(lc lineContext) (string, bool) {
	if !flagWordRe.MatchString(lc.normalized) {
		return "", false
	}
	before, _, found := strings.Cut(lc.normalized, ":")
	if !found {
		return "", false
	}
	return strings.TrimSpace(before), true
}

func matchFieldKeyword(lc lineContext) (string, bool) {
	if !fieldWordRe.MatchString(lc.normalized) {
		return "", false
	}
	if len(strings.Fields(lc.normalized)) > maxKeywordLabelWords {
		return "", false
	}
	return lc.normalized, true
}

func matchBeforeBlank(lc lineContext) (string, bool) {
	if !lc.nextIsBlank() {
		return "", false
	}
	stripped := strings.TrimRight(lc.normalized, "*:")
	if n := utf8.RuneCountInString(stripped); n < minLabelLen || n > maxLabelLen {
		return "", false
	}
	return strings.TrimSpace(stripped), true
}
