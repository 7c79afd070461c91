package formgen

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"unicode"
	"unicode/utf8"

	"github.com/jackzampolin/formassist/internal/extract"
)

// Defaults for the text helpers.
const (
	DefaultSummaryWords = 50
	DefaultPhraseCount  = 5
	DefaultTargetLang   = "hi"
)

const (
	minSummarizeLen = 10
	minCleanLen     = 5
	minPhrasesLen   = 20
)

var languageNames = map[string]string{
	"hi": "Hindi",
	"en": "English",
}

// Enhanced is the result of EnhanceOCR.
type Enhanced struct {
	Cleaned string            `json:"cleaned"`
	Fields  map[string]string `json:"fields"`
}

// Assistant provides the text helpers used while filling forms. Without an
// LLM each helper returns a local best effort.
type Assistant struct {
	llm    LLMSource
	engine atomic.Pointer[extract.Engine]
	logger *slog.Logger
}

// NewAssistant creates an Assistant. A nil engine uses the default extract
// engine.
func NewAssistant(llm LLMSource, engine *extract.Engine, logger *slog.Logger) *Assistant {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Assistant{llm: llm, logger: logger}
	a.SetEngine(engine)
	return a
}

// SetEngine swaps the heuristic extractor, e.g. after a match mode change.
func (a *Assistant) SetEngine(e *extract.Engine) {
	if e == nil {
		e = extract.NewEngine()
	}
	a.engine.Store(e)
}

func (a *Assistant) ask(ctx context.Context, op, prompt string) (string, bool) {
	client := clientFrom(a.llm)
	if client == nil {
		return "", false
	}
	out, err := chatText(ctx, client, prompt)
	if err != nil {
		a.logger.Warn("LLM helper failed", "op", op, "provider", client.Name(), "error", err)
		return "", false
	}
	return out, true
}

// Clean corrects transcription errors and capitalizes the first letter.
func (a *Assistant) Clean(ctx context.Context, text string) string {
	cleaned := strings.TrimSpace(text)
	if utf8.RuneCountInString(cleaned) >= minCleanLen {
		if out, ok := a.ask(ctx, "clean", render("clean", struct{ Text string }{cleaned})); ok {
			cleaned = out
		}
	}
	return capitalize(cleaned)
}

// Summarize condenses text to at most maxWords words.
func (a *Assistant) Summarize(ctx context.Context, text string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultSummaryWords
	}
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minSummarizeLen {
		return firstWords(trimmed, maxWords)
	}
	out, ok := a.ask(ctx, "summarize", render("summarize", struct {
		Text     string
		MaxWords int
	}{trimmed, maxWords}))
	if !ok {
		return firstWords(trimmed, maxWords)
	}
	return firstWords(out, maxWords)
}

// Translate renders text in lang ("hi" when empty). Without an LLM the text
// is returned unchanged.
func (a *Assistant) Translate(ctx context.Context, text, lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = DefaultTargetLang
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return text
	}
	name, ok := languageNames[lang]
	if !ok {
		name = lang
	}
	out, ok := a.ask(ctx, "translate", render("translate", struct{ Text, Language string }{trimmed, name}))
	if !ok {
		return text
	}
	return out
}

// Phrases returns up to n key phrases of text.
func (a *Assistant) Phrases(ctx context.Context, text string, n int) []string {
	if n <= 0 {
		n = DefaultPhraseCount
	}
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minPhrasesLen {
		return []string{}
	}
	if out, ok := a.ask(ctx, "phrases", render("phrases", struct {
		Text  string
		Count int
	}{trimmed, n})); ok {
		if phrases := splitPhrases(out, n); len(phrases) > 0 {
			return phrases
		}
	}
	return frequentWords(trimmed, n)
}

// EnhanceOCR cleans OCR text and extracts field values. LLM fields override
// the heuristic ones.
func (a *Assistant) EnhanceOCR(ctx context.Context, text string) *Enhanced {
	res := &Enhanced{
		Cleaned: text,
		Fields:  a.engine.Load().ExtractFields(text).Map(),
	}
	client := clientFrom(a.llm)
	if client == nil {
		return res
	}

	var out struct {
		Cleaned string `json:"cleaned"`
		Fields  []pair `json:"fields"`
	}
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cleaned": map[string]any{"type": "string"},
			"fields":  pairsSchema,
		},
		"required":             []string{"cleaned", "fields"},
		"additionalProperties": false,
	}
	if err := chatJSON(ctx, client, "ocr_enhancement", schema, "", render("enhance_ocr", struct{ Text string }{text}), &out); err != nil {
		a.logger.Warn("OCR enhancement failed", "provider", client.Name(), "error", err)
		return res
	}
	if c := strings.TrimSpace(out.Cleaned); c != "" {
		res.Cleaned = c
	}
	overlay(res.Fields, out.Fields)
	return res
}

// AnalyzeDocument extracts field values from text. When wanted is non-empty
// the heuristic fields are limited to those names; LLM fields overlay them.
func (a *Assistant) AnalyzeDocument(ctx context.Context, text string, wanted []string) map[string]string {
	fields := a.engine.Load().ExtractFields(text).Map()
	var names []string
	if len(wanted) > 0 {
		keep := make(map[string]bool, len(wanted))
		for _, w := range wanted {
			if w = strings.TrimSpace(w); w != "" {
				keep[extract.Slugify(w)] = true
				names = append(names, w)
			}
		}
		if len(keep) > 0 {
			for k := range fields {
				if !keep[k] {
					delete(fields, k)
				}
			}
		}
	}

	client := clientFrom(a.llm)
	if client == nil {
		return fields
	}

	var out struct {
		Fields []pair `json:"fields"`
	}
	schema := map[string]any{
		"type":                 "object",
		"properties":           map[string]any{"fields": pairsSchema},
		"required":             []string{"fields"},
		"additionalProperties": false,
	}
	prompt := render("analyze", struct {
		Text   string
		Fields []string
	}{text, names})
	if err := chatJSON(ctx, client, "document_fields", schema, "", prompt, &out); err != nil {
		a.logger.Warn("document analysis failed", "provider", client.Name(), "error", err)
		return fields
	}
	overlay(fields, out.Fields)
	return fields
}

func overlay(dst map[string]string, pairs []pair) {
	for _, p := range pairs {
		name := strings.TrimSpace(p.Name)
		value := strings.TrimSpace(p.Value)
		if name == "" || value == "" {
			continue
		}
		dst[extract.Slugify(name)] = value
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func firstWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// splitPhrases parses an LLM phrase list, one per line or comma separated.
func splitPhrases(s string, n int) []string {
	sep := func(r rune) bool { return r == '\n' || r == ',' }
	var out []string
	for _, p := range strings.FieldsFunc(s, sep) {
		p = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(p), "-*•0123456789.) "))
		if p == "" {
			continue
		}
		out = append(out, p)
		if len(out) == n {
			break
		}
	}
	return out
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true, "not": true,
	"you": true, "your": true, "all": true, "any": true, "can": true, "her": true,
	"was": true, "one": true, "our": true, "out": true, "has": true, "have": true,
	"his": true, "how": true, "its": true, "may": true, "new": true, "now": true,
	"see": true, "who": true, "did": true, "get": true, "him": true, "let": true,
	"she": true, "too": true, "use": true, "that": true, "this": true, "with": true,
	"from": true, "they": true, "will": true, "would": true, "there": true,
	"their": true, "what": true, "about": true, "which": true, "when": true,
	"were": true, "been": true, "into": true, "than": true, "then": true,
	"them": true, "these": true, "some": true, "could": true, "other": true,
	"also": true, "only": true, "such": true, "should": true, "shall": true,
	"must": true, "here": true, "where": true, "each": true, "please": true,
}

// frequentWords ranks non-stopwords by frequency, ties broken by first
// occurrence.
func frequentWords(text string, n int) []string {
	type stat struct {
		word  string
		count int
		first int
	}
	stats := map[string]*stat{}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, w := range words {
		if utf8.RuneCountInString(w) < 3 || stopwords[w] {
			continue
		}
		if s, ok := stats[w]; ok {
			s.count++
			continue
		}
		stats[w] = &stat{word: w, count: 1, first: i}
	}

	ranked := make([]*stat, 0, len(stats))
	for _, s := range stats {
		ranked = append(ranked, s)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	out := make([]string, 0, n)
	for _, s := range ranked {
		if len(out) == n {
			break
		}
		out = append(out, s.word)
	}
	return out
}
