package endpoints

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/formassist/internal/api"
	"github.com/jackzampolin/formassist/internal/formgen"
	"github.com/jackzampolin/formassist/internal/svcctx"
)

// TextRequest carries text for the LLM helpers.
type TextRequest struct {
	Text string `json:"text"`
}

// SummarizeRequest is the body of summarize.
type SummarizeRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length,omitempty"`
}

// TranslateRequest is the body of translate.
type TranslateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang,omitempty"`
}

// AnalyzeRequest is the body of analyze-document. Fields optionally limits
// the returned field names.
type AnalyzeRequest struct {
	Text   string   `json:"text"`
	Fields []string `json:"fields,omitempty"`
}

// CleanResponse is the response of clean.
type CleanResponse struct {
	Original string `json:"original"`
	Cleaned  string `json:"cleaned"`
}

// SummaryResponse is the response of summarize.
type SummaryResponse struct {
	Original string `json:"original"`
	Summary  string `json:"summary"`
}

// TranslateResponse is the response of translate.
type TranslateResponse struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
	Lang       string `json:"lang"`
}

// PhrasesResponse is the response of phrases.
type PhrasesResponse struct {
	Text    string   `json:"text"`
	Phrases []string `json:"phrases"`
}

// AnalyzeResponse is the response of analyze-document.
type AnalyzeResponse struct {
	Fields map[string]string `json:"fields"`
}

// assistantFrom returns the assistant or answers 503.
func assistantFrom(w http.ResponseWriter, r *http.Request) (*formgen.Assistant, bool) {
	a := svcctx.AssistantFrom(r.Context())
	if a == nil {
		writeError(w, http.StatusServiceUnavailable, "assistant not initialized")
		return nil, false
	}
	return a, true
}

// textCommand builds a CLI command that posts its joined args as text.
func textCommand(use, short, path string, getServerURL func() string, build func(text string) any, result any) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := api.NewClient(getServerURL())
			if err := client.Post(cmd.Context(), path, build(strings.Join(args, " ")), result); err != nil {
				return err
			}
			return api.Output(result)
		},
	}
}

// CleanEndpoint handles POST /api/llm/clean.
type CleanEndpoint struct{}

func (e *CleanEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/llm/clean", e.handler
}

func (e *CleanEndpoint) RequiresInit() bool { return false }
func (e *CleanEndpoint) Group() string      { return "llm" }

// handler godoc
//
//	@Summary	Clean OCR or voice text
//	@Tags		llm
//	@Accept		json
//	@Produce	json
//	@Param		request	body		TextRequest	true	"Text"
//	@Success	200		{object}	CleanResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/llm/clean [post]
func (e *CleanEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decodeJSON(w, r, &req) || !required(w, req.Text, "Text is required") {
		return
	}
	a, ok := assistantFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, CleanResponse{Original: req.Text, Cleaned: a.Clean(r.Context(), req.Text)})
}

func (e *CleanEndpoint) Command(getServerURL func() string) *cobra.Command {
	return textCommand("clean <text>", "Clean OCR or voice text", "/api/llm/clean", getServerURL,
		func(text string) any { return TextRequest{Text: text} }, &CleanResponse{})
}

// SummarizeEndpoint handles POST /api/llm/summarize.
type SummarizeEndpoint struct{}

func (e *SummarizeEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/llm/summarize", e.handler
}

func (e *SummarizeEndpoint) RequiresInit() bool { return false }
func (e *SummarizeEndpoint) Group() string      { return "llm" }

// handler godoc
//
//	@Summary	Summarize text
//	@Tags		llm
//	@Accept		json
//	@Produce	json
//	@Param		request	body		SummarizeRequest	true	"Text and word limit"
//	@Success	200		{object}	SummaryResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/llm/summarize [post]
func (e *SummarizeEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req SummarizeRequest
	if !decodeJSON(w, r, &req) || !required(w, req.Text, "Text is required") {
		return
	}
	a, ok := assistantFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, SummaryResponse{Original: req.Text, Summary: a.Summarize(r.Context(), req.Text, req.MaxLength)})
}

func (e *SummarizeEndpoint) Command(getServerURL func() string) *cobra.Command {
	var maxLength int
	cmd := textCommand("summarize <text>", "Summarize text", "/api/llm/summarize", getServerURL,
		func(text string) any { return SummarizeRequest{Text: text, MaxLength: maxLength} }, &SummaryResponse{})
	cmd.Flags().IntVar(&maxLength, "max-words", formgen.DefaultSummaryWords, "Word limit")
	return cmd
}

// TranslateEndpoint handles POST /api/llm/translate.
type TranslateEndpoint struct{}

func (e *TranslateEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/llm/translate", e.handler
}

func (e *TranslateEndpoint) RequiresInit() bool { return false }
func (e *TranslateEndpoint) Group() string      { return "llm" }

// handler godoc
//
//	@Summary	Translate text
//	@Tags		llm
//	@Accept		json
//	@Produce	json
//	@Param		request	body		TranslateRequest	true	"Text and target language (default hi)"
//	@Success	200		{object}	TranslateResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/llm/translate [post]
func (e *TranslateEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req TranslateRequest
	if !decodeJSON(w, r, &req) || !required(w, req.Text, "Text is required") {
		return
	}
	a, ok := assistantFrom(w, r)
	if !ok {
		return
	}
	lang := strings.TrimSpace(req.TargetLang)
	if lang == "" {
		lang = formgen.DefaultTargetLang
	}
	writeJSON(w, http.StatusOK, TranslateResponse{Original: req.Text, Translated: a.Translate(r.Context(), req.Text, lang), Lang: lang})
}

func (e *TranslateEndpoint) Command(getServerURL func() string) *cobra.Command {
	var lang string
	cmd := textCommand("translate <text>", "Translate text", "/api/llm/translate", getServerURL,
		func(text string) any { return TranslateRequest{Text: text, TargetLang: lang} }, &TranslateResponse{})
	cmd.Flags().StringVar(&lang, "lang", formgen.DefaultTargetLang, "Target language code")
	return cmd
}

// PhrasesEndpoint handles GET /api/llm/phrases.
type PhrasesEndpoint struct{}

func (e *PhrasesEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/llm/phrases", e.handler
}

func (e *PhrasesEndpoint) RequiresInit() bool { return false }
func (e *PhrasesEndpoint) Group() string      { return "llm" }

// handler godoc
//
//	@Summary	Extract key phrases
//	@Tags		llm
//	@Produce	json
//	@Param		text		query		string	true	"Text"
//	@Param		num_phrases	query		int		false	"Number of phrases (default 5)"
//	@Success	200			{object}	PhrasesResponse
//	@Failure	400			{object}	ErrorResponse
//	@Router		/api/llm/phrases [get]
func (e *PhrasesEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("text")
	if !required(w, text, "Text query parameter required") {
		return
	}
	n := formgen.DefaultPhraseCount
	if s := q.Get("num_phrases"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "num_phrases must be an integer")
			return
		}
		n = v
	}
	a, ok := assistantFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, PhrasesResponse{Text: text, Phrases: a.Phrases(r.Context(), text, n)})
}

func (e *PhrasesEndpoint) Command(getServerURL func() string) *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "phrases <text>",
		Short: "Extract key phrases",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("text", strings.Join(args, " "))
			q.Set("num_phrases", strconv.Itoa(n))
			client := api.NewClient(getServerURL())
			var resp PhrasesResponse
			if err := client.Get(cmd.Context(), "/api/llm/phrases?"+q.Encode(), &resp); err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
	cmd.Flags().IntVarP(&n, "num", "n", formgen.DefaultPhraseCount, "Number of phrases")
	return cmd
}

// EnhanceOCREndpoint handles POST /api/ai/enhance-ocr.
type EnhanceOCREndpoint struct{}

func (e *EnhanceOCREndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/ai/enhance-ocr", e.handler
}

func (e *EnhanceOCREndpoint) RequiresInit() bool { return false }
func (e *EnhanceOCREndpoint) Group() string      { return "ai" }

// handler godoc
//
//	@Summary	Clean OCR text and extract fields
//	@Tags		ai
//	@Accept		json
//	@Produce	json
//	@Param		request	body		TextRequest	true	"OCR text"
//	@Success	200		{object}	formgen.Enhanced
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/ai/enhance-ocr [post]
func (e *EnhanceOCREndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decodeJSON(w, r, &req) || !required(w, req.Text, "Text is required") {
		return
	}
	a, ok := assistantFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a.EnhanceOCR(r.Context(), req.Text))
}

func (e *EnhanceOCREndpoint) Command(getServerURL func() string) *cobra.Command {
	return textCommand("enhance-ocr <text>", "Clean OCR text and extract fields", "/api/ai/enhance-ocr", getServerURL,
		func(text string) any { return TextRequest{Text: text} }, &formgen.Enhanced{})
}

// AnalyzeDocumentEndpoint handles POST /api/ai/analyze-document.
type AnalyzeDocumentEndpoint struct{}

func (e *AnalyzeDocumentEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/ai/analyze-document", e.handler
}

func (e *AnalyzeDocumentEndpoint) RequiresInit() bool { return false }
func (e *AnalyzeDocumentEndpoint) Group() string      { return "ai" }

// handler godoc
//
//	@Summary	Extract field values from document text
//	@Tags		ai
//	@Accept		json
//	@Produce	json
//	@Param		request	body		AnalyzeRequest	true	"Document text and optional field names"
//	@Success	200		{object}	AnalyzeResponse
//	@Failure	400		{object}	ErrorResponse
//	@Router		/api/ai/analyze-document [post]
func (e *AnalyzeDocumentEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decodeJSON(w, r, &req) || !required(w, req.Text, "Document text is required") {
		return
	}
	a, ok := assistantFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, AnalyzeResponse{Fields: a.AnalyzeDocument(r.Context(), req.Text, req.Fields)})
}

func (e *AnalyzeDocumentEndpoint) Command(getServerURL func() string) *cobra.Command {
	var fields []string
	cmd := textCommand("analyze <text>", "Extract field values from document text", "/api/ai/analyze-document", getServerURL,
		func(text string) any { return AnalyzeRequest{Text: text, Fields: fields} }, &AnalyzeResponse{})
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Only return these field names")
	return cmd
}
