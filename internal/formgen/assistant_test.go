package formgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackzampolin/formassist/internal/extract"
	"github.com/jackzampolin/formassist/internal/providers"
)

const sampleDoc = "Full Name: John Smith\nEmail: john@x.com\nPhone: 9876543210"

func TestAssistant_NoLLM(t *testing.T) {
	ctx := context.Background()
	a := NewAssistant(nil, nil, nil)

	if got := a.Clean(ctx, "  hello world "); got != "Hello world" {
		t.Errorf("Clean = %q", got)
	}
	if got := a.Clean(ctx, "éclair"); got != "Éclair" {
		t.Errorf("Clean unicode = %q", got)
	}
	if got := a.Clean(ctx, "   "); got != "" {
		t.Errorf("Clean blank = %q", got)
	}

	if got := a.Summarize(ctx, "one two three four five six", 3); got != "one two three" {
		t.Errorf("Summarize = %q", got)
	}
	if got := a.Summarize(ctx, "short", 0); got != "short" {
		t.Errorf("Summarize short = %q", got)
	}

	if got := a.Translate(ctx, "Enter your name", ""); got != "Enter your name" {
		t.Errorf("Translate = %q", got)
	}

	phrases := a.Phrases(ctx, "Income certificate application. The income certificate is issued by the tehsil office.", 2)
	if diff := cmp.Diff([]string{"income", "certificate"}, phrases); diff != "" {
		t.Errorf("Phrases mismatch (-want +got):\n%s", diff)
	}
	if got := a.Phrases(ctx, "too short", 5); got == nil || len(got) != 0 {
		t.Errorf("Phrases short = %#v, want empty", got)
	}

	enhanced := a.EnhanceOCR(ctx, sampleDoc)
	if enhanced.Cleaned != sampleDoc {
		t.Errorf("Cleaned = %q", enhanced.Cleaned)
	}
	wantFields := map[string]string{"full_name": "John Smith", "email": "john@x.com", "mobile_number": "9876543210"}
	if diff := cmp.Diff(wantFields, enhanced.Fields); diff != "" {
		t.Errorf("EnhanceOCR fields mismatch (-want +got):\n%s", diff)
	}

	got := a.AnalyzeDocument(ctx, sampleDoc, []string{"Email", " full_name "})
	if diff := cmp.Diff(map[string]string{"full_name": "John Smith", "email": "john@x.com"}, got); diff != "" {
		t.Errorf("AnalyzeDocument mismatch (-want +got):\n%s", diff)
	}
	if got := a.AnalyzeDocument(ctx, sampleDoc, nil); len(got) != 3 {
		t.Errorf("AnalyzeDocument without filter = %v", got)
	}
}

func TestAssistant_LLM(t *testing.T) {
	ctx := context.Background()
	mock := &providers.MockClient{Respond: func(req *providers.ChatRequest) (string, error) {
		prompt := req.Messages[len(req.Messages)-1].Content
		switch {
		case strings.HasPrefix(prompt, "Correct"):
			return "my name is ravi", nil
		case strings.HasPrefix(prompt, "Summarize"):
			return "A short summary of the request text", nil
		case strings.HasPrefix(prompt, "Translate"):
			if !strings.Contains(prompt, "Hindi") {
				return "", errors.New("unexpected language")
			}
			return "अपना नाम दर्ज करें", nil
		case strings.HasPrefix(prompt, "List"):
			return "1. income certificate\n- tehsil office\n\nrevenue department", nil
		case strings.HasPrefix(prompt, "Analyze this OCR"):
			return `{"cleaned":"Full Name: John Smith","fields":[{"name":"Full Name","value":"John A. Smith"},{"name":"city","value":"Pune"},{"name":"","value":"x"}]}`, nil
		case strings.HasPrefix(prompt, "Analyze this document"):
			if !strings.Contains(prompt, "Specifically look for these fields: email") {
				return "", errors.New("missing field hint")
			}
			return "```json\n{\"fields\":[{\"name\":\"email\",\"value\":\"j.smith@x.com\"}]}\n```", nil
		}
		return "", errors.New("unexpected prompt")
	}}
	a := NewAssistant(Static(mock), nil, nil)

	if got := a.Clean(ctx, "my nam is ravi"); got != "My name is ravi" {
		t.Errorf("Clean = %q", got)
	}
	if got := a.Summarize(ctx, "A long request text that needs summarizing", 4); got != "A short summary of" {
		t.Errorf("Summarize = %q", got)
	}
	if got := a.Translate(ctx, "Enter your name", "hi"); got != "अपना नाम दर्ज करें" {
		t.Errorf("Translate = %q", got)
	}
	phrases := a.Phrases(ctx, "Apply for an income certificate at the tehsil office", 2)
	if diff := cmp.Diff([]string{"income certificate", "tehsil office"}, phrases); diff != "" {
		t.Errorf("Phrases mismatch (-want +got):\n%s", diff)
	}

	enhanced := a.EnhanceOCR(ctx, sampleDoc)
	if enhanced.Cleaned != "Full Name: John Smith" {
		t.Errorf("Cleaned = %q", enhanced.Cleaned)
	}
	wantFields := map[string]string{
		"full_name":     "John A. Smith",
		"email":         "john@x.com",
		"mobile_number": "9876543210",
		"city":          "Pune",
	}
	if diff := cmp.Diff(wantFields, enhanced.Fields); diff != "" {
		t.Errorf("EnhanceOCR fields mismatch (-want +got):\n%s", diff)
	}

	got := a.AnalyzeDocument(ctx, sampleDoc, []string{"email"})
	if diff := cmp.Diff(map[string]string{"email": "j.smith@x.com"}, got); diff != "" {
		t.Errorf("AnalyzeDocument mismatch (-want +got):\n%s", diff)
	}
}

func TestAssistant_LLMFailure(t *testing.T) {
	ctx := context.Background()
	a := NewAssistant(Static(&providers.MockClient{ShouldFail: true}), nil, nil)

	if got := a.Clean(ctx, "hello there"); got != "Hello there" {
		t.Errorf("Clean = %q", got)
	}
	if got := a.Summarize(ctx, "alpha beta gamma delta", 2); got != "alpha beta" {
		t.Errorf("Summarize = %q", got)
	}
	if got := a.Translate(ctx, "hello", "hi"); got != "hello" {
		t.Errorf("Translate = %q", got)
	}
	if got := a.Phrases(ctx, "district district office office office", 1); !cmp.Equal(got, []string{"office"}) {
		t.Errorf("Phrases = %v", got)
	}
	if got := a.EnhanceOCR(ctx, sampleDoc); got.Cleaned != sampleDoc || len(got.Fields) != 3 {
		t.Errorf("EnhanceOCR = %+v", got)
	}
}

func TestAssistant_SetEngine(t *testing.T) {
	a := NewAssistant(nil, nil, nil)
	dict, err := extract.NewDictionary([]extract.Entry{{ID: "applicant", Aliases: []string{"full name"}}})
	if err != nil {
		t.Fatalf("NewDictionary: %v", err)
	}
	a.SetEngine(extract.NewEngine(extract.WithDictionary(dict)))

	got := a.EnhanceOCR(context.Background(), "Full Name: John Smith").Fields
	if got["applicant"] != "John Smith" {
		t.Errorf("fields = %v, want applicant key from custom dictionary", got)
	}
}

func TestPrompts(t *testing.T) {
	got := render("analyze", struct {
		Text   string
		Fields []string
	}{"doc", []string{"a", "b"}})
	if !strings.Contains(got, "Specifically look for these fields: a, b") {
		t.Errorf("analyze prompt = %q", got)
	}
	got = render("analyze", struct {
		Text   string
		Fields []string
	}{"doc", nil})
	if strings.Contains(got, "Specifically") {
		t.Errorf("analyze prompt without fields = %q", got)
	}

	var probe map[string]any
	raw, _ := json.Marshal(formSchema)
	if err := json.Unmarshal(raw, &probe); err != nil {
		t.Fatalf("form schema does not round-trip: %v", err)
	}
}
