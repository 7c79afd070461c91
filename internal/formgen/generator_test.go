package formgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackzampolin/formassist/internal/forms"
	"github.com/jackzampolin/formassist/internal/providers"
)

func TestGenerate_LLM(t *testing.T) {
	mock := &providers.MockClient{ResponseJSON: json.RawMessage(`{"fields":[
		{"name":"","label":"Applicant <b>Name</b>","type":"text","required":true,"fullWidth":true,"placeholder":"As on <script>alert(1)</script>Aadhaar","options":null},
		{"name":"Comments","label":"","type":"TEXTAREA","required":false,"fullWidth":null,"placeholder":null,"options":null},
		{"name":"department","label":"Department","type":"select","required":true,"fullWidth":null,"placeholder":null,"options":["Revenue","","Health &amp; Welfare"]},
		{"name":"size","label":"Size","type":"select","required":false,"fullWidth":null,"placeholder":null,"options":[]},
		{"name":"applicant_name","label":"Duplicate","type":"text","required":false,"fullWidth":null,"placeholder":null,"options":null},
		{"name":"","label":"","type":"text","required":false,"fullWidth":null,"placeholder":null,"options":null},
		{"name":"pet","label":"Pet","type":"checkbox","required":false,"fullWidth":false,"placeholder":null,"options":null}
	]}`)}

	g := NewGenerator(Static(mock), nil)
	res, err := g.Generate(context.Background(), "  job application  ")
	if err != nil {
		t.Fatalf("Generate error = %v", err)
	}
	if res.Source != SourceLLM {
		t.Errorf("Source = %q, want %q", res.Source, SourceLLM)
	}

	want := forms.Schema{Fields: []forms.FormField{
		{Name: "applicant_name", Label: "Applicant Name", Type: "text", Required: true, FullWidth: true, Placeholder: "As on Aadhaar"},
		{Name: "comments", Label: "comments", Type: "textarea", FullWidth: true},
		{Name: "department", Label: "Department", Type: "select", Required: true, Options: []string{"Revenue", "Health & Welfare"}},
		{Name: "size", Label: "Size", Type: "text"},
		{Name: "pet", Label: "Pet", Type: "text"},
	}}
	if diff := cmp.Diff(want, res.Schema); diff != "" {
		t.Errorf("schema mismatch (-want +got):\n%s", diff)
	}

	req := mock.LastRequest()
	if req == nil || req.ResponseFormat == nil {
		t.Fatal("expected a structured output request")
	}
	if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "job application") {
		t.Errorf("messages = %+v", req.Messages)
	}
}

func TestGenerate_Fallback(t *testing.T) {
	ctx := context.Background()
	prompt := "Registration with name, email and gender"
	want := Fallback(prompt)

	tests := []struct {
		name string
		llm  LLMSource
	}{
		{"no source", nil},
		{"no client", Static(nil)},
		{"llm error", Static(&providers.MockClient{ShouldFail: true})},
		{"invalid json", Static(&providers.MockClient{Respond: func(*providers.ChatRequest) (string, error) {
			return "I cannot help with that", nil
		}})},
		{"no fields", Static(&providers.MockClient{ResponseJSON: json.RawMessage(`{"fields":[]}`)})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewGenerator(tt.llm, nil).Generate(ctx, prompt)
			if err != nil {
				t.Fatalf("Generate error = %v", err)
			}
			if res.Source != SourceFallback {
				t.Errorf("Source = %q", res.Source)
			}
			if diff := cmp.Diff(want, res.Schema); diff != "" {
				t.Errorf("schema mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := NewGenerator(nil, nil).Generate(ctx, "   "); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("blank prompt error = %v", err)
	}
}

func TestFallback(t *testing.T) {
	tests := []struct {
		prompt string
		want   []string
	}{
		{"Create a contact form with name, email, message", []string{"full_name", "email", "phone", "comments"}},
		{"Patient intake: DOB, age, sex, home address", []string{"address", "date", "age", "gender"}},
		{"Feedback survey", []string{"comments"}},
		{"Something unrelated", []string{"full_name", "email"}},
		{"", []string{"full_name", "email"}},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			got := Fallback(tt.prompt).Names()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Fallback(%q) names mismatch (-want +got):\n%s", tt.prompt, diff)
			}
		})
	}

	gender, _ := Fallback("gender").Field("gender")
	if diff := cmp.Diff([]string{"Male", "Female", "Other"}, gender.Options); diff != "" {
		t.Errorf("gender options mismatch:\n%s", diff)
	}
	// Callers may edit the result without touching the keyword table.
	gender.Options[0] = "changed"
	again, _ := Fallback("gender").Field("gender")
	if again.Options[0] != "Male" {
		t.Error("Fallback shares option slices between calls")
	}

	email, _ := Fallback("nothing").Field("email")
	if email.Label != "Email" || !email.Required {
		t.Errorf("default email field = %+v", email)
	}
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"Plain":                              "Plain",
		"  <b>Bold</b> label ":               "Bold label",
		"<script>alert('x')</script>Name":    "Name",
		"Name &amp; Address":                 "Name & Address",
		`<a href="javascript:x()">link</a>`: "link",
	}
	for in, want := range tests {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}
