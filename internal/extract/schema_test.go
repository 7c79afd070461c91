package extract

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestInferSchema(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []FieldDescriptor
	}{
		{
			name: "empty",
			text: "",
			want: []FieldDescriptor{},
		},
		{
			name: "fill-in blank marked required",
			text: "Reason for visit: ____________ (required)",
			want: []FieldDescriptor{
				{Name: "reason_for_visit", Label: "Reason for visit", Type: TypeTextarea, Required: true},
			},
		},
		{
			name: "colliding names get a suffix",
			text: "Notes: abc\nnotes - def",
			want: []FieldDescriptor{
				{Name: "notes", Label: "Notes", Type: TypeTextarea},
				{Name: "notes_2", Label: "notes", Type: TypeTextarea},
			},
		},
		{
			name: "blank form",
			text: strings.Join([]string{
				"APPLICATION FORM",
				"Email Address ________ (required)",
				"Full Name: ______________",
				"City ________",
				"Date of Birth:",
				"____________",
				"What is your annual income?",
			}, "\n"),
			want: []FieldDescriptor{
				{Name: "email_address", Label: "Email Address", Type: TypeEmail, Required: true},
				{Name: "full_name", Label: "Full Name", Type: TypeText},
				{Name: "city", Label: "City", Type: TypeText},
				{Name: "date_of_birth", Label: "Date of Birth", Type: TypeDate},
				{Name: "what_is_your_annual_income", Label: "What is your annual income", Type: TypeText, FullWidth: true},
			},
		},
		{
			name: "limit",
			text: "Name: ____\nPhone: ____\nEmail: ____",
			max:  2,
			want: []FieldDescriptor{
				{Name: "name", Label: "Name", Type: TypeText},
				{Name: "phone", Label: "Phone", Type: TypeTel},
			},
		},
		{
			name: "falls back to extracted values",
			text: "JOHN DOE\nAadhaar 1234 5678 9012",
			want: []FieldDescriptor{
				{Name: "aadhaar_number", Label: "Aadhaar Number", Type: TypeNumber, Default: "123456789012"},
				{Name: "full_name", Label: "Full Name", Type: TypeText, Default: "John Doe"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferSchema(tt.text, tt.max)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("InferSchema() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInferSchema_Invariants(t *testing.T) {
	inputs := []string{
		"Name: ____\nName: ____\nName: ____",
		"Applicant Name ________\nAddress ________\nAddress ________\nCity ________",
		"Q?\nThis is a very long question that keeps going well past sixty characters in length?",
		"ab: cd\nxy - z\n" + strings.Repeat("Amount: ____\n", 80),
		"Income Certificate\nDepartment of Revenue\nShoe Size: 9",
		"______\n------\n....\nState ________",
	}

	for i, text := range inputs {
		t.Run(fmt.Sprintf("input_%d", i), func(t *testing.T) {
			got := InferSchema(text, 0)
			if len(got) > DefaultMaxFields {
				t.Errorf("got %d fields, limit is %d", len(got), DefaultMaxFields)
			}
			seen := map[string]bool{}
			for _, f := range got {
				if seen[f.Name] {
					t.Errorf("duplicate name %q", f.Name)
				}
				seen[f.Name] = true
				if n := utf8.RuneCountInString(f.Label); n < 3 || n > 60 {
					t.Errorf("label %q has length %d", f.Label, n)
				}
			}
			if diff := cmp.Diff(got, InferSchema(text, 0)); diff != "" {
				t.Errorf("repeated inference differs:\n%s", diff)
			}
		})
	}
}

func TestInferSchema_Rules(t *testing.T) {
	tests := []struct {
		line, next string
		wantLabel  string
		wantRule   string
	}{
		{"Name: ________", "", "Name", "inline-blank"},
		{"Amount ....... (optional)", "", "Amount", "inline-blank"},
		{"Occupation: Farmer", "", "Occupation", "labelled-value"},
		{"Signature:", "__________", "Signature", "colon-then-blank"},
		{"Do you own a vehicle?", "", "Do you own a vehicle", "question"},
		{"Guardian (required):", "See note", "Guardian (required)", "flagged-colon"},
		{"Emergency contact name", "", "Emergency contact name", "field-keyword"},
		{"Signature of officer *", "-----", "Signature of officer", "before-blank"},
	}

	for _, tt := range tests {
		t.Run(tt.wantRule, func(t *testing.T) {
			lines := []string{tt.line}
			if tt.next != "" {
				lines = append(lines, tt.next)
			}
			label, rule, ok := deriveLabel(newLineContext(lines, 0))
			if !ok {
				t.Fatalf("no rule matched %q", tt.line)
			}
			if label != tt.wantLabel || rule != tt.wantRule {
				t.Errorf("deriveLabel(%q) = %q via %s, want %q via %s", tt.line, label, rule, tt.wantLabel, tt.wantRule)
			}
		})
	}
}

func TestGuessType(t *testing.T) {
	tests := map[string]FieldType{
		"Email ID":          TypeEmail,
		"Contact Number":    TypeTel,
		"Date of Joining":   TypeDate,
		"Total Qty":         TypeNumber,
		"Reason for Leave":  TypeTextarea,
		"Favourite Colour":  TypeText,
		"Mobile Number":     TypeTel,
		"Birth Certificate": TypeDate,
	}
	for label, want := range tests {
		if got := GuessType(label); got != want {
			t.Errorf("GuessType(%q) = %q, want %q", label, got, want)
		}
	}
}
