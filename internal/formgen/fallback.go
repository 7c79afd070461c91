package formgen

import (
	"regexp"
	"strings"

	"github.com/jackzampolin/formassist/internal/forms"
)

type keywordField struct {
	pattern *regexp.Regexp
	field   forms.FormField
}

var keywordFields = []keywordField{
	{regexp.MustCompile(`\b(full\s*)?name\b`), forms.FormField{Name: "full_name", Label: "Full Name", Type: forms.TypeText, Required: true, FullWidth: true}},
	{regexp.MustCompile(`\bemail\b`), forms.FormField{Name: "email", Label: "Email Address", Type: forms.TypeEmail, Required: true}},
	{regexp.MustCompile(`\bphone|mobile|contact\b`), forms.FormField{Name: "phone", Label: "Phone Number", Type: forms.TypeTel}},
	{regexp.MustCompile(`\baddress\b`), forms.FormField{Name: "address", Label: "Address", Type: forms.TypeTextarea, FullWidth: true}},
	{regexp.MustCompile(`\bdate|dob|birth\b`), forms.FormField{Name: "date", Label: "Date", Type: forms.TypeDate}},
	{regexp.MustCompile(`\bage\b`), forms.FormField{Name: "age", Label: "Age", Type: forms.TypeNumber}},
	{regexp.MustCompile(`\bgender|sex\b`), forms.FormField{Name: "gender", Label: "Gender", Type: forms.TypeSelect, Options: []string{"Male", "Female", "Other"}}},
	{regexp.MustCompile(`\bcomments?|feedback|message\b`), forms.FormField{Name: "comments", Label: "Comments", Type: forms.TypeTextarea, FullWidth: true}},
}

// Fallback builds a schema from keywords in prompt. Prompts that match
// nothing get a name and email form.
func Fallback(prompt string) forms.Schema {
	lower := strings.ToLower(prompt)
	var fields []forms.FormField
	for _, kf := range keywordFields {
		if kf.pattern.MatchString(lower) {
			f := kf.field
			f.Options = append([]string(nil), kf.field.Options...)
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		fields = []forms.FormField{
			{Name: "full_name", Label: "Full Name", Type: forms.TypeText, Required: true, FullWidth: true},
			{Name: "email", Label: "Email", Type: forms.TypeEmail, Required: true},
		}
	}
	return forms.Schema{Fields: fields}
}
