package openapiform

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jackzampolin/formassist/internal/forms"
)

const petitionSpec = `
openapi: 3.0.3
info:
  title: Citizen Services
  version: "1.0"
paths:
  /applications:
    post:
      operationId: createApplication
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Application'
      responses:
        "201":
          description: created
  /applications/{id}:
    get:
      operationId: getApplication
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: ok
  /feedback:
    post:
      requestBody:
        content:
          application/x-www-form-urlencoded:
            schema:
              type: object
              properties:
                message:
                  type: string
                  format: textarea
      responses:
        "204":
          description: ok
components:
  schemas:
    Person:
      type: object
      required: [fullName]
      properties:
        fullName:
          type: string
          title: Applicant Name
        email:
          type: string
          format: email
    Application:
      allOf:
        - $ref: '#/components/schemas/Person'
        - type: object
          required: [category]
          properties:
            date_of_birth:
              type: string
              format: date
            age:
              type: integer
            category:
              type: string
              enum: [General, OBC, SC, ST]
              default: General
            reason:
              type: string
              maxLength: 500
              description: Why you are applying
            consent:
              type: boolean
            id:
              type: string
              readOnly: true
`

func TestFromOpenAPI(t *testing.T) {
	ctx := context.Background()
	got, err := FromOpenAPI(ctx, []byte(petitionSpec), "createApplication")
	if err != nil {
		t.Fatalf("FromOpenAPI() error = %v", err)
	}
	want := forms.Schema{Fields: []forms.FormField{
		{Name: "age", Label: "Age", Type: forms.TypeNumber},
		{Name: "category", Label: "Category", Type: forms.TypeSelect, Required: true, Options: []string{"General", "OBC", "SC", "ST"}, Default: "General"},
		{Name: "consent", Label: "Consent", Type: forms.TypeSelect, Options: []string{"true", "false"}},
		{Name: "date_of_birth", Label: "Date Of Birth", Type: forms.TypeDate},
		{Name: "email", Label: "Email", Type: forms.TypeEmail},
		{Name: "fullName", Label: "Applicant Name", Type: forms.TypeText, Required: true},
		{Name: "reason", Label: "Reason", Type: forms.TypeTextarea, FullWidth: true, Placeholder: "Why you are applying"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FromOpenAPI() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromOpenAPI_Selection(t *testing.T) {
	ctx := context.Background()

	// Without an ID the first operation with a body in path order wins.
	got, err := FromOpenAPI(ctx, []byte(petitionSpec), "")
	if err != nil {
		t.Fatalf("FromOpenAPI() error = %v", err)
	}
	if _, ok := got.Field("category"); !ok {
		t.Errorf("default operation fields = %v", got.Names())
	}

	// Operations without an ID are addressed as method:path.
	got, err = FromOpenAPI(ctx, []byte(petitionSpec), "post:/feedback")
	if err != nil {
		t.Fatalf("FromOpenAPI(post:/feedback) error = %v", err)
	}
	want := forms.Schema{Fields: []forms.FormField{
		{Name: "message", Label: "Message", Type: forms.TypeTextarea, FullWidth: true},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("feedback mismatch (-want +got):\n%s", diff)
	}

	if _, err := FromOpenAPI(ctx, []byte(petitionSpec), "getApplication"); !errors.Is(err, ErrNoRequestBody) {
		t.Errorf("getApplication error = %v, want ErrNoRequestBody", err)
	}
	if _, err := FromOpenAPI(ctx, []byte(petitionSpec), "missing"); !errors.Is(err, ErrOperationNotFound) {
		t.Errorf("missing error = %v, want ErrOperationNotFound", err)
	}
	if _, err := FromOpenAPI(ctx, nil, ""); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("empty error = %v, want ErrEmptyDocument", err)
	}
	if _, err := FromOpenAPI(ctx, []byte("{not yaml"), ""); err == nil {
		t.Error("malformed document should fail")
	}
}

func TestOperations(t *testing.T) {
	got, err := Operations(context.Background(), []byte(petitionSpec))
	if err != nil {
		t.Fatalf("Operations() error = %v", err)
	}
	if diff := cmp.Diff([]string{"createApplication", "post:/feedback"}, got); diff != "" {
		t.Errorf("Operations() mismatch (-want +got):\n%s", diff)
	}
}

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"date_of_birth": "Date Of Birth",
		"firstName":     "First Name",
		"pin-code":      "Pin Code",
		"email":         "Email",
		"__x__":         "X",
	}
	for in, want := range tests {
		if got := humanize(in); got != want {
			t.Errorf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}
