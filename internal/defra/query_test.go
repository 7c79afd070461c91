package defra

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateID(t *testing.T) {
	valid := []string{"bae-123e4567-e89b", "f_1", "550e8400-e29b-41d4-a716-446655440000"}
	for _, id := range valid {
		if err := ValidateID(id); err != nil {
			t.Errorf("ValidateID(%q) = %v", id, err)
		}
	}
	invalid := []string{"", "a b", `x"}`, "a{b}", string(make([]byte, 501))}
	for _, id := range invalid {
		if err := ValidateID(id); err == nil {
			t.Errorf("ValidateID(%q) accepted", id)
		}
	}
}

func TestQueryBuilder_Build(t *testing.T) {
	t.Run("bare", func(t *testing.T) {
		query, vars := NewQuery("FormTemplate").Build()
		if query != "{ FormTemplate { _docID } }" {
			t.Errorf("query = %s", query)
		}
		if len(vars) != 0 {
			t.Errorf("vars = %v", vars)
		}
	})

	t.Run("filters order and paging", func(t *testing.T) {
		query, vars := NewQuery("FormResponse").
			Filter("form_id", "f1").
			FilterIn("username", []string{"a", "b"}).
			Fields("_docID", "response_id").
			OrderBy("created_at", "desc").
			Limit(10).
			Offset(5).
			Build()

		want := `query($v0: String, $v1: [String!]) { FormResponse(filter: {form_id: {_eq: $v0}, username: {_in: $v1}}, order: {created_at: DESC}, limit: 10, offset: 5) { _docID response_id } }`
		if query != want {
			t.Errorf("query =\n%s\nwant\n%s", query, want)
		}
		wantVars := map[string]any{"v0": "f1", "v1": []string{"a", "b"}}
		if diff := cmp.Diff(wantVars, vars); diff != "" {
			t.Errorf("vars (-want +got):\n%s", diff)
		}
	})

	t.Run("several sort keys", func(t *testing.T) {
		query, _ := NewQuery("FormTemplate").
			OrderBy("updated_at", "DESC").
			OrderBy("created_at", "DESC").
			Build()
		want := `{ FormTemplate(order: [{updated_at: DESC}, {created_at: DESC}]) { _docID } }`
		if query != want {
			t.Errorf("query = %s", query)
		}
	})

	t.Run("typed variables", func(t *testing.T) {
		query, _ := NewQuery("X").Filter("n", 3).Filter("ok", true).Build()
		want := `query($v0: Int, $v1: Boolean) { X(filter: {n: {_eq: $v0}, ok: {_eq: $v1}}) { _docID } }`
		if query != want {
			t.Errorf("query = %s", query)
		}
	})
}
