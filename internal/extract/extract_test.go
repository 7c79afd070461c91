package extract

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtractFields(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{
			name: "labelled lines",
			text: "Full Name: John Smith\nEmail: john@x.com\nPhone: 9876543210",
			want: map[string]string{
				"full_name":     "John Smith",
				"email":         "john@x.com",
				"mobile_number": "9876543210",
			},
		},
		{
			name: "empty",
			text: "",
			want: map[string]string{},
		},
		{
			name: "whitespace only",
			text: "  \n\t\n ",
			want: map[string]string{},
		},
		{
			name: "unknown label is slugified",
			text: "Shoe Size: 9",
			want: map[string]string{"shoe_size": "9"},
		},
		{
			name: "first writer wins on colliding slugs",
			text: "Notes: abc\nnotes - def",
			want: map[string]string{"notes": "abc"},
		},
		{
			name: "label on its own line",
			text: "Father's Name\nSuresh Sharma\nName\nPriya Sharma",
			want: map[string]string{
				"father_name": "Suresh Sharma",
				"full_name":   "Priya Sharma",
			},
		},
		{
			name: "identity card layout",
			text: "GOVERNMENT OF INDIA\nRamesh Kumar\nDOB: 15-08-1985\nMale\n1234 5678 9012",
			want: map[string]string{
				"aadhaar_number": "123456789012",
				"date_of_birth":  "15-08-1985",
				"full_name":      "Ramesh Kumar",
			},
		},
		{
			name: "fill blanks are stripped",
			text: "Occupation: Farmer.......\nCategory: ______",
			want: map[string]string{"occupation": "Farmer"},
		},
		{
			name: "pan and pincode",
			text: "PAN: ABCDE1234F\nPin Code - 411001",
			want: map[string]string{
				"pan_number": "ABCDE1234F",
				"pincode":    "411001",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractFields(tt.text).Map()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractFields() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractFields_AddressBlock(t *testing.T) {
	t.Run("label with empty value", func(t *testing.T) {
		fields := ExtractFields("Address:\n123 Main St\nSpringfield\n")
		got, ok := fields.Get("address")
		if !ok {
			t.Fatal("expected address to be extracted")
		}
		if got != "123 Main St Springfield" {
			t.Errorf("address = %q, want %q", got, "123 Main St Springfield")
		}
	})

	t.Run("stops at another labelled field", func(t *testing.T) {
		fields := ExtractFields("Residential Address\n12 MG Road\nKothrud, Pune\nMobile: 9876543210")
		got, _ := fields.Get("address")
		if got != "12 MG Road Kothrud, Pune" {
			t.Errorf("address = %q, want %q", got, "12 MG Road Kothrud, Pune")
		}
		if v, _ := fields.Get("mobile_number"); v != "9876543210" {
			t.Errorf("mobile_number = %q", v)
		}
	})

	t.Run("email address is not an address", func(t *testing.T) {
		fields := ExtractFields("Email Address: a@b.in")
		if fields.Has("address") {
			t.Errorf("unexpected address %v", fields.Map())
		}
	})
}

func TestExtractFields_NationalID(t *testing.T) {
	t.Run("pattern value is never overwritten", func(t *testing.T) {
		fields := ExtractFields("Aadhaar: 1234 5678 9012\nAadhaar Number: 9999")
		if v, _ := fields.Get("aadhaar_number"); v != "123456789012" {
			t.Errorf("aadhaar_number = %q, want 123456789012", v)
		}
	})

	t.Run("contiguous digits", func(t *testing.T) {
		fields := ExtractFields("UID 123456789012")
		if v, _ := fields.Get("aadhaar_number"); v != "123456789012" {
			t.Errorf("aadhaar_number = %q", v)
		}
		if fields.Has("mobile_number") {
			t.Errorf("digits inside the id were read as a phone: %v", fields.Map())
		}
	})

	t.Run("eleven digits are ignored", func(t *testing.T) {
		fields := ExtractFields("UID 1234 5678 901")
		if fields.Has("aadhaar_number") {
			t.Errorf("unexpected aadhaar_number %v", fields.Map())
		}
	})
}

func TestExtractFields_NameFallback(t *testing.T) {
	t.Run("title cases the first name-like line", func(t *testing.T) {
		fields := ExtractFields("JOHN SMITH\nDOB: 01/02/1990")
		if v, _ := fields.Get("full_name"); v != "John Smith" {
			t.Errorf("full_name = %q, want John Smith", v)
		}
		if v, _ := fields.Get("date_of_birth"); v != "01/02/1990" {
			t.Errorf("date_of_birth = %q", v)
		}
	})

	t.Run("skips header lines", func(t *testing.T) {
		fields := ExtractFields("Income Certificate\nDepartment of Revenue")
		if fields.Has("full_name") {
			t.Errorf("unexpected full_name %v", fields.Map())
		}
	})

	t.Run("only looks at the first five lines", func(t *testing.T) {
		text := "1\n22\n333: x\n4444: y\n55555: z\nAsha Rao"
		fields := ExtractFields(text)
		if fields.Has("full_name") {
			t.Errorf("unexpected full_name %v", fields.Map())
		}
	})
}

func TestExtractFields_Idempotent(t *testing.T) {
	text := "Name: Asha Rao\nD.O.B: 2001-04-05\nAddress: 4 Lake View\nPune\nasha@example.org"
	first := ExtractFields(text)
	second := ExtractFields(text)
	if diff := cmp.Diff(first.Map(), second.Map()); diff != "" {
		t.Errorf("repeated extraction differs (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(first.Keys(), second.Keys()); diff != "" {
		t.Errorf("key order differs (-first +second):\n%s", diff)
	}
}

func TestExtractValues(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]string
	}{
		{"email is lowercased", "Contact: John.Doe@Example.COM", map[string]string{"email": "john.doe@example.com"}},
		{"grouped phone with country code", "call +91 987 654 3210 now", map[string]string{"mobile_number": "9876543210"}},
		{"iso date of birth", "Date of Birth 1990-12-31", map[string]string{"date_of_birth": "1990-12-31"}},
		{"first match wins", "a@x.io b@y.io", map[string]string{"email": "a@x.io"}},
		{"nothing", "hello world", map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractValues(tt.text).Map()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractValues() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFields(t *testing.T) {
	f := NewFields()
	if !f.Set("b", "1") {
		t.Fatal("first Set should store")
	}
	if f.Set("b", "2") {
		t.Error("second Set should not overwrite")
	}
	if f.Set("c", "") {
		t.Error("empty value should not be stored")
	}
	f.Set("a", "3")

	if v, _ := f.Get("b"); v != "1" {
		t.Errorf("b = %q, want 1", v)
	}
	if diff := cmp.Diff([]string{"b", "a"}, f.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"b":"1","a":"3"}` {
		t.Errorf("json = %s", data)
	}
}
