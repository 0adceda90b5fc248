package content

import (
	"strings"
	"testing"

	"docsite/types"
)

func TestValidateField(t *testing.T) {
	required := types.EditableField{
		Editable: true, Required: true, Type: types.FieldText,
		Constraints: types.Constraints{MinLength: 3, MaxLength: 10},
	}
	email := types.EditableField{
		Editable: true, Required: true, Type: types.FieldEmail,
		Constraints: types.Constraints{Pattern: `^[^@\s]+@[^@\s]+\.[^@\s]+$`},
	}
	phone := types.EditableField{
		Editable: true, Required: true, Type: types.FieldPhone,
		Constraints: types.Constraints{Pattern: `^[+0-9()\-\s.]{7,25}$`},
	}

	cases := []struct {
		name    string
		field   types.EditableField
		value   string
		valid   bool
		errPart string
	}{
		{"ok", required, "hello", true, ""},
		{"required empty", required, "  ", false, "required"},
		{"too short", required, "ab", false, "at least 3"},
		{"too long", required, "abcdefghijk", false, "at most 10"},
		{"valid email", email, "dr@clinic.example", true, ""},
		{"invalid email", email, "not-an-email", false, "name@example.com"},
		{"valid phone", phone, "+1 (555) 123-4567", true, ""},
		{"invalid phone", phone, "call me maybe", false, "phone number"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ValidateField(c.field, c.value)
			if got.IsValid != c.valid {
				t.Fatalf("IsValid = %v; want %v (errors: %v)", got.IsValid, c.valid, got.Errors)
			}
			if c.errPart != "" {
				found := false
				for _, e := range got.Errors {
					if strings.Contains(e, c.errPart) {
						found = true
					}
				}
				if !found {
					t.Fatalf("errors %v missing %q", got.Errors, c.errPart)
				}
			}
		})
	}
}

func TestValidateContentCollectsErrorsByPath(t *testing.T) {
	ec := DefaultContent()
	ec, err := UpdateContent(ec, "pages.home.contact.email", "nope")
	if err != nil {
		t.Fatalf("UpdateContent error: %v", err)
	}
	ec, err = UpdateContent(ec, "pages.home.header.site_name", "")
	if err != nil {
		t.Fatalf("UpdateContent error: %v", err)
	}

	v := ValidateContent(ec)
	if v.IsValid {
		t.Fatalf("content with bad email and empty site name reported valid")
	}
	if _, ok := v.Errors["pages.home.contact.email"]; !ok {
		t.Fatalf("missing email error, got %v", v.Errors)
	}
	if _, ok := v.Errors["pages.home.header.site_name"]; !ok {
		t.Fatalf("missing site name error, got %v", v.Errors)
	}
}

func TestValidateContentSEOWarnings(t *testing.T) {
	ec := DefaultContent()
	ec.Metadata.Title = "Short"
	ec.Metadata.Description = "Too short to be a good meta description."

	v := ValidateContent(ec)
	if !v.IsValid {
		t.Fatalf("warnings must not block validity: %v", v.Errors)
	}

	titleWarned, descWarned := false, false
	for _, w := range v.Warnings {
		if strings.Contains(w, "titles between 30 and 60") {
			titleWarned = true
		}
		if strings.Contains(w, "descriptions between 120 and 160") {
			descWarned = true
		}
	}
	if !titleWarned || !descWarned {
		t.Fatalf("missing SEO warnings: %v", v.Warnings)
	}
}
