package orchestrator

import (
	"strings"
	"testing"
)

func TestValidateTextInput(t *testing.T) {
	valid := "I am Dr. Jane Doe, a pediatrician with 15 years of experience caring for children in Austin."

	cases := []struct {
		name         string
		text         string
		wantValid    bool
		wantErrPart  string
		wantWarnings int
	}{
		{"valid description", valid, true, "", 0},
		{"too short", "hello", false, "at least 50 characters", 1},
		{"too long", valid + strings.Repeat(" More details about our clinic.", 200), false, "at most 5000 characters", 0},
		{"whitespace only", strings.Repeat(" ", 100), false, "at least 50 characters", 1},
		{
			"no medical vocabulary",
			"I run a small business downtown and want a website with a friendly look and a contact form for customers.",
			true, "", 1,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ValidateTextInput(c.text)
			if got.IsValid != c.wantValid {
				t.Fatalf("IsValid = %v; want %v (errors: %v)", got.IsValid, c.wantValid, got.Errors)
			}
			if c.wantErrPart != "" {
				found := false
				for _, e := range got.Errors {
					if strings.Contains(e, c.wantErrPart) {
						found = true
					}
				}
				if !found {
					t.Fatalf("errors %v missing %q", got.Errors, c.wantErrPart)
				}
			}
			if len(got.Warnings) != c.wantWarnings {
				t.Fatalf("warnings = %v; want %d of them", got.Warnings, c.wantWarnings)
			}
		})
	}
}
