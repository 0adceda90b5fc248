package content

import (
	"fmt"
	"regexp"
	"strings"

	"docsite/types"
)

// FieldValidation is the outcome of validating one field value
type FieldValidation struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ContentValidation aggregates blocking errors by field path plus advisory
// warnings that never block saving
type ContentValidation struct {
	IsValid  bool                `json:"is_valid"`
	Errors   map[string][]string `json:"errors"`
	Warnings []string            `json:"warnings"`
}

// ValidateField checks a candidate value against a field's constraints
func ValidateField(field types.EditableField, value string) FieldValidation {
	v := FieldValidation{Errors: []string{}}
	trimmed := strings.TrimSpace(value)

	if field.Required && trimmed == "" {
		v.Errors = append(v.Errors, "This field is required")
	}

	if c := field.Constraints; trimmed != "" {
		if c.MinLength > 0 && len(trimmed) < c.MinLength {
			v.Errors = append(v.Errors, fmt.Sprintf("Must be at least %d characters", c.MinLength))
		}
		if c.MaxLength > 0 && len(trimmed) > c.MaxLength {
			v.Errors = append(v.Errors, fmt.Sprintf("Must be at most %d characters", c.MaxLength))
		}
		if c.Pattern != "" {
			if re, err := regexp.Compile(c.Pattern); err == nil && !re.MatchString(trimmed) {
				v.Errors = append(v.Errors, patternMessage(field.Type))
			}
		}
	}

	v.IsValid = len(v.Errors) == 0
	return v
}

// patternMessage gives email and phone fields bespoke text; everything else
// gets a generic message
func patternMessage(ft types.FieldType) string {
	switch ft {
	case types.FieldEmail:
		return "Enter a valid email address, like name@example.com"
	case types.FieldPhone:
		return "Enter a valid phone number, like +1 (555) 123-4567"
	default:
		return "Value has an invalid format"
	}
}

// ValidateContent walks every editable leaf of the tree, collecting blocking
// errors keyed by dotted path and advisory warnings (SEO heuristics, missing
// contact info) that do not block saving.
func ValidateContent(c types.EditableContent) ContentValidation {
	result := ContentValidation{
		Errors:   map[string][]string{},
		Warnings: []string{},
	}

	home := c.Pages.Home
	checks := map[string]types.EditableField{
		"pages.home.header.site_name": home.Header.SiteName,
		"pages.home.header.tagline":   home.Header.Tagline,
		"pages.home.hero.title":       home.Hero.Title,
		"pages.home.hero.subtitle":    home.Hero.Subtitle,
		"pages.home.hero.cta_text":    home.Hero.CTAText,
		"pages.home.about.title":      home.About.Title,
		"pages.home.about.body":       home.About.Body,
		"pages.home.services.title":   home.Services.Title,
		"pages.home.contact.title":    home.Contact.Title,
		"pages.home.contact.email":    home.Contact.Email,
		"pages.home.contact.phone":    home.Contact.Phone,
		"pages.home.contact.address":  home.Contact.Address,
		"pages.home.contact.hours":    home.Contact.Hours,
		"pages.home.footer.text":      home.Footer.Text,
	}
	for i, item := range home.Services.Items {
		checks[fmt.Sprintf("pages.home.services.items.%d.name", i)] = item.Name
		checks[fmt.Sprintf("pages.home.services.items.%d.description", i)] = item.Description
	}

	for path, field := range checks {
		if !field.Editable {
			continue
		}
		if fv := ValidateField(field, field.Value); !fv.IsValid {
			result.Errors[path] = fv.Errors
		}
	}

	if n := len(home.Services.Items); n == 0 {
		result.Warnings = append(result.Warnings, "Your site lists no services yet")
	} else if n > 0 {
		if mc := home.Services.Items[0].Name.Constraints.MaxItems; mc > 0 && n > mc {
			result.Errors["pages.home.services.items"] = []string{fmt.Sprintf("At most %d services are allowed", mc)}
		}
	}

	// SEO heuristics, advisory only
	if l := len(c.Metadata.Title); l < 30 || l > 60 {
		result.Warnings = append(result.Warnings,
			"SEO: page titles between 30 and 60 characters perform best")
	}
	if l := len(c.Metadata.Description); l < 120 || l > 160 {
		result.Warnings = append(result.Warnings,
			"SEO: meta descriptions between 120 and 160 characters perform best")
	}
	if strings.TrimSpace(home.Contact.Email.Value) == "" && strings.TrimSpace(home.Contact.Phone.Value) == "" {
		result.Warnings = append(result.Warnings,
			"Visitors have no way to contact you: add an email address or phone number")
	}

	result.IsValid = len(result.Errors) == 0
	return result
}
