package content

import (
	"fmt"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"docsite/types"
)

// Default values for every field the backend may leave out. Absence never
// propagates into the editor: a missing field becomes its default.
const (
	defaultSiteName    = "My Medical Practice"
	defaultTagline     = "Caring for you and your family"
	defaultHeroTitle   = "Welcome to Our Practice"
	defaultHeroSub     = "Compassionate, modern care close to home"
	defaultHeroCTA     = "Book an Appointment"
	defaultAboutTitle  = "About Us"
	defaultAboutBody   = "We are a dedicated team committed to providing excellent care for every patient who walks through our doors."
	defaultSvcTitle    = "Our Services"
	defaultContactTtl  = "Get in Touch"
	defaultEmail       = "hello@mypractice.com"
	defaultPhone       = "+1 (555) 123-4567"
	defaultAddress     = "123 Main Street, Springfield"
	defaultHours       = "Mon-Fri 9:00-17:00"
	defaultFooter      = "© My Medical Practice. All rights reserved."
	defaultMetaTitle   = "My Medical Practice"
	defaultMetaDesc    = "Book appointments and learn about our services, team, and opening hours."
	defaultPrimary     = "#2563eb"
	defaultSecondary   = "#1e40af"
	defaultAccent      = "#38bdf8"
	defaultFontFamily  = "Inter, sans-serif"
	defaultTheme       = "light"
	emailPattern       = `^[^@\s]+@[^@\s]+\.[^@\s]+$`
	phonePattern       = `^[+0-9()\-\s.]{7,25}$`
	defaultServiceName = "General Consultation"
	defaultServiceDesc = "A thorough visit to discuss your health and answer your questions."
	defaultServiceIcon = "stethoscope"
)

// richTextPolicy sanitizes user-visible rich text coming back from the
// backend before it enters the editor
var richTextPolicy = bluemonday.UGCPolicy()

// Transform converts opaque backend website data into the editable content
// tree. It fails when raw carries no content at all; any individual missing
// sub-field is replaced by an explicit default instead.
func Transform(raw *types.WebsiteData) (types.EditableContent, error) {
	if raw == nil || raw.Content == nil {
		return types.EditableContent{}, fmt.Errorf("website data has no content")
	}

	c := raw.Content
	header := section(c, "header")
	hero := section(c, "hero")
	about := section(c, "about")
	services := section(c, "services")
	contact := section(c, "contact")
	footer := section(c, "footer")

	ec := types.EditableContent{
		ID:           raw.ID,
		Version:      1,
		LastModified: time.Now(),
		Pages: types.Pages{
			Home: types.HomePage{
				Header: types.HeaderSection{
					SiteName: textField("header", getString(header, "site_name", defaultSiteName), types.FieldText, true, types.Constraints{MaxLength: 60}),
					Tagline:  textField("header", getString(header, "tagline", defaultTagline), types.FieldText, false, types.Constraints{MaxLength: 120}),
				},
				Hero: types.HeroSection{
					Title:    textField("hero", getString(hero, "title", defaultHeroTitle), types.FieldText, true, types.Constraints{MaxLength: 100}),
					Subtitle: textField("hero", getString(hero, "subtitle", defaultHeroSub), types.FieldText, false, types.Constraints{MaxLength: 200}),
					CTAText:  textField("hero", getString(hero, "cta_text", defaultHeroCTA), types.FieldButton, true, types.Constraints{MaxLength: 40}),
					Image:    imageField("hero", getString(hero, "image", "")),
				},
				About: types.AboutSection{
					Title: textField("about", getString(about, "title", defaultAboutTitle), types.FieldText, true, types.Constraints{MaxLength: 80}),
					Body:  richTextField("about", getString(about, "body", defaultAboutBody)),
					Image: imageField("about", getString(about, "image", "")),
				},
				Services: types.ServicesSection{
					Title: textField("services", getString(services, "title", defaultSvcTitle), types.FieldText, true, types.Constraints{MaxLength: 80}),
					Items: transformServices(services),
				},
				Contact: types.ContactSection{
					Title:   textField("contact", getString(contact, "title", defaultContactTtl), types.FieldText, true, types.Constraints{MaxLength: 80}),
					Email:   patternField("contact", getString(contact, "email", defaultEmail), types.FieldEmail, emailPattern),
					Phone:   patternField("contact", getString(contact, "phone", defaultPhone), types.FieldPhone, phonePattern),
					Address: textField("contact", getString(contact, "address", defaultAddress), types.FieldTextarea, false, types.Constraints{MaxLength: 200}),
					Hours:   textField("contact", getString(contact, "hours", defaultHours), types.FieldTextarea, false, types.Constraints{MaxLength: 300}),
				},
				Footer: types.FooterSection{
					Text: textField("footer", getString(footer, "text", defaultFooter), types.FieldText, false, types.Constraints{MaxLength: 200}),
				},
			},
		},
		Metadata: types.Metadata{
			Title:       getString(raw.Metadata, "title", defaultMetaTitle),
			Description: getString(raw.Metadata, "description", defaultMetaDesc),
		},
		Styling: types.Styling{
			PrimaryColor:   getString(raw.Styling, "primary_color", defaultPrimary),
			SecondaryColor: getString(raw.Styling, "secondary_color", defaultSecondary),
			AccentColor:    getString(raw.Styling, "accent_color", defaultAccent),
			FontFamily:     getString(raw.Styling, "font_family", defaultFontFamily),
			Theme:          getString(raw.Styling, "theme", defaultTheme),
		},
	}

	return ec, nil
}

// DefaultContent builds an editable tree entirely from defaults, used when a
// user starts editing without generated content
func DefaultContent() types.EditableContent {
	ec, _ := Transform(&types.WebsiteData{Content: map[string]interface{}{}})
	return ec
}

// ToWebsiteData is the inverse transform. The editable tree is assumed fully
// populated; values are carried over without re-validation.
func ToWebsiteData(ec types.EditableContent) *types.WebsiteData {
	home := ec.Pages.Home

	items := make([]interface{}, 0, len(home.Services.Items))
	for _, item := range home.Services.Items {
		items = append(items, map[string]interface{}{
			"id":          item.ID,
			"name":        item.Name.Value,
			"description": item.Description.Value,
			"icon":        item.Icon.Value,
		})
	}

	return &types.WebsiteData{
		ID: ec.ID,
		Content: map[string]interface{}{
			"header": map[string]interface{}{
				"site_name": home.Header.SiteName.Value,
				"tagline":   home.Header.Tagline.Value,
			},
			"hero": map[string]interface{}{
				"title":    home.Hero.Title.Value,
				"subtitle": home.Hero.Subtitle.Value,
				"cta_text": home.Hero.CTAText.Value,
				"image":    home.Hero.Image.Value,
			},
			"about": map[string]interface{}{
				"title": home.About.Title.Value,
				"body":  home.About.Body.Value,
				"image": home.About.Image.Value,
			},
			"services": map[string]interface{}{
				"title": home.Services.Title.Value,
				"items": items,
			},
			"contact": map[string]interface{}{
				"title":   home.Contact.Title.Value,
				"email":   home.Contact.Email.Value,
				"phone":   home.Contact.Phone.Value,
				"address": home.Contact.Address.Value,
				"hours":   home.Contact.Hours.Value,
			},
			"footer": map[string]interface{}{
				"text": home.Footer.Text.Value,
			},
		},
		Metadata: map[string]interface{}{
			"title":       ec.Metadata.Title,
			"description": ec.Metadata.Description,
		},
		Styling: map[string]interface{}{
			"primary_color":   ec.Styling.PrimaryColor,
			"secondary_color": ec.Styling.SecondaryColor,
			"accent_color":    ec.Styling.AccentColor,
			"font_family":     ec.Styling.FontFamily,
			"theme":           ec.Styling.Theme,
		},
	}
}

// transformServices converts the raw services list, generating ids where the
// backend omitted them. With no list at all the site starts with one default
// service so the section renders.
func transformServices(services map[string]interface{}) []types.ServiceItem {
	rawItems, _ := services["items"].([]interface{})
	if len(rawItems) == 0 {
		return []types.ServiceItem{serviceItem(types.NewServiceID(), defaultServiceName, defaultServiceDesc, defaultServiceIcon)}
	}

	items := make([]types.ServiceItem, 0, len(rawItems))
	for i, ri := range rawItems {
		m, ok := ri.(map[string]interface{})
		if !ok {
			continue
		}
		id := getString(m, "id", "")
		if id == "" {
			id = fmt.Sprintf("%s_%d", types.NewServiceID(), i)
		}
		items = append(items, serviceItem(
			id,
			getString(m, "name", defaultServiceName),
			getString(m, "description", defaultServiceDesc),
			getString(m, "icon", defaultServiceIcon),
		))
	}
	return items
}

func serviceItem(id, name, desc, icon string) types.ServiceItem {
	return types.ServiceItem{
		ID:          id,
		Name:        textField("services", name, types.FieldText, true, types.Constraints{MaxLength: 60}),
		Description: textField("services", desc, types.FieldTextarea, false, types.Constraints{MaxLength: 300}),
		Icon:        textField("services", icon, types.FieldIcon, false, types.Constraints{MaxLength: 40}),
	}
}

func textField(sectionName, value string, ft types.FieldType, required bool, c types.Constraints) types.EditableField {
	return types.EditableField{
		Value:       value,
		Editable:    true,
		Type:        ft,
		Constraints: c,
		Required:    required,
		Section:     sectionName,
	}
}

func richTextField(sectionName, value string) types.EditableField {
	return types.EditableField{
		Value:       richTextPolicy.Sanitize(value),
		Editable:    true,
		Type:        types.FieldRichText,
		Constraints: types.Constraints{MaxLength: 2000},
		Required:    true,
		Section:     sectionName,
	}
}

func imageField(sectionName, ref string) types.EditableField {
	return types.EditableField{
		Value:    ref,
		Editable: true,
		Type:     types.FieldImage,
		Section:  sectionName,
	}
}

func patternField(sectionName, value string, ft types.FieldType, pattern string) types.EditableField {
	return types.EditableField{
		Value:       value,
		Editable:    true,
		Type:        ft,
		Constraints: types.Constraints{Pattern: pattern, MaxLength: 100},
		Required:    true,
		Section:     sectionName,
	}
}

// section pulls a nested object out of the raw content map, tolerating its
// absence
func section(c map[string]interface{}, key string) map[string]interface{} {
	if m, ok := c[key].(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// getString reads a string key with a fallback default
func getString(m map[string]interface{}, key, fallback string) string {
	if m == nil {
		return fallback
	}
	if s, ok := m[key].(string); ok && s != "" {
		return s
	}
	return fallback
}
