package preview

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"docsite/types"
)

// viewportMeta is injected into any document that lacks one so device
// simulation behaves
const viewportMeta = `<meta name="viewport" content="width=device-width, initial-scale=1.0">`

// highlightScript implements the section-highlight protocol: the host posts
// {type: 'highlight-section', section: id} into the frame; the document
// toggles a highlight class on the matching data-section element and scrolls
// it into view.
const highlightScript = `<script>
window.addEventListener('message', function(ev) {
    var msg = ev.data || {};
    if (msg.type !== 'highlight-section') return;
    document.querySelectorAll('[data-section].highlight').forEach(function(el) {
        el.classList.remove('highlight');
    });
    var target = document.querySelector('[data-section="' + msg.section + '"]');
    if (target) {
        target.classList.add('highlight');
        target.scrollIntoView({behavior: 'smooth', block: 'center'});
    }
});
</script>`

// pageTemplate synthesizes a full document from structured content when the
// backend did not supply built HTML
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
` + viewportMeta + `
<title>{{.MetaTitle}}</title>
<meta name="description" content="{{.MetaDescription}}">
<style>
:root {
    --primary: {{.Primary}};
    --secondary: {{.Secondary}};
    --accent: {{.Accent}};
}
* { box-sizing: border-box; margin: 0; padding: 0; }
body { font-family: {{.FontFamily}}; color: #1f2937; background: {{.Background}}; }
section, header, footer { padding: 48px 24px; }
.highlight { outline: 3px solid var(--accent); outline-offset: 4px; }
header[data-section="header"] { background: var(--primary); color: #fff; padding: 24px; }
header h1 { font-size: 24px; }
header p { opacity: 0.85; font-size: 14px; }
section[data-section="hero"] { background: var(--secondary); color: #fff; text-align: center; padding: 96px 24px; }
section[data-section="hero"] h2 { font-size: 40px; margin-bottom: 12px; }
section[data-section="hero"] p { font-size: 18px; margin-bottom: 24px; }
.cta { display: inline-block; background: var(--accent); color: #fff; padding: 12px 32px; border-radius: 6px; text-decoration: none; font-weight: 600; }
section[data-section="about"] h2, section[data-section="services"] h2, section[data-section="contact"] h2 { font-size: 28px; margin-bottom: 16px; color: var(--primary); }
.services-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(240px, 1fr)); gap: 16px; }
.service-card { border: 1px solid #e5e7eb; border-radius: 8px; padding: 24px; }
.service-card h3 { margin-bottom: 8px; }
.service-icon { font-size: 12px; text-transform: uppercase; letter-spacing: 1px; color: var(--accent); }
address { font-style: normal; line-height: 1.8; }
footer[data-section="footer"] { background: #111827; color: #9ca3af; text-align: center; font-size: 14px; }
</style>
` + highlightScript + `
</head>
<body>
<header data-section="header">
<h1>{{.SiteName}}</h1>
<p>{{.Tagline}}</p>
</header>
<section data-section="hero">
<h2>{{.HeroTitle}}</h2>
<p>{{.HeroSubtitle}}</p>
<a class="cta" href="#contact">{{.HeroCTA}}</a>
</section>
<section data-section="about">
<h2>{{.AboutTitle}}</h2>
<div>{{.AboutBody}}</div>
</section>
<section data-section="services">
<h2>{{.ServicesTitle}}</h2>
<div class="services-grid">
{{range .Services}}<div class="service-card" data-section="{{.ID}}">
<div class="service-icon">{{.Icon}}</div>
<h3>{{.Name}}</h3>
<p>{{.Description}}</p>
</div>
{{end}}</div>
</section>
<section data-section="contact" id="contact">
<h2>{{.ContactTitle}}</h2>
<address>
Email: {{.Email}}<br>
Phone: {{.Phone}}<br>
{{.Address}}<br>
{{.Hours}}
</address>
</section>
<footer data-section="footer">
<p>{{.FooterText}}</p>
</footer>
</body>
</html>
`))

// pageData flattens website data for the template
type pageData struct {
	MetaTitle       string
	MetaDescription string
	Primary         string
	Secondary       string
	Accent          string
	FontFamily      template.CSS
	Background      template.CSS
	SiteName        string
	Tagline         string
	HeroTitle       string
	HeroSubtitle    string
	HeroCTA         string
	AboutTitle      string
	AboutBody       template.HTML
	ServicesTitle   string
	Services        []serviceData
	ContactTitle    string
	Email           string
	Phone           string
	Address         string
	Hours           string
	FooterText      string
}

type serviceData struct {
	ID          string
	Icon        string
	Name        string
	Description string
}

// Render turns website data into a complete HTML document for sandboxed
// display. Backend-built HTML is used verbatim apart from injecting the
// viewport meta, theme CSS variables, and the highlight listener when absent;
// otherwise the document is synthesized from the structured content.
func Render(data *types.WebsiteData) (string, error) {
	if data == nil {
		return "", fmt.Errorf("no website data to render")
	}

	if data.HTML != "" {
		return injectIntoHTML(data), nil
	}
	if data.Content == nil {
		return "", fmt.Errorf("website data has neither html nor content")
	}

	pd := flatten(data)
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, pd); err != nil {
		return "", fmt.Errorf("failed to render preview: %w", err)
	}
	return buf.String(), nil
}

// injectIntoHTML augments backend-built HTML without otherwise touching it
func injectIntoHTML(data *types.WebsiteData) string {
	html := data.HTML

	var injected []string
	if !strings.Contains(html, `name="viewport"`) {
		injected = append(injected, viewportMeta)
	}
	injected = append(injected, themeVariables(data.Styling))
	if !strings.Contains(html, "highlight-section") {
		injected = append(injected, highlightScript)
	}

	block := strings.Join(injected, "\n")
	if idx := strings.Index(strings.ToLower(html), "</head>"); idx >= 0 {
		return html[:idx] + block + "\n" + html[idx:]
	}
	// No head element: prepend so the document still picks everything up
	return block + "\n" + html
}

// themeVariables emits the styling object as CSS custom properties
func themeVariables(styling map[string]interface{}) string {
	get := func(key, fallback string) string {
		if s, ok := styling[key].(string); ok && s != "" {
			return s
		}
		return fallback
	}
	return fmt.Sprintf(
		"<style>:root { --primary: %s; --secondary: %s; --accent: %s; }</style>",
		get("primary_color", "#2563eb"),
		get("secondary_color", "#1e40af"),
		get("accent_color", "#38bdf8"),
	)
}

// flatten maps the raw content tree onto template fields, tolerating missing
// sections
func flatten(data *types.WebsiteData) pageData {
	get := func(sectionName, key string) string {
		m, _ := data.Content[sectionName].(map[string]interface{})
		if m == nil {
			return ""
		}
		s, _ := m[key].(string)
		return s
	}
	getMeta := func(m map[string]interface{}, key string) string {
		if m == nil {
			return ""
		}
		s, _ := m[key].(string)
		return s
	}

	background := template.CSS("#ffffff")
	if getMeta(data.Styling, "theme") == "dark" {
		background = template.CSS("#0f172a")
	}

	pd := pageData{
		MetaTitle:       getMeta(data.Metadata, "title"),
		MetaDescription: getMeta(data.Metadata, "description"),
		Primary:         orDefault(getMeta(data.Styling, "primary_color"), "#2563eb"),
		Secondary:       orDefault(getMeta(data.Styling, "secondary_color"), "#1e40af"),
		Accent:          orDefault(getMeta(data.Styling, "accent_color"), "#38bdf8"),
		FontFamily:      template.CSS(orDefault(getMeta(data.Styling, "font_family"), "Inter, sans-serif")),
		Background:      background,
		SiteName:        get("header", "site_name"),
		Tagline:         get("header", "tagline"),
		HeroTitle:       get("hero", "title"),
		HeroSubtitle:    get("hero", "subtitle"),
		HeroCTA:         get("hero", "cta_text"),
		AboutTitle:      get("about", "title"),
		AboutBody:       template.HTML(get("about", "body")),
		ServicesTitle:   get("services", "title"),
		ContactTitle:    get("contact", "title"),
		Email:           get("contact", "email"),
		Phone:           get("contact", "phone"),
		Address:         get("contact", "address"),
		Hours:           get("contact", "hours"),
		FooterText:      get("footer", "text"),
	}

	if svc, ok := data.Content["services"].(map[string]interface{}); ok {
		if items, ok := svc["items"].([]interface{}); ok {
			for _, ri := range items {
				m, ok := ri.(map[string]interface{})
				if !ok {
					continue
				}
				str := func(k string) string { s, _ := m[k].(string); return s }
				pd.Services = append(pd.Services, serviceData{
					ID:          str("id"),
					Icon:        str("icon"),
					Name:        str("name"),
					Description: str("description"),
				})
			}
		}
	}

	return pd
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
