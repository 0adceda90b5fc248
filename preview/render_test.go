package preview

import (
	"strings"
	"testing"

	"docsite/types"
)

func sampleData() *types.WebsiteData {
	return &types.WebsiteData{
		ID: "site-1",
		Content: map[string]interface{}{
			"header": map[string]interface{}{"site_name": "Smile Dental Care", "tagline": "Gentle dentistry"},
			"hero":   map[string]interface{}{"title": "Healthy smiles", "subtitle": "For the whole family", "cta_text": "Book now"},
			"about":  map[string]interface{}{"title": "About us", "body": "<p>We have cared for Springfield since 2001.</p>"},
			"services": map[string]interface{}{
				"title": "Services",
				"items": []interface{}{
					map[string]interface{}{"id": "service_1", "name": "Cleanings", "description": "Twice a year.", "icon": "tooth"},
				},
			},
			"contact": map[string]interface{}{"title": "Contact", "email": "hi@smile.example", "phone": "+1 555 0100"},
			"footer":  map[string]interface{}{"text": "© Smile Dental Care"},
		},
		Metadata: map[string]interface{}{"title": "Smile Dental Care", "description": "Family dentistry in Springfield."},
		Styling:  map[string]interface{}{"primary_color": "#112233"},
	}
}

func TestRenderSynthesizesDocument(t *testing.T) {
	html, err := Render(sampleData())
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		`name="viewport"`,
		"Smile Dental Care",
		"Healthy smiles",
		`data-section="hero"`,
		`data-section="services"`,
		`data-section="service_1"`,
		"--primary: #112233",
		"highlight-section",
		"<p>We have cared for Springfield since 2001.</p>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered document missing %q", want)
		}
	}
}

func TestRenderUsesBackendHTMLVerbatim(t *testing.T) {
	data := &types.WebsiteData{
		ID:      "site-2",
		HTML:    "<html><head><title>Custom</title></head><body><h1>Custom build</h1></body></html>",
		Styling: map[string]interface{}{"primary_color": "#445566"},
	}

	html, err := Render(data)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(html, "<h1>Custom build</h1>") {
		t.Fatalf("backend HTML was not preserved")
	}
	// Missing pieces get injected into the head
	if !strings.Contains(html, `name="viewport"`) {
		t.Fatalf("viewport meta was not injected")
	}
	if !strings.Contains(html, "--primary: #445566") {
		t.Fatalf("theme variables were not injected")
	}
	if !strings.Contains(html, "highlight-section") {
		t.Fatalf("highlight script was not injected")
	}
	if idx := strings.Index(html, `name="viewport"`); idx > strings.Index(html, "</head>") {
		t.Fatalf("injection landed outside the head element")
	}
}

func TestRenderHTMLWithoutHead(t *testing.T) {
	data := &types.WebsiteData{HTML: "<body><p>bare</p></body>"}
	html, err := Render(data)
	if err != nil {
		t.Fatalf("Render error: %v", err)
	}
	if !strings.Contains(html, "<p>bare</p>") || !strings.Contains(html, `name="viewport"`) {
		t.Fatalf("headless document not augmented: %q", html)
	}
}

func TestRenderRejectsEmptyData(t *testing.T) {
	if _, err := Render(nil); err == nil {
		t.Fatalf("expected error for nil data")
	}
	if _, err := Render(&types.WebsiteData{}); err == nil {
		t.Fatalf("expected error for data with neither html nor content")
	}
}

func TestDeviceWidths(t *testing.T) {
	cases := []struct {
		device Device
		want   int
	}{
		{DeviceDesktop, 1280},
		{DeviceTablet, 768},
		{DeviceMobile, 375},
	}
	for _, c := range cases {
		if got := c.device.Width(); got != c.want {
			t.Fatalf("%s width = %d; want %d", c.device, got, c.want)
		}
	}

	if ParseDevice("nonsense") != DeviceDesktop {
		t.Fatalf("unknown device should default to desktop")
	}
	if ClampZoom(10) != 25 || ClampZoom(500) != 200 || ClampZoom(75) != 75 {
		t.Fatalf("zoom clamping wrong")
	}
}
