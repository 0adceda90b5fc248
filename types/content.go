package types

import (
	"fmt"
	"time"
)

// FieldType identifies the UI widget a field renders as
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldRichText FieldType = "rich-text"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldButton   FieldType = "button"
	FieldImage    FieldType = "image"
	FieldList     FieldType = "list"
	FieldIcon     FieldType = "icon"
)

// Constraints holds per-field validation limits. Zero values mean "no limit".
type Constraints struct {
	MaxLength int    `json:"max_length,omitempty"`
	MinLength int    `json:"min_length,omitempty"`
	MaxItems  int    `json:"max_items,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
}

// EditableField is a leaf node of the content tree. It carries its current
// value together with everything the editor needs to render and validate it.
// Fields are mutated only through path-based updates on an Editor, never
// directly.
type EditableField struct {
	Value       string      `json:"value"`
	Editable    bool        `json:"editable"`
	Type        FieldType   `json:"type"`
	Constraints Constraints `json:"constraints"`
	Required    bool        `json:"required"`
	Section     string      `json:"section"`
}

// ServiceItem is one entry in the services list. Slice order is insertion
// order and is meaningful: it is the rendered order.
type ServiceItem struct {
	ID          string        `json:"id"`
	Name        EditableField `json:"name"`
	Description EditableField `json:"description"`
	Icon        EditableField `json:"icon"`
}

// HeroSection is the top banner of the home page
type HeroSection struct {
	Title    EditableField `json:"title"`
	Subtitle EditableField `json:"subtitle"`
	CTAText  EditableField `json:"cta_text"`
	Image    EditableField `json:"image"`
}

// HeaderSection holds the site name and tagline
type HeaderSection struct {
	SiteName EditableField `json:"site_name"`
	Tagline  EditableField `json:"tagline"`
}

// AboutSection describes the practice and practitioner
type AboutSection struct {
	Title EditableField `json:"title"`
	Body  EditableField `json:"body"`
	Image EditableField `json:"image"`
}

// ServicesSection lists the treatments/services the practice offers
type ServicesSection struct {
	Title EditableField `json:"title"`
	Items []ServiceItem `json:"items"`
}

// ContactSection holds contact details and opening hours
type ContactSection struct {
	Title   EditableField `json:"title"`
	Email   EditableField `json:"email"`
	Phone   EditableField `json:"phone"`
	Address EditableField `json:"address"`
	Hours   EditableField `json:"hours"`
}

// FooterSection is the closing text of the page
type FooterSection struct {
	Text EditableField `json:"text"`
}

// HomePage groups the editable sections of the single-page site
type HomePage struct {
	Hero     HeroSection     `json:"hero"`
	Header   HeaderSection   `json:"header"`
	About    AboutSection    `json:"about"`
	Services ServicesSection `json:"services"`
	Contact  ContactSection  `json:"contact"`
	Footer   FooterSection   `json:"footer"`
}

// Pages holds all site pages; the builder currently produces a single home page
type Pages struct {
	Home HomePage `json:"home"`
}

// Metadata carries SEO fields for the generated site
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Styling drives the generated site's theme
type Styling struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	AccentColor    string `json:"accent_color"`
	FontFamily     string `json:"font_family"`
	Theme          string `json:"theme"`
}

// EditableContent is the root of the editable content tree. Version increments
// on every mutation and LastModified is refreshed alongside it.
type EditableContent struct {
	ID           string    `json:"id"`
	Version      int       `json:"version"`
	LastModified time.Time `json:"last_modified"`
	Pages        Pages     `json:"pages"`
	Metadata     Metadata  `json:"metadata"`
	Styling      Styling   `json:"styling"`
}

// HistoryAction identifies the kind of change recorded in history
type HistoryAction string

const (
	ActionUpdate        HistoryAction = "update"
	ActionBatchUpdate   HistoryAction = "batch_update"
	ActionAddService    HistoryAction = "add_service"
	ActionRemoveService HistoryAction = "remove_service"
)

// ChangeHistoryEntry records one mutation for undo/redo
type ChangeHistoryEntry struct {
	Action    HistoryAction `json:"action"`
	FieldPath string        `json:"field_path,omitempty"`
	OldValue  interface{}   `json:"old_value,omitempty"`
	NewValue  interface{}   `json:"new_value,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// WebsiteData is the opaque backend representation of a generated site.
// Content is nested maps keyed the way the generation pipeline emits them;
// HTML, when present, is a fully built document.
type WebsiteData struct {
	ID       string                 `json:"id,omitempty"`
	Content  map[string]interface{} `json:"content"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Styling  map[string]interface{} `json:"styling,omitempty"`
	HTML     string                 `json:"html,omitempty"`
}

// NewServiceID generates a unique service id. Uniqueness within a list is
// guaranteed by the nanosecond timestamp plus the caller re-generating on the
// (practically impossible) collision.
func NewServiceID() string {
	return fmt.Sprintf("service_%d", time.Now().UnixNano())
}
