package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"docsite/audio"
	"docsite/client"
	"docsite/content"
	"docsite/orchestrator"
	"docsite/publish"
	"docsite/session"
	"docsite/types"
)

// Screen represents the application screen state machine
type Screen string

const (
	ScreenLogin      Screen = "login"
	ScreenInput      Screen = "input"
	ScreenRecording  Screen = "recording"
	ScreenProcessing Screen = "processing"
	ScreenEditing    Screen = "editing"
	ScreenDone       Screen = "done"
)

// InputMode selects between describing the practice by text or audio
type InputMode string

const (
	ModeText  InputMode = "text"
	ModeAudio InputMode = "audio"
)

// editablePath pairs a dotted content path with its display label
type editablePath struct {
	Path  string
	Label string
}

// Deps bundles the services the TUI drives
type Deps struct {
	API         *client.APIClient
	Session     *session.Manager
	Orch        *orchestrator.Orchestrator
	Store       *content.Store
	Exporter    *publish.Exporter
	PreviewPort string
	SetPreview  func(*types.WebsiteData)
}

// Model is the top level bubbletea model
type Model struct {
	deps Deps

	Screen Screen
	Err    error
	Notice string

	// Login form
	Email      string
	Password   string
	LoginField int
	AuthBusy   bool

	// Input screen
	Mode      InputMode
	Text      string
	AudioPath string

	// Audio capture
	Recorder *audio.Recorder

	// Processing screen
	Progress  types.ProgressUpdate
	progressC chan types.ProgressUpdate
	RequestID string

	// Editing screen
	Editor     *content.Editor
	Paths      []editablePath
	Selected   int
	Editing    bool
	EditBuffer string
	Validation content.ContentValidation
	Dirty      bool

	// Result
	Website    *types.WebsiteData
	Deployment *publish.Deployment
	Saving     bool
	Publishing bool
}

// NewModel creates the initial model on the login screen
func NewModel(deps Deps) Model {
	return Model{
		deps:     deps,
		Screen:   ScreenLogin,
		Mode:     ModeText,
		Recorder: audio.NewRecorder(),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return nil
}

// PreviewURL returns the local preview address
func (m Model) PreviewURL() string {
	return fmt.Sprintf("http://localhost:%s/preview", m.deps.PreviewPort)
}

// loadResult moves the model into the editing screen for a processing result
func (m Model) loadResult(data *types.WebsiteData) Model {
	m.Website = data
	ec, err := content.Transform(data)
	if err != nil {
		ec = content.DefaultContent()
	}
	m.Editor = content.NewEditor(ec)
	m.Paths = editablePaths(ec)
	m.Selected = 0
	m.Editing = false
	m.Validation = content.ValidateContent(ec)
	m.Screen = ScreenEditing
	if m.deps.SetPreview != nil {
		m.deps.SetPreview(content.ToWebsiteData(ec))
	}
	return m
}

// syncEditor refreshes validation, the preview server, and the dirty flag
// after any edit
func (m Model) syncEditor() Model {
	ec := m.Editor.Content()
	m.Validation = content.ValidateContent(ec)
	m.Dirty = true
	if m.deps.SetPreview != nil {
		m.deps.SetPreview(content.ToWebsiteData(ec))
	}
	return m
}

// editablePaths builds the navigable field list for the editing screen
func editablePaths(ec types.EditableContent) []editablePath {
	paths := []editablePath{
		{"pages.home.header.site_name", "Site name"},
		{"pages.home.header.tagline", "Tagline"},
		{"pages.home.hero.title", "Hero title"},
		{"pages.home.hero.subtitle", "Hero subtitle"},
		{"pages.home.hero.cta_text", "Hero button"},
		{"pages.home.about.title", "About title"},
		{"pages.home.about.body", "About body"},
		{"pages.home.services.title", "Services title"},
	}
	for i := range ec.Pages.Home.Services.Items {
		paths = append(paths,
			editablePath{fmt.Sprintf("pages.home.services.items.%d.name", i), fmt.Sprintf("Service %d name", i+1)},
			editablePath{fmt.Sprintf("pages.home.services.items.%d.description", i), fmt.Sprintf("Service %d description", i+1)},
		)
	}
	paths = append(paths,
		editablePath{"pages.home.contact.title", "Contact title"},
		editablePath{"pages.home.contact.email", "Email"},
		editablePath{"pages.home.contact.phone", "Phone"},
		editablePath{"pages.home.contact.address", "Address"},
		editablePath{"pages.home.contact.hours", "Hours"},
		editablePath{"pages.home.footer.text", "Footer"},
	)
	return paths
}

// currentUserLine formats the signed-in user for the header
func (m Model) currentUserLine() string {
	if m.deps.Session.User() == nil {
		return ""
	}
	return m.deps.Session.DisplayName()
}
