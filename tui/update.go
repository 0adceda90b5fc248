package tui

import (
	"errors"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"docsite/audio"
	"docsite/content"
	"docsite/orchestrator"
	"docsite/types"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case LoginResultMsg:
		return m.handleLoginResult(msg)
	case ProgressMsg:
		return m.handleProgress(msg)
	case ProcessingDoneMsg:
		return m.handleProcessingDone(msg)
	case RecorderTickMsg:
		return m.handleRecorderTick()
	case CaptureDoneMsg:
		return m.handleCaptureDone(msg)
	case SaveResultMsg:
		return m.handleSaveResult(msg)
	case PublishResultMsg:
		return m.handlePublishResult(msg)
	case RegenerateResultMsg:
		return m.handleRegenerateResult(msg)
	}
	return m, nil
}

// handleKeyPress routes keyboard input by screen
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Recorder.Close()
		return m, tea.Quit
	}

	switch m.Screen {
	case ScreenLogin:
		return m.updateLogin(msg)
	case ScreenInput:
		return m.updateInput(msg)
	case ScreenRecording:
		return m.updateRecording(msg)
	case ScreenProcessing:
		return m.updateProcessing(msg)
	case ScreenEditing:
		return m.updateEditing(msg)
	case ScreenDone:
		return m.updateDone(msg)
	}
	return m, nil
}

// updateLogin edits the two-field login form
func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.AuthBusy {
		return m, nil
	}

	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.LoginField = 1 - m.LoginField
		return m, nil
	case "enter":
		if m.Email == "" || m.Password == "" {
			m.Err = errors.New("email and password are required")
			return m, nil
		}
		m.Err = nil
		m.AuthBusy = true
		return m, loginCmd(m.deps.Session, m.Email, m.Password)
	case "backspace":
		if m.LoginField == 0 {
			m.Email = trimLast(m.Email)
		} else {
			m.Password = trimLast(m.Password)
		}
		return m, nil
	}

	if s := printable(msg); s != "" {
		if m.LoginField == 0 {
			m.Email += s
		} else {
			m.Password += s
		}
	}
	return m, nil
}

// updateInput edits the description text or audio file path and submits
func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+t":
		if m.Mode == ModeText {
			m.Mode = ModeAudio
		} else {
			m.Mode = ModeText
		}
		m.Err = nil
		return m, nil
	case "enter":
		if m.Mode == ModeAudio {
			if m.AudioPath == "" {
				m.Err = errors.New("enter the path of an audio file first")
				return m, nil
			}
			m.Err = nil
			m.Screen = ScreenRecording
			return m, startCaptureCmd(m.Recorder, m.AudioPath)
		}
		if v := orchestrator.ValidateTextInput(m.Text); !v.IsValid {
			m.Err = errors.New(strings.Join(v.Errors, "; "))
			return m, nil
		}
		return m.startProcessing(orchestrator.TextInput{Text: m.Text})
	case "backspace":
		if m.Mode == ModeText {
			m.Text = trimLast(m.Text)
		} else {
			m.AudioPath = trimLast(m.AudioPath)
		}
		return m, nil
	}

	if s := printable(msg); s != "" {
		if m.Mode == ModeText {
			m.Text += s
		} else {
			m.AudioPath += s
		}
	}
	return m, nil
}

// updateRecording handles the capture session screen
func (m Model) updateRecording(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "enter":
		if m.Recorder.State() == audio.StateRecording {
			return m, stopCaptureCmd(m.Recorder)
		}
	case "esc":
		m.Recorder.Close()
		m.Screen = ScreenInput
		return m, nil
	}
	return m, nil
}

// updateProcessing allows cancelling an in-flight job
func (m Model) updateProcessing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" && m.RequestID != "" {
		m.deps.Orch.Cancel(m.RequestID)
		m.Notice = "Cancelling..."
	}
	return m, nil
}

// updateEditing drives field navigation, inline editing, service management,
// and history
func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.Editing {
		switch msg.String() {
		case "enter":
			path := m.Paths[m.Selected].Path
			if _, err := m.Editor.Update(path, m.EditBuffer); err != nil {
				m.Err = err
			} else {
				m.Err = nil
				m = m.syncEditor()
			}
			m.Editing = false
			return m, nil
		case "esc":
			m.Editing = false
			return m, nil
		case "backspace":
			m.EditBuffer = trimLast(m.EditBuffer)
			return m, nil
		}
		if s := printable(msg); s != "" {
			m.EditBuffer += s
		}
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Paths)-1 {
			m.Selected++
		}
	case "enter", "e":
		path := m.Paths[m.Selected].Path
		if f, ok := content.FieldAtPath(m.Editor.Content(), path); ok {
			if !f.Editable {
				m.Err = errors.New("this field is not editable")
				return m, nil
			}
			m.EditBuffer = f.Value
		} else if v, ok := content.ValueAtPath(m.Editor.Content(), path); ok {
			m.EditBuffer, _ = v.(string)
		}
		m.Editing = true
		m.Err = nil
	case "a":
		if _, _, err := m.Editor.AddService("New Service", "Describe this service.", "plus"); err != nil {
			m.Err = err
			return m, nil
		}
		m = m.syncEditor()
		m.Paths = editablePaths(m.Editor.Content())
	case "x":
		if id, ok := selectedServiceID(m); ok {
			m.Editor.RemoveService(id)
			m = m.syncEditor()
			m.Paths = editablePaths(m.Editor.Content())
			if m.Selected >= len(m.Paths) {
				m.Selected = len(m.Paths) - 1
			}
		}
	case "u":
		if _, ok := m.Editor.Undo(); ok {
			m = m.syncEditor()
			m.Paths = editablePaths(m.Editor.Content())
		}
	case "r":
		if _, ok := m.Editor.Redo(); ok {
			m = m.syncEditor()
			m.Paths = editablePaths(m.Editor.Content())
		}
	case "g":
		if m.Website != nil && m.Website.ID != "" {
			m.Notice = "Regenerating " + m.Paths[m.Selected].Label + "..."
			return m, regenerateCmd(m.deps.API, m.Website.ID, m.Paths[m.Selected].Path)
		}
	case "s":
		if m.Saving {
			return m, nil
		}
		m.Saving = true
		m.Err = nil
		return m, saveCmd(m.deps.Store, m.Editor.Content())
	case "p":
		return m.startPublish()
	case "q":
		m.deps.Store.Flush()
		return m, tea.Quit
	}
	return m, nil
}

// updateDone handles the final screen
func (m Model) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e":
		m.Screen = ScreenEditing
		return m, nil
	case "p":
		return m.startPublish()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

// startProcessing kicks off the workflow and moves to the progress screen
func (m Model) startProcessing(input orchestrator.Input) (tea.Model, tea.Cmd) {
	m.Err = nil
	m.Notice = ""
	m.Screen = ScreenProcessing
	m.Progress = types.ProgressUpdate{}
	// A stale id from an earlier job must never reach Cancel
	m.RequestID = ""
	m.progressC = make(chan types.ProgressUpdate, 8)
	return m, tea.Batch(
		submitCmd(m.deps.Orch, input, m.progressC),
		waitForProgress(m.progressC),
	)
}

// startPublish exports the current content if a store is configured
func (m Model) startPublish() (tea.Model, tea.Cmd) {
	if m.deps.Exporter == nil {
		m.Err = errors.New("publishing is not configured; set DOCSITE_PUBLISH_BUCKET")
		return m, nil
	}
	if m.Publishing || m.Editor == nil {
		return m, nil
	}
	m.Publishing = true
	m.Err = nil
	return m, publishCmd(m.deps.Exporter, content.ToWebsiteData(m.Editor.Content()))
}

func (m Model) handleLoginResult(msg LoginResultMsg) (tea.Model, tea.Cmd) {
	m.AuthBusy = false
	if msg.Err != nil {
		m.Err = msg.Err
		return m, nil
	}
	m.Err = nil
	m.Screen = ScreenInput
	return m, nil
}

func (m Model) handleProgress(msg ProgressMsg) (tea.Model, tea.Cmd) {
	m.Progress = msg.Update
	if msg.Update.RequestID != "" {
		m.RequestID = msg.Update.RequestID
	}
	return m, waitForProgress(m.progressC)
}

func (m Model) handleProcessingDone(msg ProcessingDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Screen = ScreenInput
		m.Err = msg.Err
		return m, nil
	}
	m.RequestID = msg.Result.RequestID
	m.Notice = ""
	return m.loadResult(msg.Result.WebsiteData), nil
}

func (m Model) handleRecorderTick() (tea.Model, tea.Cmd) {
	if m.Screen == ScreenRecording && m.Recorder.State() == audio.StateRecording {
		return m, recorderTickCmd()
	}
	return m, nil
}

func (m Model) handleCaptureDone(msg CaptureDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Screen = ScreenInput
		m.Err = msg.Err
		return m, nil
	}

	name, data := m.AudioPath, msg.Data
	if audio.IsRawPCMPath(name) {
		wav, err := audio.EncodeWAV(data, audio.DefaultSampleRate, audio.DefaultChannels, audio.DefaultBitsPerSample)
		if err != nil {
			m.Screen = ScreenInput
			m.Err = err
			return m, nil
		}
		name, data = "recording.wav", wav
	}

	mime := audio.MIMEFromPath(name)
	if v := audio.ValidateFile(name, int64(len(data)), mime); !v.IsValid {
		m.Screen = ScreenInput
		m.Err = errors.New(strings.Join(v.Errors, "; "))
		return m, nil
	}

	return m.startProcessing(orchestrator.AudioInput{
		Name: name,
		MIME: mime,
		Data: data,
	})
}

func (m Model) handleSaveResult(msg SaveResultMsg) (tea.Model, tea.Cmd) {
	m.Saving = false
	if msg.Err != nil {
		m.Err = msg.Err
		return m, nil
	}
	m.Err = nil
	m.Dirty = false
	m.Notice = "Saved."
	if m.Website != nil && msg.Saved.ID != "" {
		m.Website.ID = msg.Saved.ID
	}
	m.Screen = ScreenDone
	return m, nil
}

func (m Model) handlePublishResult(msg PublishResultMsg) (tea.Model, tea.Cmd) {
	m.Publishing = false
	if msg.Err != nil {
		m.Err = msg.Err
		return m, nil
	}
	m.Err = nil
	m.Deployment = msg.Deployment
	m.Notice = "Published to " + msg.Deployment.Key
	m.Screen = ScreenDone
	return m, nil
}

func (m Model) handleRegenerateResult(msg RegenerateResultMsg) (tea.Model, tea.Cmd) {
	m.Notice = ""
	if msg.Err != nil {
		m.Err = msg.Err
		return m, nil
	}
	if _, err := m.Editor.Update(msg.Path, msg.Value); err != nil {
		m.Err = err
		return m, nil
	}
	m.Err = nil
	return m.syncEditor(), nil
}

// selectedServiceID maps the selected row back to a service item, if the
// cursor sits on one
func selectedServiceID(m Model) (string, bool) {
	path := m.Paths[m.Selected].Path
	if !strings.Contains(path, ".services.items.") {
		return "", false
	}
	segs := strings.Split(path, ".")
	idx := -1
	for i, seg := range segs {
		if seg == "items" && i+1 < len(segs) {
			idx = i + 1
			break
		}
	}
	if idx < 0 {
		return "", false
	}
	i, err := strconv.Atoi(segs[idx])
	items := m.Editor.Content().Pages.Home.Services.Items
	if err != nil || i < 0 || i >= len(items) {
		return "", false
	}
	return items[i].ID, true
}

// trimLast removes the final rune from a string
func trimLast(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return string(runes[:len(runes)-1])
}

// printable returns the literal text of a key press, or empty for control
// keys
func printable(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes)
	case tea.KeySpace:
		return " "
	}
	return ""
}
