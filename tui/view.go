package tui

import (
	"fmt"
	"strings"
	"time"

	"docsite/content"
	"docsite/types"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🩺 Practice Website Builder"))
	if user := m.currentUserLine(); user != "" {
		b.WriteString("  " + InfoStyle.Render(user))
	}
	b.WriteString("\n\n")

	switch m.Screen {
	case ScreenLogin:
		b.WriteString(m.viewLogin())
	case ScreenInput:
		b.WriteString(m.viewInput())
	case ScreenRecording:
		b.WriteString(m.viewRecording())
	case ScreenProcessing:
		b.WriteString(m.viewProcessing())
	case ScreenEditing:
		b.WriteString(m.viewEditing())
	case ScreenDone:
		b.WriteString(m.viewDone())
	}

	if m.Notice != "" {
		b.WriteString("\n" + StatusStyle.Render(m.Notice) + "\n")
	}
	if m.Err != nil {
		b.WriteString("\n" + ErrorStyle.Render("❌ "+m.Err.Error()) + "\n")
	}

	return b.String()
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render("Sign in"))
	b.WriteString("\n\n")

	email := m.Email
	password := strings.Repeat("*", len(m.Password))
	fields := []struct {
		label, value string
	}{
		{"Email", email},
		{"Password", password},
	}
	for i, f := range fields {
		line := fmt.Sprintf("%-9s %s", f.label+":", f.value)
		if i == m.LoginField {
			b.WriteString(SelectedStyle.Render("> " + line))
		} else {
			b.WriteString(InfoStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.AuthBusy {
		b.WriteString(StatusStyle.Render("Signing in..."))
	} else {
		b.WriteString(InfoStyle.Render("Tab to switch fields | Enter to sign in | Ctrl+C to quit"))
	}
	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render("Describe your practice"))
	b.WriteString("\n\n")

	if m.Mode == ModeText {
		b.WriteString(InfoStyle.Render("Mode: text (Ctrl+T for audio)"))
		b.WriteString("\n\n")
		b.WriteString(m.Text)
		b.WriteString(SelectedStyle.Render("▌"))
		b.WriteString("\n\n")
		b.WriteString(InfoStyle.Render(fmt.Sprintf("%d characters (50 minimum)", len(m.Text))))
	} else {
		b.WriteString(InfoStyle.Render("Mode: audio (Ctrl+T for text)"))
		b.WriteString("\n\n")
		b.WriteString("Audio file: " + m.AudioPath)
		b.WriteString(SelectedStyle.Render("▌"))
	}

	b.WriteString("\n\n")
	b.WriteString(InfoStyle.Render("Enter to continue | Ctrl+C to quit"))
	return b.String()
}

func (m Model) viewRecording() string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render("🎙 Capturing audio"))
	b.WriteString("\n\n")

	b.WriteString(StatusStyle.Render(levelMeter(m.Recorder.Level())))
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Elapsed: %s", m.Recorder.Elapsed().Round(100*time.Millisecond))))
	b.WriteString("\n\n")
	b.WriteString(InfoStyle.Render("Press 's' to stop and submit | Esc to discard"))
	return b.String()
}

func (m Model) viewProcessing() string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render("Building your website"))
	b.WriteString("\n\n")

	p := m.Progress
	if p.TotalSteps > 0 {
		b.WriteString(StatusStyle.Render(fmt.Sprintf("Step %d/%d: %s", p.CurrentStep, p.TotalSteps, p.StepLabel)))
		b.WriteString("\n")
	} else {
		b.WriteString(StatusStyle.Render("Starting..."))
		b.WriteString("\n")
	}
	b.WriteString(progressBar(p.Progress))
	b.WriteString("\n\n")
	b.WriteString(InfoStyle.Render("Esc to cancel | Ctrl+C to quit"))
	return b.String()
}

func (m Model) viewEditing() string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render("Edit your website"))
	b.WriteString("  ")
	b.WriteString(InfoStyle.Render("preview: " + m.PreviewURL()))
	if m.Dirty {
		b.WriteString("  " + WarningStyle.Render("unsaved changes"))
	}
	b.WriteString("\n\n")

	ec := m.Editor.Content()
	for i, p := range m.Paths {
		value := truncate(pathValue(ec, p.Path), 60)
		line := fmt.Sprintf("%-24s %s", p.Label, value)
		if i == m.Selected {
			if m.Editing {
				line = fmt.Sprintf("%-24s %s", p.Label, m.EditBuffer+"▌")
			}
			b.WriteString(SelectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if panel := validationPanel(m.Validation); panel != "" {
		b.WriteString("\n" + BoxStyle.Render(panel) + "\n")
	}

	b.WriteString("\n")
	if m.Editing {
		b.WriteString(InfoStyle.Render("Enter to apply | Esc to cancel"))
	} else {
		b.WriteString(InfoStyle.Render("↑/↓ move | Enter edit | a add service | x remove service | u undo | r redo | g regenerate | s save | p publish | q quit"))
	}
	return b.String()
}

func (m Model) viewDone() string {
	var b strings.Builder
	b.WriteString(HighlightStyle.Render("✅ Your website is ready"))
	b.WriteString("\n\n")
	b.WriteString(StatusStyle.Render("Preview: " + m.PreviewURL()))
	b.WriteString("\n")
	if m.Deployment != nil {
		b.WriteString(StatusStyle.Render("Published: " + m.Deployment.Key))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("Press 'e' to keep editing | 'p' to publish | 'q' to quit"))
	return b.String()
}

// pathValue reads the display value at a content path
func pathValue(ec types.EditableContent, path string) string {
	if f, ok := content.FieldAtPath(ec, path); ok {
		return f.Value
	}
	if v, ok := content.ValueAtPath(ec, path); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// validationPanel formats blocking errors and advisory warnings
func validationPanel(v content.ContentValidation) string {
	if v.IsValid && len(v.Warnings) == 0 {
		return ""
	}
	var b strings.Builder
	for path, msgs := range v.Errors {
		for _, msg := range msgs {
			b.WriteString(ErrorStyle.Render(fmt.Sprintf("✗ %s: %s", path, msg)))
			b.WriteString("\n")
		}
	}
	for _, w := range v.Warnings {
		b.WriteString(WarningStyle.Render("⚠ " + w))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// truncate shortens a display value on rune boundaries so multi-byte text is
// never split mid-character
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// progressBar renders a fixed-width percentage bar
func progressBar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * 30 / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", 30-filled)
	return fmt.Sprintf("%s %d%%", bar, pct)
}

// levelMeter renders the audio level as a bar
func levelMeter(level float64) string {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	filled := int(level * 20)
	return "[" + strings.Repeat("▮", filled) + strings.Repeat(" ", 20-filled) + "]"
}
