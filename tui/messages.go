package tui

import (
	"time"

	"docsite/client"
	"docsite/content"
	"docsite/publish"
	"docsite/types"
)

// Messages for the tea program

// LoginResultMsg is sent when an auth attempt finishes
type LoginResultMsg struct {
	User *client.User
	Err  error
}

// ProgressMsg carries one processing progress update
type ProgressMsg struct {
	Update types.ProgressUpdate
}

// ProcessingDoneMsg is sent when processing finishes, successfully or not
type ProcessingDoneMsg struct {
	Result *types.ProcessingResult
	Err    error
}

// RecorderTickMsg drives the level meter while capturing audio
type RecorderTickMsg struct {
	Time time.Time
}

// CaptureDoneMsg is sent when the audio capture session ends
type CaptureDoneMsg struct {
	Data []byte
	Err  error
}

// SaveResultMsg is sent when a save attempt finishes
type SaveResultMsg struct {
	Saved types.EditableContent
	Err   error
}

// PublishResultMsg is sent when a publish attempt finishes
type PublishResultMsg struct {
	Deployment *publish.Deployment
	Err        error
}

// RegenerateResultMsg is sent when a field regeneration finishes
type RegenerateResultMsg struct {
	Path  string
	Value string
	Err   error
}

// ValidationMsg refreshes the validation panel
type ValidationMsg struct {
	Result content.ContentValidation
}
