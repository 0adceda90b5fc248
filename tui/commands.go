package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"docsite/audio"
	"docsite/client"
	"docsite/content"
	"docsite/orchestrator"
	"docsite/publish"
	"docsite/session"
	"docsite/types"
)

// loginCmd authenticates against the backend
func loginCmd(mgr *session.Manager, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		user, err := mgr.Login(ctx, email, password)
		return LoginResultMsg{User: user, Err: err}
	}
}

// submitCmd runs the full processing workflow in the background. Progress
// updates flow through the channel; waitForProgress relays them into the tea
// loop one at a time.
func submitCmd(orch *orchestrator.Orchestrator, input orchestrator.Input, progressC chan types.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		result, err := orch.Submit(context.Background(), input, func(u types.ProgressUpdate) {
			progressC <- u
		})
		close(progressC)
		return ProcessingDoneMsg{Result: result, Err: err}
	}
}

// waitForProgress relays the next progress update, ending quietly when the
// workflow closes the channel
func waitForProgress(progressC chan types.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-progressC
		if !ok {
			return nil
		}
		return ProgressMsg{Update: u}
	}
}

// startCaptureCmd begins an audio capture session from a file source
func startCaptureCmd(rec *audio.Recorder, path string) tea.Cmd {
	return func() tea.Msg {
		src, _, err := audio.OpenFileSource(path)
		if err != nil {
			return CaptureDoneMsg{Err: err}
		}
		if err := rec.Start(src); err != nil {
			return CaptureDoneMsg{Err: err}
		}
		return RecorderTickMsg{Time: time.Now()}
	}
}

// stopCaptureCmd ends the capture session and returns the recorded bytes
func stopCaptureCmd(rec *audio.Recorder) tea.Cmd {
	return func() tea.Msg {
		data, err := rec.Stop()
		return CaptureDoneMsg{Data: data, Err: err}
	}
}

// recorderTickCmd ticks every 100ms to refresh the level meter
func recorderTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return RecorderTickMsg{Time: t}
	})
}

// saveCmd persists the edited content to the backend
func saveCmd(store *content.Store, ec types.EditableContent) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		saved, err := store.Save(ctx, ec)
		return SaveResultMsg{Saved: saved, Err: err}
	}
}

// regenerateCmd asks the backend to rewrite one field's text
func regenerateCmd(api *client.APIClient, contentID, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		value, err := api.RegenerateField(ctx, contentID, path, "")
		return RegenerateResultMsg{Path: path, Value: value, Err: err}
	}
}

// publishCmd exports the site to the configured object store
func publishCmd(exporter *publish.Exporter, data *types.WebsiteData) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		dep, err := exporter.Publish(ctx, data)
		return PublishResultMsg{Deployment: dep, Err: err}
	}
}
