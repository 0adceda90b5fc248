package orchestrator

import (
	"log"

	"docsite/types"
)

// audioStages is the fixed pipeline for voice submissions
var audioStages = []string{
	types.StageUpload,
	types.StageTranscribe,
	types.StageProcessText,
	types.StageDetectSpecialty,
	types.StageGenerateContent,
	types.StageBuildStructure,
}

// textStages is the fixed pipeline for typed submissions
var textStages = []string{
	types.StageProcessText,
	types.StageDetectSpecialty,
	types.StageGenerateContent,
	types.StageBuildStructure,
}

// stageLabels maps stage ids to user-facing step names
var stageLabels = map[string]string{
	types.StageUpload:          "Uploading your recording",
	types.StageTranscribe:      "Transcribing your description",
	types.StageProcessText:     "Understanding your practice",
	types.StageDetectSpecialty: "Detecting your specialty",
	types.StageGenerateContent: "Writing your website content",
	types.StageBuildStructure:  "Building your website",
}

// StagesFor returns the ordered stage list for an input type
func StagesFor(inputType types.InputType) []string {
	if inputType == types.InputAudio {
		return audioStages
	}
	return textStages
}

// tracker resolves raw stage ids against the fixed stage list and keeps the
// step index monotonic within one tracking session. An unknown stage id
// reuses the last known index so the progress display never regresses or
// shows a bogus step; the event is logged so backend protocol drift is
// visible instead of silently freezing the bar.
type tracker struct {
	stages    []string
	inputType types.InputType
	lastIndex int
}

// newTracker starts a tracking session at step 0
func newTracker(inputType types.InputType) *tracker {
	return &tracker{
		stages:    StagesFor(inputType),
		inputType: inputType,
	}
}

// Reset rewinds the session to step 0. Only an explicit retry does this.
func (t *tracker) Reset() {
	t.lastIndex = 0
}

// Resolve turns a raw stage event into a ProgressUpdate. serverProgress may
// be 0 when the backend does not report a percentage; in that case progress
// is derived from the step position.
func (t *tracker) Resolve(stageID string, status types.StepStatus, serverProgress int) types.ProgressUpdate {
	idx := t.indexOf(stageID)
	if idx < 0 {
		log.Printf("orchestrator: unrecognized stage %q, keeping step %d", stageID, t.lastIndex+1)
		idx = t.lastIndex
		stageID = t.stages[t.lastIndex]
	} else if idx > t.lastIndex {
		t.lastIndex = idx
	} else {
		// Late or duplicate event for an earlier stage: never move backwards
		idx = t.lastIndex
		stageID = t.stages[t.lastIndex]
	}

	progress := serverProgress
	if progress <= 0 {
		progress = t.estimate(idx, status)
	}
	if progress > 100 {
		progress = 100
	}

	return types.ProgressUpdate{
		CurrentStep: idx + 1,
		TotalSteps:  len(t.stages),
		StepID:      stageID,
		StepLabel:   stageLabels[stageID],
		Status:      status,
		Progress:    progress,
		InputType:   t.inputType,
	}
}

// Current returns an update for the present step without consuming an event.
// The polling fallback uses this when the status payload carries no stage id.
func (t *tracker) Current(status types.StepStatus, progress int) types.ProgressUpdate {
	stageID := t.stages[t.lastIndex]
	return types.ProgressUpdate{
		CurrentStep: t.lastIndex + 1,
		TotalSteps:  len(t.stages),
		StepID:      stageID,
		StepLabel:   stageLabels[stageID],
		Status:      status,
		Progress:    progress,
		InputType:   t.inputType,
	}
}

// estimate derives a percentage from the step position when the backend
// reports none
func (t *tracker) estimate(idx int, status types.StepStatus) int {
	done := idx
	if status == types.StatusCompleted {
		done = idx + 1
	}
	return done * 100 / len(t.stages)
}

func (t *tracker) indexOf(stageID string) int {
	for i, s := range t.stages {
		if s == stageID {
			return i
		}
	}
	return -1
}
