package types

import "time"

// InputType distinguishes the two submission paths
type InputType string

const (
	InputAudio InputType = "audio"
	InputText  InputType = "text"
)

// StepStatus is the status of one pipeline stage
type StepStatus string

const (
	StatusProcessing StepStatus = "processing"
	StatusCompleted  StepStatus = "completed"
	StatusError      StepStatus = "error"
)

// Stage ids emitted by the backend pipeline
const (
	StageUpload          = "upload"
	StageTranscribe      = "transcribe"
	StageProcessText     = "process_text"
	StageDetectSpecialty = "detect_specialty"
	StageGenerateContent = "generate_content"
	StageBuildStructure  = "build_structure"
)

// ProgressUpdate is one progress callback payload. CurrentStep is 1-based and
// never regresses within a tracking session. RequestID identifies the job so
// the caller can cancel it mid-flight.
type ProgressUpdate struct {
	RequestID   string     `json:"request_id"`
	CurrentStep int        `json:"current_step"`
	TotalSteps  int        `json:"total_steps"`
	StepID      string     `json:"step_id"`
	StepLabel   string     `json:"step_label"`
	Status      StepStatus `json:"status"`
	Progress    int        `json:"progress"`
	InputType   InputType  `json:"input_type"`
}

// JobStatus is the payload of the status polling endpoint
type JobStatus struct {
	RequestID string                 `json:"request_id"`
	Status    string                 `json:"status"`
	Stage     string                 `json:"stage,omitempty"`
	Progress  int                    `json:"progress,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Result    *WebsiteData           `json:"result,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Extra     map[string]interface{} `json:"extra,omitempty"`
}

// SubmitResponse is returned by the process-audio and process-text endpoints.
// A RequestID is not valid until the submit call has returned one.
type SubmitResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"request_id"`
	Message   string `json:"message,omitempty"`
}

// ProcessingResult is the terminal payload of a successful submission
type ProcessingResult struct {
	RequestID   string       `json:"request_id"`
	WebsiteData *WebsiteData `json:"website_data"`
	CompletedAt time.Time    `json:"completed_at"`
}
