package types

import "time"

// ErrorCategory classifies a processing failure for user display and retry
// decisions
type ErrorCategory string

const (
	ErrCategoryUpload        ErrorCategory = "upload"
	ErrCategoryTranscription ErrorCategory = "transcription"
	ErrCategoryProcessing    ErrorCategory = "processing"
	ErrCategoryNetwork       ErrorCategory = "network"
	ErrCategoryServer        ErrorCategory = "server"
	ErrCategoryValidation    ErrorCategory = "validation"
	ErrCategoryFileSize      ErrorCategory = "file_size"
	ErrCategoryFileFormat    ErrorCategory = "file_format"
	ErrCategoryClient        ErrorCategory = "client"
	ErrCategoryTimeout       ErrorCategory = "timeout"
	ErrCategoryUnknown       ErrorCategory = "unknown"
)

// ErrorSeverity distinguishes blocking failures from degraded-but-usable ones
type ErrorSeverity string

const (
	SeverityError   ErrorSeverity = "error"
	SeverityWarning ErrorSeverity = "warning"
)

// ProcessingError is the normalized error surfaced to the UI for any failure
// that survives transport-level retries or arrives in a job status payload.
type ProcessingError struct {
	Category         ErrorCategory `json:"category"`
	Severity         ErrorSeverity `json:"severity"`
	Retryable        bool          `json:"retryable"`
	Message          string        `json:"message"`
	Guidance         string        `json:"guidance"`
	Stage            string        `json:"stage,omitempty"`
	TechnicalMessage string        `json:"technical_message,omitempty"`
	Timestamp        time.Time     `json:"timestamp"`
}

// Error implements the error interface
func (e *ProcessingError) Error() string {
	if e.TechnicalMessage != "" {
		return e.Message + ": " + e.TechnicalMessage
	}
	return e.Message
}
