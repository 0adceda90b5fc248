package orchestrator

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"docsite/client"
	"docsite/types"
)

// userMessages maps each error category to its fixed user-facing text
var userMessages = map[types.ErrorCategory]string{
	types.ErrCategoryUpload:        "We couldn't upload your recording.",
	types.ErrCategoryTranscription: "We couldn't transcribe your recording.",
	types.ErrCategoryProcessing:    "Something went wrong while generating your website.",
	types.ErrCategoryNetwork:       "We're having trouble reaching the server.",
	types.ErrCategoryServer:        "The server ran into a problem.",
	types.ErrCategoryValidation:    "Your input couldn't be accepted.",
	types.ErrCategoryFileSize:      "Your audio file is too large.",
	types.ErrCategoryFileFormat:    "Your audio file format isn't supported.",
	types.ErrCategoryClient:        "The request was rejected.",
	types.ErrCategoryTimeout:       "This is taking longer than expected.",
	types.ErrCategoryUnknown:       "An unexpected error occurred.",
}

// guidance maps each error category to a remediation hint
var guidance = map[types.ErrorCategory]string{
	types.ErrCategoryUpload:        "Check your connection and try the upload again.",
	types.ErrCategoryTranscription: "Try re-recording in a quieter environment, or type your description instead.",
	types.ErrCategoryProcessing:    "Try again in a moment. If it keeps failing, simplify your description.",
	types.ErrCategoryNetwork:       "Check your internet connection and retry.",
	types.ErrCategoryServer:        "Please wait a moment and try again.",
	types.ErrCategoryValidation:    "Review the highlighted problems and resubmit.",
	types.ErrCategoryFileSize:      "Record a shorter description (under 25MB) and try again.",
	types.ErrCategoryFileFormat:    "Use a common audio format such as WAV, MP3, or WebM.",
	types.ErrCategoryClient:        "Refresh your session and try again.",
	types.ErrCategoryTimeout:       "The job may still finish; retry or check back shortly.",
	types.ErrCategoryUnknown:       "Try again. If the problem persists, contact support.",
}

// stageCategories maps a pipeline stage to the category used for errors the
// backend reports from that stage
var stageCategories = map[string]types.ErrorCategory{
	types.StageUpload:          types.ErrCategoryUpload,
	types.StageTranscribe:      types.ErrCategoryTranscription,
	types.StageProcessText:     types.ErrCategoryProcessing,
	types.StageDetectSpecialty: types.ErrCategoryProcessing,
	types.StageGenerateContent: types.ErrCategoryProcessing,
	types.StageBuildStructure:  types.ErrCategoryProcessing,
}

// Categorize normalizes any error that survived transport retries into the
// fixed client-side taxonomy. stage may be empty when the failure happened
// before tracking started.
func Categorize(stage string, err error) *types.ProcessingError {
	var pe *types.ProcessingError
	if errors.As(err, &pe) {
		return pe
	}

	category := types.ErrCategoryUnknown
	retryable := false

	var apiErr *client.APIError
	var urlErr *url.Error
	switch {
	case errors.As(err, &apiErr):
		category, retryable = categorizeStatus(stage, apiErr.StatusCode)
	case errors.Is(err, context.DeadlineExceeded):
		category, retryable = types.ErrCategoryTimeout, true
	case errors.As(err, &urlErr):
		category, retryable = types.ErrCategoryNetwork, true
	}

	return newError(category, stage, retryable, err.Error())
}

// categorizeStatus maps an HTTP status to a category and retryable flag.
// Client errors (400/413/415) are never retryable; 5xx and 429 are.
func categorizeStatus(stage string, status int) (types.ErrorCategory, bool) {
	switch {
	case status == http.StatusRequestEntityTooLarge:
		return types.ErrCategoryFileSize, false
	case status == http.StatusUnsupportedMediaType:
		return types.ErrCategoryFileFormat, false
	case status == http.StatusBadRequest:
		return types.ErrCategoryValidation, false
	case status == http.StatusTooManyRequests:
		return types.ErrCategoryServer, true
	case status >= 500:
		return types.ErrCategoryServer, true
	case status >= 400:
		return types.ErrCategoryClient, false
	default:
		return types.ErrCategoryUnknown, false
	}
}

// categorizeStageError normalizes an error reported in a job status or
// realtime error frame, where all we have is the stage and a message.
func categorizeStageError(stage, message string) *types.ProcessingError {
	category, ok := stageCategories[stage]
	if !ok {
		category = types.ErrCategoryProcessing
	}
	// Pipeline failures are generally worth one more attempt
	return newError(category, stage, true, message)
}

// newError builds a ProcessingError with the fixed message and guidance for
// its category
func newError(category types.ErrorCategory, stage string, retryable bool, technical string) *types.ProcessingError {
	return &types.ProcessingError{
		Category:         category,
		Severity:         types.SeverityError,
		Retryable:        retryable,
		Message:          userMessages[category],
		Guidance:         guidance[category],
		Stage:            stage,
		TechnicalMessage: technical,
		Timestamp:        time.Now(),
	}
}

// validationError builds a non-retryable local validation failure that never
// reached the server
func validationError(category types.ErrorCategory, technical string) *types.ProcessingError {
	return newError(category, "", false, technical)
}
