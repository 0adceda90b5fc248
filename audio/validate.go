package audio

import (
	"fmt"
	"strings"

	"docsite/config"
)

// ValidationResult reports whether a captured or picked audio file can be
// submitted
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// ValidateFile checks an audio file's size and format against the backend's
// accepted limits. An empty file and an unsupported format are reported as
// distinct errors so the UI can offer the right remediation.
func ValidateFile(name string, size int64, mimeType string) ValidationResult {
	result := ValidationResult{Errors: []string{}}

	if size == 0 {
		result.Errors = append(result.Errors, "Audio file is empty")
	} else if size < config.MinAudioBytes {
		result.Errors = append(result.Errors, "Audio file is too short to contain a recording")
	} else if size > config.MaxAudioBytes {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Audio file exceeds the %dMB limit", config.MaxAudioBytes>>20))
	}

	if !allowedMIMEType(mimeType) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Invalid format %q: use WAV, MP3, WebM, OGG, or M4A", mimeType))
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// allowedMIMEType matches against the accept list, ignoring codec parameters
// like "audio/webm;codecs=opus"
func allowedMIMEType(mimeType string) bool {
	base := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	for _, allowed := range config.AllowedAudioMIMETypes {
		if strings.EqualFold(base, allowed) {
			return true
		}
	}
	return false
}
