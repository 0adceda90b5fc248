package orchestrator

import (
	"fmt"
	"strings"

	"docsite/config"
)

// TextValidationResult reports local validation of a typed description.
// Errors block submission; Warnings do not.
type TextValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

// medicalKeywords is the heuristic vocabulary used to check that a
// description actually talks about a medical practice
var medicalKeywords = []string{
	"doctor", "dr.", "dr ", "physician", "clinic", "practice", "patient",
	"medical", "medicine", "health", "healthcare", "hospital", "specialist",
	"pediatric", "cardiolog", "dermatolog", "neurolog", "orthoped",
	"psychiatr", "dentist", "dental", "surgeon", "surgery", "therapy",
	"therapist", "nurse", "treatment", "diagnos", "care",
}

// ValidateTextInput checks a typed practice description before submission.
// Length problems are blocking errors; a description without any recognizable
// medical vocabulary only raises a warning, since specialty detection happens
// server-side anyway.
func ValidateTextInput(text string) TextValidationResult {
	result := TextValidationResult{Errors: []string{}}
	trimmed := strings.TrimSpace(text)

	if len(trimmed) < config.MinDescriptionLength {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Description must be at least %d characters", config.MinDescriptionLength))
	}
	if len(trimmed) > config.MaxDescriptionLength {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Description must be at most %d characters", config.MaxDescriptionLength))
	}

	if !containsMedicalKeyword(trimmed) {
		result.Warnings = append(result.Warnings,
			"Your description doesn't mention your medical practice; results may be generic")
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

func containsMedicalKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range medicalKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
