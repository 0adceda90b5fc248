package orchestrator

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"docsite/client"
	"docsite/types"
)

func TestCategorizeStatusCodes(t *testing.T) {
	cases := []struct {
		name          string
		status        int
		wantCategory  types.ErrorCategory
		wantRetryable bool
	}{
		{"bad request", 400, types.ErrCategoryValidation, false},
		{"payload too large", 413, types.ErrCategoryFileSize, false},
		{"unsupported media type", 415, types.ErrCategoryFileFormat, false},
		{"rate limited", 429, types.ErrCategoryServer, true},
		{"server error", 500, types.ErrCategoryServer, true},
		{"bad gateway", 502, types.ErrCategoryServer, true},
		{"unauthorized", 401, types.ErrCategoryClient, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Categorize(types.StageUpload, &client.APIError{StatusCode: c.status})
			if err.Category != c.wantCategory {
				t.Fatalf("Category = %q; want %q", err.Category, c.wantCategory)
			}
			if err.Retryable != c.wantRetryable {
				t.Fatalf("Retryable = %v; want %v", err.Retryable, c.wantRetryable)
			}
			if err.Message == "" || err.Guidance == "" {
				t.Fatalf("missing user message or guidance: %+v", err)
			}
		})
	}
}

func TestCategorizeNetworkAndTimeout(t *testing.T) {
	netErr := &url.Error{Op: "Post", URL: "http://localhost", Err: errors.New("connection refused")}
	pe := Categorize("", netErr)
	if pe.Category != types.ErrCategoryNetwork || !pe.Retryable {
		t.Fatalf("network error categorized as %q retryable=%v", pe.Category, pe.Retryable)
	}

	pe = Categorize("", context.DeadlineExceeded)
	if pe.Category != types.ErrCategoryTimeout || !pe.Retryable {
		t.Fatalf("deadline categorized as %q retryable=%v", pe.Category, pe.Retryable)
	}
}

func TestCategorizePassesThroughProcessingError(t *testing.T) {
	original := validationError(types.ErrCategoryFileSize, "too big")
	pe := Categorize(types.StageUpload, original)
	if pe != original {
		t.Fatalf("expected the original error back, got %+v", pe)
	}
}

func TestCategorizeStageError(t *testing.T) {
	cases := []struct {
		name         string
		stage        string
		wantCategory types.ErrorCategory
	}{
		{"upload stage", types.StageUpload, types.ErrCategoryUpload},
		{"transcription stage", types.StageTranscribe, types.ErrCategoryTranscription},
		{"generation stage", types.StageGenerateContent, types.ErrCategoryProcessing},
		{"unknown stage", "mystery", types.ErrCategoryProcessing},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			pe := categorizeStageError(c.stage, "backend blew up")
			if pe.Category != c.wantCategory {
				t.Fatalf("Category = %q; want %q", pe.Category, c.wantCategory)
			}
			if !pe.Retryable {
				t.Fatalf("pipeline errors should be retryable")
			}
			if pe.TechnicalMessage != "backend blew up" {
				t.Fatalf("TechnicalMessage = %q", pe.TechnicalMessage)
			}
		})
	}
}
