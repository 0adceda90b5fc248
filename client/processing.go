package client

import (
	"context"
	"fmt"
	"net/http"

	"docsite/types"
)

// ProcessAudio uploads a recorded practice description for the full pipeline
// (upload, transcribe, process, generate, build). Returns the server-assigned
// request id used for progress tracking.
func (c *APIClient) ProcessAudio(ctx context.Context, fileName, mimeType string, data []byte) (*types.SubmitResponse, error) {
	fields := map[string]string{
		"mime_type": mimeType,
	}
	var resp types.SubmitResponse
	if err := c.doMultipartRequest(ctx, "/api/v1/processing/process-audio", "audio", fileName, data, fields, &resp); err != nil {
		return nil, err
	}
	if resp.RequestID == "" {
		return nil, fmt.Errorf("submit succeeded but no request id was returned")
	}
	return &resp, nil
}

// ProcessText submits a typed practice description, skipping the audio stages
func (c *APIClient) ProcessText(ctx context.Context, text string) (*types.SubmitResponse, error) {
	payload := map[string]interface{}{"text": text}
	var resp types.SubmitResponse
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/v1/processing/process-text", payload, &resp); err != nil {
		return nil, err
	}
	if resp.RequestID == "" {
		return nil, fmt.Errorf("submit succeeded but no request id was returned")
	}
	return &resp, nil
}

// ProcessingStatus polls the status of an in-flight job
func (c *APIClient) ProcessingStatus(ctx context.Context, requestID string) (*types.JobStatus, error) {
	var status types.JobStatus
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/v1/processing/status/"+requestID, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// CancelProcessing asks the server to abandon a job. Best effort: the server
// may have already finished or may keep running; callers stop tracking
// regardless of the outcome here.
func (c *APIClient) CancelProcessing(ctx context.Context, requestID string) error {
	return c.doJSONRequest(ctx, http.MethodPost, "/api/v1/processing/cancel/"+requestID, nil, nil)
}

// ProcessingJobs lists the session's recent jobs
func (c *APIClient) ProcessingJobs(ctx context.Context) ([]types.JobStatus, error) {
	var resp struct {
		Jobs []types.JobStatus `json:"jobs"`
	}
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/v1/processing/jobs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

// ProcessingHealth checks whether the pipeline is accepting work
func (c *APIClient) ProcessingHealth(ctx context.Context) error {
	return c.doJSONRequest(ctx, http.MethodGet, "/api/v1/processing/health", nil, nil)
}
