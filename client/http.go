package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"docsite/config"
)

// APIError carries the HTTP status and the decoded response body of a failed
// request so callers can categorize it.
type APIError struct {
	StatusCode int
	Body       map[string]interface{}
	RawBody    string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if msg, ok := e.Body["message"].(string); ok && msg != "" {
		return fmt.Sprintf("API returned %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("API returned %d: %s", e.StatusCode, e.RawBody)
}

// doJSONRequest performs a JSON request with the given method, path, payload, and result.
// It handles marshaling the payload, attaching the CSRF token for non-GET
// requests, executing with the retry policy, and unmarshaling the response.
// If result is nil, the response body is not decoded.
func (c *APIClient) doJSONRequest(ctx context.Context, method, path string, payload, result interface{}) error {
	var body []byte
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = jsonData
	}

	build := func() (*http.Request, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	}

	return c.execute(ctx, method, build, result)
}

// doMultipartRequest uploads a file plus extra fields as multipart form data.
// Used by the audio submission endpoint.
func (c *APIClient) doMultipartRequest(ctx context.Context, path, fieldName, fileName string, data []byte, fields map[string]string, result interface{}) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("failed to write form file: %w", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("failed to write form field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}
	formBody := buf.Bytes()
	contentType := w.FormDataContentType()

	build := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(formBody))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	}

	return c.execute(ctx, http.MethodPost, build, result)
}

// execute runs a request with the retry policy:
//   - status >= 500 or 429: up to MaxServerRetries retries, backoff 1s*2^n
//   - transport errors: up to MaxNetworkRetries retries, flat 2s delay
//   - other 4xx: never retried
//
// The request is rebuilt on every attempt so the body reader is fresh.
func (c *APIClient) execute(ctx context.Context, method string, build func() (*http.Request, error), result interface{}) error {
	if method != http.MethodGet {
		if err := c.ensureCSRFToken(ctx); err != nil {
			return fmt.Errorf("failed to fetch CSRF token: %w", err)
		}
	}

	serverRetries := 0
	networkRetries := 0

	for {
		req, err := build()
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		if method != http.MethodGet {
			c.mu.Lock()
			req.Header.Set("X-CSRF-Token", c.csrfToken)
			c.mu.Unlock()
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if isNetworkError(err) && networkRetries < config.MaxNetworkRetries {
				networkRetries++
				if werr := sleepCtx(ctx, config.NetworkRetryDelay); werr != nil {
					return werr
				}
				continue
			}
			return fmt.Errorf("failed to send request: %w", err)
		}

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if serverRetries < config.MaxServerRetries {
				delay := config.RetryBaseDelay * time.Duration(1<<serverRetries)
				serverRetries++
				if werr := sleepCtx(ctx, delay); werr != nil {
					return werr
				}
				continue
			}
		}

		return decodeResponse(resp, result)
	}
}

// decodeResponse closes the body, converting non-2xx statuses into *APIError
// and decoding success payloads into result.
func decodeResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, RawBody: string(bodyBytes)}
		_ = json.Unmarshal(bodyBytes, &apiErr.Body)
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// ensureCSRFToken fetches the CSRF token once before the first state-changing
// request. The token rides the session cookie jar, so one fetch per client
// lifetime is enough.
func (c *APIClient) ensureCSRFToken(ctx context.Context) error {
	c.mu.Lock()
	token := c.csrfToken
	c.mu.Unlock()
	if token != "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/csrf-token", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("csrf endpoint returned %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode csrf response: %w", err)
	}

	c.mu.Lock()
	c.csrfToken = payload.Token
	c.mu.Unlock()
	return nil
}

// isNetworkError reports whether err is a transport-level failure as opposed
// to a context cancellation, which must never be retried.
func isNetworkError(err error) bool {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return false
	}
	if errors.Is(ue.Err, context.Canceled) || errors.Is(ue.Err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// sleepCtx waits for d or until ctx is done, whichever comes first
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
