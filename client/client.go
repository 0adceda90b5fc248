package client

import (
	"net/http"
	"net/http/cookiejar"
	"sync"

	"docsite/config"
)

// APIClient talks to the website-builder backend. It owns the session cookie
// jar and the CSRF token, so one instance serves one authenticated session.
type APIClient struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.Mutex
	csrfToken string
}

// New creates a backend API client. An empty baseURL falls back to the
// DOCSITE_API_URL environment variable and then to the development default.
func New(baseURL string) *APIClient {
	if baseURL == "" {
		baseURL = config.APIBaseURL()
	}
	jar, _ := cookiejar.New(nil)
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
			Jar:     jar,
		},
	}
}

// BaseURL returns the configured backend base URL
func (c *APIClient) BaseURL() string {
	return c.baseURL
}
