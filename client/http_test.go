package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// testServer counts requests per path and lets cases script status sequences
type testServer struct {
	mu       sync.Mutex
	requests map[string]int
	handler  http.HandlerFunc
}

func newTestServer(handler http.HandlerFunc) (*testServer, *httptest.Server) {
	ts := &testServer{requests: map[string]int{}}
	ts.handler = handler
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.requests[r.URL.Path]++
		ts.mu.Unlock()

		if r.URL.Path == "/api/v1/csrf-token" {
			json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
			return
		}
		ts.handler(w, r)
	}))
	return ts, srv
}

func (ts *testServer) count(path string) int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.requests[path]
}

func TestCSRFTokenFetchedOncePerClient(t *testing.T) {
	var gotTokens []string
	var mu sync.Mutex

	ts, srv := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotTokens = append(gotTokens, r.Header.Get("X-CSRF-Token"))
		mu.Unlock()
		json.NewEncoder(w).Encode(map[string]interface{}{
			"user": map[string]interface{}{"id": "u1", "email": "dr@clinic.example"},
		})
	})
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	user, err := c.Login(ctx, LoginRequest{Email: "dr@clinic.example", Password: "pw"})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if user == nil || user.ID != "u1" {
		t.Fatalf("Login user = %+v; want id u1", user)
	}
	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	if got := ts.count("/api/v1/csrf-token"); got != 1 {
		t.Fatalf("csrf endpoint hit %d times; want 1", got)
	}
	for i, tok := range gotTokens {
		if tok != "tok-123" {
			t.Fatalf("request %d carried token %q; want tok-123", i, tok)
		}
	}
}

func TestGETSkipsCSRFToken(t *testing.T) {
	ts, srv := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"user": map[string]interface{}{"id": "u1", "email": "dr@clinic.example"},
		})
	})
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.CurrentUser(context.Background()); err != nil {
		t.Fatalf("CurrentUser error: %v", err)
	}
	if got := ts.count("/api/v1/csrf-token"); got != 0 {
		t.Fatalf("csrf endpoint hit %d times for a GET; want 0", got)
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	ts, srv := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "description too short"})
	})
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ProcessText(context.Background(), "some text")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T; want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("StatusCode = %d; want 400", apiErr.StatusCode)
	}
	if got := ts.count("/api/v1/processing/process-text"); got != 1 {
		t.Fatalf("endpoint hit %d times; want exactly 1 (no retries)", got)
	}
}

func TestServerErrorsAreRetried(t *testing.T) {
	if testing.Short() {
		t.Skip("retry backoff waits real time")
	}

	var mu sync.Mutex
	failures := 1
	ts, srv := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		remaining := failures
		failures--
		mu.Unlock()
		if remaining > 0 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "request_id": "req-1"})
	})
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.ProcessText(context.Background(), "some text")
	if err != nil {
		t.Fatalf("ProcessText error after retry: %v", err)
	}
	if resp.RequestID != "req-1" {
		t.Fatalf("RequestID = %q; want req-1", resp.RequestID)
	}
	if got := ts.count("/api/v1/processing/process-text"); got != 2 {
		t.Fatalf("endpoint hit %d times; want 2 (one retry)", got)
	}
}

func TestRetriesExhaustIntoAPIError(t *testing.T) {
	if testing.Short() {
		t.Skip("retry backoff waits real time")
	}

	ts, srv := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.ProcessText(context.Background(), "some text")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T; want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("StatusCode = %d; want 503", apiErr.StatusCode)
	}
	// Initial attempt plus the full retry budget
	if got := ts.count("/api/v1/processing/process-text"); got != 4 {
		t.Fatalf("endpoint hit %d times; want 4", got)
	}
}

func TestSubmitWithoutRequestIDFails(t *testing.T) {
	_, srv := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.ProcessText(context.Background(), "some text"); err == nil {
		t.Fatalf("expected error when the server returns no request id")
	}
}
