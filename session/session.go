package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"docsite/client"
)

// Manager wraps the auth endpoints and holds the current user in memory for
// the lifetime of the session
type Manager struct {
	api *client.APIClient

	mu   sync.RWMutex
	user *client.User
}

// NewManager creates a session manager over an API client
func NewManager(api *client.APIClient) *Manager {
	return &Manager{api: api}
}

// Login authenticates and remembers the user
func (m *Manager) Login(ctx context.Context, email, password string) (*client.User, error) {
	user, err := m.api.Login(ctx, client.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	m.setUser(user)
	return user, nil
}

// Register creates an account and remembers the user
func (m *Manager) Register(ctx context.Context, req client.RegisterRequest) (*client.User, error) {
	user, err := m.api.Register(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}
	m.setUser(user)
	return user, nil
}

// Logout ends the backend session and clears the cached user. The local
// state is cleared even when the server call fails.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.api.Logout(ctx)
	m.setUser(nil)
	if err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	return nil
}

// ForgotPassword triggers the reset email flow
func (m *Manager) ForgotPassword(ctx context.Context, email string) error {
	return m.api.ForgotPassword(ctx, email)
}

// RefreshToken extends the backend session before the cookie expires
func (m *Manager) RefreshToken(ctx context.Context) error {
	return m.api.RefreshToken(ctx)
}

// ResetPassword completes the reset flow with the emailed token
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.api.ResetPassword(ctx, token, newPassword)
}

// CurrentUser returns the cached user, fetching it from the backend when the
// session cookie exists but the cache is cold
func (m *Manager) CurrentUser(ctx context.Context) (*client.User, error) {
	m.mu.RLock()
	cached := m.user
	m.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	user, err := m.api.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	m.setUser(user)
	return user, nil
}

// User returns the cached user without touching the network
func (m *Manager) User() *client.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// DisplayName derives the name shown in the UI: the doctor's title and full
// name, with "Dr." supplied when the account has no title
func (m *Manager) DisplayName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return ""
	}
	return DisplayName(m.user)
}

// Initials derives the one-or-two letter monogram for avatars
func (m *Manager) Initials() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return ""
	}
	return Initials(m.user)
}

// DisplayName formats a user's name for display
func DisplayName(u *client.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	title := strings.TrimSpace(u.Title)
	if title == "" {
		title = "Dr."
	}
	return title + " " + name
}

// Initials returns the first letters of the user's first and last names,
// falling back to the email's first letter
func Initials(u *client.User) string {
	var b strings.Builder
	if u.FirstName != "" {
		b.WriteString(strings.ToUpper(u.FirstName[:1]))
	}
	if u.LastName != "" {
		b.WriteString(strings.ToUpper(u.LastName[:1]))
	}
	if b.Len() == 0 && u.Email != "" {
		b.WriteString(strings.ToUpper(u.Email[:1]))
	}
	return b.String()
}

func (m *Manager) setUser(u *client.User) {
	m.mu.Lock()
	m.user = u
	m.mu.Unlock()
}
