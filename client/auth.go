package client

import (
	"context"
	"net/http"
	"time"
)

// User is the backend's representation of the authenticated account
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Title     string    `json:"title,omitempty"`
	Specialty string    `json:"specialty,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest is the login endpoint payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the registration endpoint payload
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Specialty string `json:"specialty,omitempty"`
}

// Login authenticates and establishes the session cookie
func (c *APIClient) Login(ctx context.Context, req LoginRequest) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/v1/users/login", req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Register creates a new account and logs it in
func (c *APIClient) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/v1/users/register", req, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout terminates the backend session
func (c *APIClient) Logout(ctx context.Context) error {
	return c.doJSONRequest(ctx, http.MethodPost, "/api/v1/users/logout", nil, nil)
}

// ForgotPassword triggers a password-reset email
func (c *APIClient) ForgotPassword(ctx context.Context, email string) error {
	payload := map[string]interface{}{"email": email}
	return c.doJSONRequest(ctx, http.MethodPost, "/api/v1/users/forgot-password", payload, nil)
}

// ResetPassword completes a password reset with the emailed token
func (c *APIClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	payload := map[string]interface{}{
		"token":    token,
		"password": newPassword,
	}
	return c.doJSONRequest(ctx, http.MethodPost, "/api/v1/users/reset-password", payload, nil)
}

// RefreshToken extends the current session
func (c *APIClient) RefreshToken(ctx context.Context) error {
	return c.doJSONRequest(ctx, http.MethodPost, "/api/v1/users/refresh-token", nil, nil)
}

// CurrentUser fetches the account bound to the session cookie
func (c *APIClient) CurrentUser(ctx context.Context) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/v1/users/current-user", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}
