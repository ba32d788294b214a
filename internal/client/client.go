// ABOUTME: HTTP client for the LeishVet diagnosis API
// ABOUTME: Wraps auth, user, breed and prediction calls with bearer-token handling

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotAuthenticated is returned when a bearer-protected call is attempted
// without a token. It is raised before any network I/O happens.
var ErrNotAuthenticated = errors.New("not authenticated")

const defaultTimeout = 30 * time.Second

// Client is the API client for the LeishVet backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL.
// A timeout <= 0 falls back to the default of 30 seconds.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TokenResponse represents the POST /auth/token response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Role represents a permission tier attached to a user
type Role struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
}

// User represents a user record returned by the API
type User struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Institution string    `json:"institution,omitempty"`
	IsActive    bool      `json:"is_active"`
	Role        *Role     `json:"role,omitempty"`
}

// Breed represents one entry of the breed reference list
type Breed struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RegisterRequest represents the POST /users/ payload
type RegisterRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Institution string `json:"institution"`
	Password    string `json:"password"`
}

// UserUpdate represents a partial admin update of a user record.
// Nil fields are omitted from the request body.
type UserUpdate struct {
	RoleID      *uuid.UUID `json:"role_id,omitempty"`
	IsActive    *bool      `json:"is_active,omitempty"`
	FullName    *string    `json:"full_name,omitempty"`
	Institution *string    `json:"institution,omitempty"`
}

// PredictionRequest is the full clinical payload keyed by API field name.
// A nil value is serialized as JSON null, signalling that the clinician did
// not record that attribute.
type PredictionRequest map[string]*string

// PredictionResult represents the POST /predict/ response
type PredictionResult struct {
	DiagnosisPrediction string  `json:"diagnosis_prediction"`
	ConfidenceScore     float64 `json:"confidence_score"`
}

// Login calls POST /auth/token with form-encoded credentials.
// The OAuth2 form field is named "username" but carries the email.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.handleErrorResponse(resp)
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &token, nil
}

// Register calls POST /users/ to create a new account
func (c *Client) Register(ctx context.Context, reg RegisterRequest) (*User, error) {
	var user User
	if err := c.postJSON(ctx, "/users/", "", reg, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ForgotPassword calls POST /auth/forgot-password to request a reset email
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.postJSON(ctx, "/auth/forgot-password", "", body, nil)
}

// ResetPassword calls POST /auth/reset-password with the emailed reset token
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "new_password": newPassword}
	return c.postJSON(ctx, "/auth/reset-password", "", body, nil)
}

// CurrentUser calls GET /users/me for the authenticated identity
func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.getJSON(ctx, "/users/me", token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Breeds calls GET /breeds/?limit=1000 for the breed reference list
func (c *Client) Breeds(ctx context.Context, token string) ([]Breed, error) {
	var breeds []Breed
	if err := c.getJSON(ctx, "/breeds/?limit=1000", token, &breeds); err != nil {
		return nil, err
	}
	return breeds, nil
}

// Users calls GET /users/ (admin only)
func (c *Client) Users(ctx context.Context, token string) ([]User, error) {
	var users []User
	if err := c.getJSON(ctx, "/users/", token, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Roles calls GET /roles/
func (c *Client) Roles(ctx context.Context, token string) ([]Role, error) {
	var roles []Role
	if err := c.getJSON(ctx, "/roles/", token, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

// UpdateUser calls PUT /users/{id} with a partial update (admin only)
func (c *Client) UpdateUser(ctx context.Context, token string, id uuid.UUID, update UserUpdate) (*User, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}

	body, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal update: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/users/"+id.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.handleErrorResponse(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("invalid response from backend: %w", err)
	}
	return &user, nil
}

// Predict calls POST /predict/ with the full clinical payload
func (c *Client) Predict(ctx context.Context, token string, input PredictionRequest) (*PredictionResult, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	var result PredictionResult
	if err := c.postJSON(ctx, "/predict/", token, input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// getJSON performs an authenticated GET and decodes the JSON response into out
func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	if token == "" {
		return ErrNotAuthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// postJSON performs a POST with a JSON body. An empty token sends no
// Authorization header; a nil out discards the response body.
func (c *Client) postJSON(ctx context.Context, path, token string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.handleErrorResponse(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses the API error envelope into an *APIError
func (c *Client) handleErrorResponse(resp *http.Response) error {
	return parseAPIError(resp)
}
