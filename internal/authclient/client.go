// Package authclient talks to the remote authentication service over HTTP.
// The service reports refusals inside a response envelope, not via HTTP
// status codes; transport-level failures are returned as errors.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/spec-kit/hiredesk-session/internal/config"
	"github.com/spec-kit/hiredesk-session/internal/domain"
)

// Credentials carries a signin request.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUpRequest carries a signup request.
type SignUpRequest struct {
	FullName    string      `json:"fio"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	CompanyName string      `json:"companyName,omitempty"`
	Role        domain.Role `json:"role"`
}

// Envelope is the service's uniform response to signup and signin.
type Envelope struct {
	Success     bool   `json:"success"`
	Description string `json:"description"`
	Token       string `json:"token,omitempty"`
}

// Client is an HTTP client for the authentication service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client from configuration. The request timeout bounds
// every call; there is no retry or mid-flight cancellation beyond it.
func New(cfg config.AuthServiceConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.RequestTimeout()},
	}
}

// SignUp registers a new account. The returned envelope never carries a
// usable token; the caller follows up with SignIn.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (Envelope, error) {
	return c.postEnvelope(ctx, "/signup", req)
}

// SignIn exchanges credentials for a bearer token inside the envelope.
func (c *Client) SignIn(ctx context.Context, creds Credentials) (Envelope, error) {
	return c.postEnvelope(ctx, "/signin", creds)
}

// SignOut notifies the service that the token's session ended. The
// acknowledgment is opaque text.
func (c *Client) SignOut(ctx context.Context, tokenStr string) (string, error) {
	body, err := json.Marshal(map[string]string{"token": tokenStr})
	if err != nil {
		return "", fmt.Errorf("encode logout request: %w", err)
	}

	resp, err := c.post(ctx, "/logout", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	ack, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read logout acknowledgment: %w", err)
	}
	return string(ack), nil
}

func (c *Client) postEnvelope(ctx context.Context, path string, payload any) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode request: %w", err)
	}

	resp, err := c.post(ctx, path, body)
	if err != nil {
		return Envelope{}, err
	}
	defer resp.Body.Close()

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return Envelope{}, fmt.Errorf("decode response: %w", err)
	}
	return env, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service unreachable: %w", err)
	}
	return resp, nil
}
