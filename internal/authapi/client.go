// Package authapi is the client for the Auth Service REST API.
package authapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Client talks to the Auth Service under a versioned base URL such as
// http://localhost:4000/api/v1.
type Client struct {
	baseURL string
	client  *resty.Client
}

// New creates a Client for baseURL.
func New(baseURL string) *Client {
	base := strings.TrimRight(baseURL, "/")
	c := resty.New().
		SetBaseURL(base).
		SetHeader("Accept", "application/json")
	return &Client{baseURL: base, client: c}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// LoginResult is the body returned by POST /auth/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. The success body carries nothing the caller
// depends on and is returned raw.
func (c *Client) Register(ctx context.Context, username, email, password string) (json.RawMessage, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(registerRequest{Username: username, Email: email, Password: password}).
		Post("/auth/register")
	if err != nil {
		return nil, transportError(OpRegister, err)
	}
	if resp.IsError() {
		return nil, statusError(OpRegister, resp)
	}
	return json.RawMessage(resp.Body()), nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(loginRequest{Email: email, Password: password}).
		Post("/auth/login")
	if err != nil {
		return nil, transportError(OpLogin, err)
	}
	if resp.IsError() {
		return nil, statusError(OpLogin, resp)
	}
	var result LoginResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("decoding login response: %w", err)
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("login response has no access_token")
	}
	return &result, nil
}

// Me fetches the profile of the token's owner.
func (c *Client) Me(ctx context.Context, token string) (*Profile, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get("/auth/me")
	if err != nil {
		return nil, transportError(OpMe, err)
	}
	if resp.IsError() {
		return nil, statusError(OpMe, resp)
	}
	var p Profile
	if err := json.Unmarshal(resp.Body(), &p); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return &p, nil
}
