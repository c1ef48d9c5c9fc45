package api

import (
	"context"
	"fmt"

	"github.com/me/hrpulse/pkg/model"
)

// LoginResult is the successful response of the login endpoint. Some
// backend versions include the user profile, some only the token; callers
// that need the profile fall back to Me.
type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type,omitempty"`
	User        *model.User `json:"user,omitempty"`
}

// Login exchanges credentials for an access token. A 2xx response without
// an access_token is treated as a failed login.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var result LoginResult
	if err := c.postJSON(ctx, "/user/login", body, &result); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("login: response carried no access token")
	}
	return &result, nil
}

// Register creates a new account. Registration does not authenticate:
// the account stays pending until an administrator approves it, and the
// user must log in separately afterwards.
func (c *Client) Register(ctx context.Context, email, name, password string) error {
	body := map[string]string{"email": email, "name": name, "password": password}
	if err := c.postJSON(ctx, "/user/register", body, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Me fetches the profile of the bearer-authenticated user.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, "/user/me", &user); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return &user, nil
}

// PendingUsers lists accounts awaiting approval. Requires an admin token.
func (c *Client) PendingUsers(ctx context.Context) ([]model.User, error) {
	var out struct {
		Users []model.User `json:"users"`
	}
	if err := c.getJSON(ctx, "/user/pending", &out); err != nil {
		return nil, fmt.Errorf("list pending users: %w", err)
	}
	return out.Users, nil
}

// ApproveUser approves or rejects a pending account. Requires an admin
// token.
func (c *Client) ApproveUser(ctx context.Context, userID string, approve bool) error {
	body := map[string]any{"user_id": userID, "approve": approve}
	if err := c.postJSON(ctx, "/user/approve", body, nil); err != nil {
		return fmt.Errorf("approve user %s: %w", userID, err)
	}
	return nil
}

// Health checks backend liveness and component status.
func (c *Client) Health(ctx context.Context) (*model.Health, error) {
	var health model.Health
	if err := c.getJSON(ctx, "/health", &health); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	return &health, nil
}
