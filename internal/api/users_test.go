package api

import (
	"context"
	"testing"
)

func TestLogin(t *testing.T) {
	_, c := startBackend(t)

	result, err := c.Login(context.Background(), "admin@example.com", "admin-pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("expected an access token")
	}
	if result.User == nil || result.User.Email != "admin@example.com" {
		t.Errorf("expected user profile in login response, got %+v", result.User)
	}
}

func TestLogin_BadPassword(t *testing.T) {
	_, c := startBackend(t)

	_, err := c.Login(context.Background(), "admin@example.com", "wrong")
	apiErr, ok := AsServerError(err)
	if !ok {
		t.Fatalf("expected server error, got: %v", err)
	}
	if apiErr.Status != 401 {
		t.Errorf("expected 401, got %d", apiErr.Status)
	}
	if apiErr.Message != "invalid email or password" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestLogin_NoAccessToken(t *testing.T) {
	backend, c := startBackend(t)
	backend.OmitLoginToken = true

	_, err := c.Login(context.Background(), "admin@example.com", "admin-pw")
	if err == nil {
		t.Fatal("expected error for response without access_token")
	}
}

func TestRegisterAndApprovalFlow(t *testing.T) {
	_, c := startBackend(t)
	ctx := context.Background()

	if err := c.Register(ctx, "new@example.com", "New User", "pw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// A freshly registered user cannot see admin endpoints.
	result, err := c.Login(ctx, "new@example.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	c.SetToken(result.AccessToken)
	if _, err := c.PendingUsers(ctx); err == nil {
		t.Error("expected forbidden for non-admin pending listing")
	}

	// The admin approves them.
	admin, err := c.Login(ctx, "admin@example.com", "admin-pw")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	c.SetToken(admin.AccessToken)

	pending, err := c.PendingUsers(ctx)
	if err != nil {
		t.Fatalf("pending failed: %v", err)
	}
	if len(pending) != 1 || pending[0].Email != "new@example.com" {
		t.Fatalf("expected the new user pending, got %+v", pending)
	}

	if err := c.ApproveUser(ctx, pending[0].ID, true); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	again, err := c.PendingUsers(ctx)
	if err != nil {
		t.Fatalf("pending failed: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("expected no pending users after approval, got %+v", again)
	}

	// And the approved user's profile reflects it.
	c.SetToken(result.AccessToken)
	user, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("me failed: %v", err)
	}
	if !user.IsApproved {
		t.Error("expected user to be approved")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, c := startBackend(t)
	ctx := context.Background()

	if err := c.Register(ctx, "dup@example.com", "Dup", "pw"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	err := c.Register(ctx, "dup@example.com", "Dup", "pw")
	apiErr, ok := AsServerError(err)
	if !ok {
		t.Fatalf("expected server error, got: %v", err)
	}
	if apiErr.Status != 409 {
		t.Errorf("expected 409, got %d", apiErr.Status)
	}
}

func TestMe_Unauthenticated(t *testing.T) {
	_, c := startBackend(t)

	_, err := c.Me(context.Background())
	apiErr, ok := AsServerError(err)
	if !ok {
		t.Fatalf("expected server error, got: %v", err)
	}
	if apiErr.Status != 401 {
		t.Errorf("expected 401, got %d", apiErr.Status)
	}
}
