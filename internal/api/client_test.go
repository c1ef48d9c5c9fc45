package api

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/me/hrpulse/internal/apitest"
	"github.com/me/hrpulse/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(config.Config{BaseURL: ts.URL, Timeout: 5 * time.Second}, testLogger())
}

// testUnreachableConfig returns a config pointing at a port nothing
// listens on.
func testUnreachableConfig(t *testing.T) config.Config {
	t.Helper()
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()
	return config.Config{BaseURL: url, Timeout: 2 * time.Second}
}

// startBackend spins up the fake backend and a client pointed at it.
func startBackend(t *testing.T) (*apitest.Server, *Client) {
	t.Helper()
	backend := apitest.New()
	return backend, newTestClient(t, backend.Handler())
}

func TestHealth(t *testing.T) {
	_, c := startBackend(t)

	health, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %q", health.Status)
	}
	if health.Components["database"] != "up" {
		t.Errorf("expected database component 'up', got %q", health.Components["database"])
	}
}

func TestDo_ServerError_DetailField(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": "sample_size must be positive"}`))
	}))

	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr, ok := AsServerError(err)
	if !ok {
		t.Fatalf("expected *model.APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", apiErr.Status)
	}
	if apiErr.Message != "sample_size must be positive" {
		t.Errorf("expected detail message, got %q", apiErr.Message)
	}
}

func TestDo_ServerError_MessageField(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "missing file_id"}`))
	}))

	_, err := c.Health(context.Background())
	apiErr, ok := AsServerError(err)
	if !ok {
		t.Fatalf("expected *model.APIError, got %v", err)
	}
	if apiErr.Message != "missing file_id" {
		t.Errorf("expected message field, got %q", apiErr.Message)
	}
}

func TestDo_ServerError_FallbackStatusText(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("not json at all"))
	}))

	_, err := c.Health(context.Background())
	apiErr, ok := AsServerError(err)
	if !ok {
		t.Fatalf("expected *model.APIError, got %v", err)
	}
	if apiErr.Message != http.StatusText(http.StatusInternalServerError) {
		t.Errorf("expected status-text fallback, got %q", apiErr.Message)
	}
}

func TestDo_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close() // nothing listens here anymore

	c := New(config.Config{BaseURL: url, Timeout: 2 * time.Second}, testLogger())
	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsUnreachable(err) {
		t.Errorf("expected unreachable classification, got: %v", err)
	}
	if IsTimeout(err) {
		t.Errorf("unreachable error misclassified as timeout: %v", err)
	}
	if !strings.Contains(err.Error(), "cannot reach server") {
		t.Errorf("expected user-facing message in error, got: %v", err)
	}
}

func TestDo_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	t.Cleanup(ts.Close)

	c := New(config.Config{BaseURL: ts.URL, Timeout: 30 * time.Millisecond}, testLogger())
	_, err := c.Health(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsTimeout(err) {
		t.Errorf("expected timeout classification, got: %v", err)
	}
}

func TestSetToken_AttachesBearer(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":"healthy"}`))
	}))

	c.SetToken("tok_abc")
	if _, err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if gotAuth != "Bearer tok_abc" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}
