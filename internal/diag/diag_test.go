package diag

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/me/hrpulse/internal/apitest"
)

func TestPing_OK(t *testing.T) {
	backend := apitest.New()
	ts := httptest.NewServer(backend.Handler())
	t.Cleanup(ts.Close)

	report := Ping(context.Background(), ts.URL, "", 2*time.Second)
	if !report.OK {
		t.Fatalf("expected successful ping, got error: %v", report.Err)
	}
	if !strings.HasPrefix(report.ClientID, "cli_") {
		t.Errorf("unexpected client id %q", report.ClientID)
	}
	if !strings.Contains(report.URL, "ws://") {
		t.Errorf("expected ws scheme in %q", report.URL)
	}
	if !strings.Contains(report.URL, "channels=analysis%2Calerts") {
		t.Errorf("expected default channels in %q", report.URL)
	}
}

func TestPing_Refused(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()

	report := Ping(context.Background(), url, "analysis", time.Second)
	if report.OK {
		t.Fatal("expected failure against a closed port")
	}
	if report.Err == nil {
		t.Fatal("expected an error in the report")
	}
	if len(report.Guidance) == 0 {
		t.Fatal("expected operator guidance on failure")
	}

	joined := strings.Join(report.Guidance, "\n")
	if !strings.Contains(joined, "not listening") && !strings.Contains(joined, "unrecognized failure") {
		t.Errorf("unexpected guidance: %s", joined)
	}
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8002", "ws://localhost:8002/ws/c1?channels=analysis"},
		{"https://hr.example.com", "wss://hr.example.com/ws/c1?channels=analysis"},
	}
	for _, tt := range tests {
		got, err := websocketURL(tt.base, "c1", "analysis")
		if err != nil {
			t.Fatalf("websocketURL(%q) errored: %v", tt.base, err)
		}
		if got != tt.want {
			t.Errorf("websocketURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
