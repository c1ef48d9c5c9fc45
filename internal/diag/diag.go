// Package diag implements the connectivity debug tool.
//
// It exercises the backend's WebSocket endpoint with a single ping and
// translates failures into operator guidance. The guidance is advisory
// text only; nothing in the application proper branches on it.
package diag

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// DefaultChannels is the channel subscription used by the ping probe.
const DefaultChannels = "analysis,alerts"

// pingMessage is the frame the backend's /ws endpoint accepts.
type pingMessage struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	ClientID  string `json:"client_id"`
}

// Report is the outcome of one diagnostic run.
type Report struct {
	OK       bool
	URL      string
	ClientID string
	RTT      time.Duration
	Err      error
	Guidance []string // operator hints, populated on failure
}

// Ping dials the backend WebSocket endpoint, sends one ping frame, and
// waits for any reply within the timeout.
func Ping(ctx context.Context, baseURL, channels string, timeout time.Duration) *Report {
	if channels == "" {
		channels = DefaultChannels
	}

	clientID := "cli_" + uuid.New().String()[:8]
	report := &Report{ClientID: clientID}

	wsURL, err := websocketURL(baseURL, clientID, channels)
	if err != nil {
		report.Err = err
		return report
	}
	report.URL = wsURL

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	conn, resp, err := websocket.DefaultDialer.DialContext(dialCtx, wsURL, nil)
	if err != nil {
		report.Err = fmt.Errorf("dial %s: %w", wsURL, err)
		report.Guidance = guidance(err, resp)
		return report
	}
	defer conn.Close()

	msg := pingMessage{
		Type:      "ping",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		ClientID:  clientID,
	}
	if err := conn.WriteJSON(msg); err != nil {
		report.Err = fmt.Errorf("send ping: %w", err)
		report.Guidance = guidance(err, nil)
		return report
	}

	conn.SetReadDeadline(time.Now().Add(timeout))
	if _, _, err := conn.ReadMessage(); err != nil {
		report.Err = fmt.Errorf("await pong: %w", err)
		report.Guidance = guidance(err, nil)
		return report
	}

	report.OK = true
	report.RTT = time.Since(start)
	return report
}

// websocketURL derives ws(s)://<host>/ws/{clientID}?channels=... from the
// HTTP base URL.
func websocketURL(baseURL, clientID, channels string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/ws/" + clientID
	u.RawQuery = url.Values{"channels": {channels}}.Encode()
	return u.String(), nil
}

// guidance maps common failure shapes to operator hints.
func guidance(err error, resp *http.Response) []string {
	var hints []string
	msg := err.Error()

	switch {
	case strings.Contains(msg, "connection refused"):
		hints = append(hints,
			"the server is not listening on this port; check that the backend is running",
			"another process may hold the port; compare API_BASE_URL with the deployed port (8002 by default)")
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		hints = append(hints,
			"no answer within the deadline; a firewall may be dropping WebSocket traffic",
			"proxies sometimes strip the Upgrade header; try connecting directly")
	case strings.Contains(msg, "no such host"):
		hints = append(hints,
			"hostname did not resolve; check API_BASE_URL for typos")
	}

	if resp != nil && resp.StatusCode == http.StatusForbidden {
		hints = append(hints,
			"handshake rejected with 403; the backend's CORS/origin allowlist may not include this client")
	}

	if len(hints) == 0 {
		hints = append(hints, "unrecognized failure; run with --debug for the raw handshake exchange")
	}
	return hints
}
