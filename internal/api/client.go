package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/me/hrpulse/internal/config"
	"github.com/me/hrpulse/internal/logging"
	"github.com/me/hrpulse/pkg/model"
)

// Client is an HTTP client for the HR-analytics backend API.
//
// It applies the configured base URL and timeout to every call, speaks
// JSON unless an operation needs multipart, and normalizes failures into
// the taxonomy in errors.go. It holds no job state of its own; job
// snapshots belong to the backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	token      string
}

// New creates a backend API client from the given configuration.
func New(cfg config.Config, logger *slog.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With("component", "api"),
	}
}

// SetToken sets the bearer token attached to authenticated endpoints.
// An empty token detaches authentication.
func (c *Client) SetToken(token string) {
	c.token = token
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs an HTTP request with a JSON body and returns the response.
// Responses with status >= 400 are consumed and returned as *model.APIError;
// transport failures are classified via classifyTransport. The returned
// response body is the caller's to close.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req)
}

// send executes a fully built request. Used directly by the upload path,
// which sets its own multipart content type.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	reqLogger := logging.WithRequest(c.logger, req.Method, req.URL.String())
	reqLogger.Debug("HTTP request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		reqLogger.Debug("HTTP transport failure", "error", err)
		return nil, classifyTransport(err, req.Method, req.URL.String())
	}

	reqLogger.Debug("HTTP response", "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, serverError(resp)
	}

	return resp, nil
}

// serverError builds a *model.APIError from a non-2xx response, preferring
// the body's "detail" then "message" fields and falling back to the HTTP
// status text.
func serverError(resp *http.Response) *model.APIError {
	apiErr := &model.APIError{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}

	var body model.ErrorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}
	if msg := body.Text(); msg != "" {
		apiErr.Message = msg
	}
	apiErr.Code = body.Code
	return apiErr
}

// decodeJSON closes the response body and unmarshals it into dest.
func decodeJSON(resp *http.Response, dest any) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

// getJSON performs a GET and decodes the response into dest.
func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, dest)
}

// postJSON performs a POST with a JSON body and decodes the response into
// dest. A nil dest discards the response body.
func (c *Client) postJSON(ctx context.Context, path string, body, dest any) error {
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	if dest == nil {
		return resp.Body.Close()
	}
	return decodeJSON(resp, dest)
}
