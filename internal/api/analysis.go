package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/me/hrpulse/pkg/model"
)

// DefaultDownloadFormat is used when Download is called with an empty
// format.
const DefaultDownloadFormat = "excel"

// StartAnalysis submits an analysis job for a previously uploaded file.
// The request is normalized first, so AI-feedback defaults apply exactly
// once, here.
func (c *Client) StartAnalysis(ctx context.Context, req model.AnalysisRequest) (*model.Job, error) {
	if req.FileID == "" {
		return nil, fmt.Errorf("start analysis: file_id is required")
	}
	req.Normalize()

	var job model.Job
	if err := c.postJSON(ctx, "/analysis/start", req, &job); err != nil {
		return nil, fmt.Errorf("start analysis: %w", err)
	}
	return &job, nil
}

// JobStatus fetches the latest snapshot of a job. Callers choose their
// own poll cadence; the client imposes no backoff.
func (c *Client) JobStatus(ctx context.Context, jobID string) (*model.Job, error) {
	var job model.Job
	if err := c.getJSON(ctx, "/analysis/status/"+url.PathEscape(jobID), &job); err != nil {
		return nil, fmt.Errorf("job status %s: %w", jobID, err)
	}
	return &job, nil
}

// Results fetches the full result document of a completed job. The shape
// is analysis-mode dependent, so it is returned raw for the caller to
// interpret.
func (c *Client) Results(ctx context.Context, jobID string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/analysis/results/"+url.PathEscape(jobID), &raw); err != nil {
		return nil, fmt.Errorf("results %s: %w", jobID, err)
	}
	return raw, nil
}

// Download streams the rendered result file for a job. format defaults to
// DefaultDownloadFormat. The returned body is the caller's to close; the
// filename comes from Content-Disposition when the backend provides one.
func (c *Client) Download(ctx context.Context, jobID, format string) (*DownloadResult, error) {
	if format == "" {
		format = DefaultDownloadFormat
	}

	path := "/analysis/download/" + url.PathEscape(jobID) + "/" + url.PathEscape(format)
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", jobID, err)
	}

	filename := jobID + "." + extensionFor(format)
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			filename = params["filename"]
		}
	}

	return &DownloadResult{
		Body:        resp.Body,
		Filename:    filename,
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
	}, nil
}

// DownloadResult is a streamed binary result download.
type DownloadResult struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
	Size        int64 // -1 when the backend did not declare a length
}

func extensionFor(format string) string {
	switch format {
	case "excel":
		return "xlsx"
	case "csv", "json", "pdf":
		return format
	default:
		return "bin"
	}
}

// SearchEmployee queries the unified employee search endpoint for a job.
// uid and grade are trimmed; blank parameters are omitted from the query
// entirely. With both blank the backend matches all employees. There is
// one endpoint and one URL shape; no alternate path is consulted.
func (c *Client) SearchEmployee(ctx context.Context, jobID, uid, grade string) (*model.SearchResult, error) {
	q := url.Values{}
	if v := strings.TrimSpace(uid); v != "" {
		q.Set("uid", v)
	}
	if v := strings.TrimSpace(grade); v != "" {
		q.Set("grade", v)
	}

	path := "/api/v1/search/employee/" + url.PathEscape(jobID)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result model.SearchResult
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, fmt.Errorf("search employee: %w", err)
	}
	return &result, nil
}
