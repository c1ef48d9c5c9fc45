package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/me/hrpulse/pkg/model"
)

// ProgressFunc receives upload progress as a whole percentage, 0 to 100.
// It is called from the uploading goroutine; implementations should be
// quick.
type ProgressFunc func(pct int)

// UploadFile sends an employee data file to the backend as a multipart
// POST and returns the backend's file reference. The multipart boundary
// is derived by mime/multipart; progress, if non-nil, observes bytes as
// the transport consumes the request body.
func (c *Client) UploadFile(ctx context.Context, filename string, src io.Reader, progress ProgressFunc) (*model.UploadedFile, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	total := int64(buf.Len())
	body := &progressReader{r: &buf, total: total, progress: progress}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = total

	resp, err := c.send(req)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}

	var file model.UploadedFile
	if err := decodeJSON(resp, &file); err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	if file.Filename == "" {
		file.Filename = filename
	}
	return &file, nil
}

// progressReader reports the percentage of the body consumed so far.
type progressReader struct {
	r        io.Reader
	total    int64
	sent     int64
	lastPct  int
	progress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.sent += int64(n)
	if p.progress != nil && p.total > 0 {
		pct := int(p.sent * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		// Only report whole-percent changes.
		if pct != p.lastPct {
			p.lastPct = pct
			p.progress(pct)
		}
	}
	return n, err
}
