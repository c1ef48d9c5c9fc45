package api

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/me/hrpulse/pkg/model"
)

func uploadTestFile(t *testing.T, c *Client) *model.UploadedFile {
	t.Helper()
	src := strings.NewReader("uid,grade\nE001,A\nE002,B\n")
	file, err := c.UploadFile(context.Background(), "employees.csv", src, nil)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	return file
}

func TestUploadFile(t *testing.T) {
	_, c := startBackend(t)

	var lastPct int
	src := strings.NewReader(strings.Repeat("x,y\n", 1000))
	file, err := c.UploadFile(context.Background(), "data.csv", src, func(pct int) {
		if pct < lastPct {
			t.Errorf("progress went backwards: %d after %d", pct, lastPct)
		}
		lastPct = pct
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if file.FileID == "" {
		t.Error("expected a file_id")
	}
	if file.Filename != "data.csv" {
		t.Errorf("expected filename 'data.csv', got %q", file.Filename)
	}
	if lastPct != 100 {
		t.Errorf("expected final progress 100, got %d", lastPct)
	}
}

func TestUploadFile_Rejected(t *testing.T) {
	_, c := startBackend(t)

	_, err := c.UploadFile(context.Background(), "report.pdf", strings.NewReader("%PDF"), nil)
	if err == nil {
		t.Fatal("expected rejection for unsupported file type")
	}
	apiErr, ok := AsServerError(err)
	if !ok {
		t.Fatalf("expected server error, got: %v", err)
	}
	if apiErr.Message != "unsupported file type" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestStartAnalysis_ForwardsRecognizedFields(t *testing.T) {
	backend, c := startBackend(t)
	file := uploadTestFile(t, c)

	_, err := c.StartAnalysis(context.Background(), model.AnalysisRequest{
		FileID:           file.FileID,
		SampleSize:       50,
		AnalysisMode:     "full",
		EnableAIFeedback: true,
		OpenAIAPIKey:     "sk-test",
	})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	body := backend.LastAnalysisBody
	if body["file_id"] != file.FileID {
		t.Errorf("expected file_id %q, got %v", file.FileID, body["file_id"])
	}
	if body["sample_size"] != float64(50) {
		t.Errorf("expected sample_size 50, got %v", body["sample_size"])
	}
	if body["analysis_mode"] != "full" {
		t.Errorf("expected analysis_mode 'full', got %v", body["analysis_mode"])
	}
	// Defaults apply when AI feedback is on and the caller left them unset.
	if body["openai_model"] != model.DefaultOpenAIModel {
		t.Errorf("expected default model, got %v", body["openai_model"])
	}
	if body["max_tokens"] != float64(model.DefaultMaxTokens) {
		t.Errorf("expected default max_tokens, got %v", body["max_tokens"])
	}

	// The struct is the whitelist: nothing beyond the recognized fields.
	recognized := map[string]bool{
		"file_id": true, "sample_size": true, "analysis_mode": true,
		"enable_ai_feedback": true, "openai_api_key": true,
		"openai_model": true, "max_tokens": true,
	}
	for key := range body {
		if !recognized[key] {
			t.Errorf("unrecognized field %q forwarded to backend", key)
		}
	}
}

func TestStartAnalysis_NoAIFeedback_NoModelFields(t *testing.T) {
	backend, c := startBackend(t)
	file := uploadTestFile(t, c)

	_, err := c.StartAnalysis(context.Background(), model.AnalysisRequest{FileID: file.FileID})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}

	body := backend.LastAnalysisBody
	if _, ok := body["openai_model"]; ok {
		t.Error("openai_model should not be sent when AI feedback is disabled")
	}
	if _, ok := body["max_tokens"]; ok {
		t.Error("max_tokens should not be sent when AI feedback is disabled")
	}
}

func TestStartAnalysis_MissingFileID(t *testing.T) {
	_, c := startBackend(t)

	if _, err := c.StartAnalysis(context.Background(), model.AnalysisRequest{}); err == nil {
		t.Fatal("expected error for missing file_id")
	}
}

func TestJobStatus_AdvancesToTerminal(t *testing.T) {
	_, c := startBackend(t)
	file := uploadTestFile(t, c)

	job, err := c.StartAnalysis(context.Background(), model.AnalysisRequest{FileID: file.FileID})
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if job.Status != model.JobQueued {
		t.Errorf("expected queued, got %s", job.Status)
	}

	final, err := c.WaitForJob(context.Background(), job.JobID, time.Millisecond, nil)
	if err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if final.Status != model.JobCompleted {
		t.Errorf("expected completed, got %s", final.Status)
	}
	if final.Progress != 100 {
		t.Errorf("expected progress 100, got %d", final.Progress)
	}
}

func TestWaitForJob_ContextCancelled(t *testing.T) {
	backend, c := startBackend(t)
	backend.SeedJob("job_stuck", model.JobRunning)
	backend.RunningPolls = 1 << 30 // effectively never completes

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.WaitForJob(ctx, "job_stuck", 5*time.Millisecond, nil)
	if err == nil {
		t.Fatal("expected context error")
	}
}

func TestResults(t *testing.T) {
	backend, c := startBackend(t)
	backend.SeedJob("job_done", model.JobCompleted)

	raw, err := c.Results(context.Background(), "job_done")
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if !strings.Contains(string(raw), "attrition_rate") {
		t.Errorf("unexpected results payload: %s", raw)
	}
}

func TestResults_NotCompleted(t *testing.T) {
	backend, c := startBackend(t)
	backend.SeedJob("job_busy", model.JobRunning)

	_, err := c.Results(context.Background(), "job_busy")
	apiErr, ok := AsServerError(err)
	if !ok {
		t.Fatalf("expected server error, got: %v", err)
	}
	if apiErr.Status != 409 {
		t.Errorf("expected 409, got %d", apiErr.Status)
	}
}

func TestDownload(t *testing.T) {
	backend, c := startBackend(t)
	backend.SeedJob("job_done", model.JobCompleted)

	result, err := c.Download(context.Background(), "job_done", "")
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	defer result.Body.Close()

	if result.Filename != "report-job_done.excel" {
		t.Errorf("expected server-provided filename, got %q", result.Filename)
	}

	data, err := io.ReadAll(result.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != "binary-report-excel" {
		t.Errorf("unexpected body %q", data)
	}
}

func TestSearchEmployee_QueryShape(t *testing.T) {
	backend, c := startBackend(t)
	backend.SeedJob("J1", model.JobCompleted)

	// Blank uid (after trim) is omitted entirely.
	result, err := c.SearchEmployee(context.Background(), "J1", "  ", "A")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if backend.LastSearchURL != "/api/v1/search/employee/J1?grade=A" {
		t.Errorf("unexpected search URL %q", backend.LastSearchURL)
	}
	for _, e := range result.Employees {
		if e.Grade != "A" {
			t.Errorf("expected only grade A, got %+v", e)
		}
	}
}

func TestSearchEmployee_BothBlank_MatchesAll(t *testing.T) {
	backend, c := startBackend(t)
	backend.SeedJob("J1", model.JobCompleted)

	result, err := c.SearchEmployee(context.Background(), "J1", "", "")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if backend.LastSearchURL != "/api/v1/search/employee/J1" {
		t.Errorf("expected no query string, got %q", backend.LastSearchURL)
	}
	if result.Total != 3 {
		t.Errorf("expected all 3 employees, got %d", result.Total)
	}
}
