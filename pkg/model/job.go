package model

import "time"

// JobStatus represents the backend-owned lifecycle state of an analysis job.
// The client never advances a job itself; it only observes the latest
// polled snapshot.
type JobStatus string

const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Terminal reports whether the status will never change again.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// Job is the client-observed snapshot of a backend analysis run.
type Job struct {
	JobID       string    `json:"job_id"`
	Status      JobStatus `json:"status"`
	FileID      string    `json:"file_id,omitempty"`
	Progress    int       `json:"progress,omitempty"` // percentage, 0-100
	Message     string    `json:"message,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	CompletedAt time.Time `json:"completed_at,omitzero"`
}

// UploadedFile is the reference returned by the upload endpoint and
// consumed by StartAnalysis.
type UploadedFile struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size,omitempty"`
	Rows     int    `json:"rows,omitempty"`
}

// Employee is one row of an employee search result.
type Employee struct {
	UID        string         `json:"uid"`
	Name       string         `json:"name,omitempty"`
	Grade      string         `json:"grade,omitempty"`
	Department string         `json:"department,omitempty"`
	Metrics    map[string]any `json:"metrics,omitempty"`
}

// SearchResult is the response of the unified employee search endpoint.
type SearchResult struct {
	JobID     string     `json:"job_id"`
	Employees []Employee `json:"employees"`
	Total     int        `json:"total"`
}
