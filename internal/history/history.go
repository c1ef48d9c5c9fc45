// Package history keeps a local record of submitted analysis jobs.
//
// The backend owns job state; this is a convenience cache so the CLI can
// list and annotate the user's own submissions even when the backend
// listing endpoints are degraded.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/me/hrpulse/pkg/model"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS jobs (
		job_id       TEXT PRIMARY KEY,
		file_id      TEXT NOT NULL DEFAULT '',
		filename     TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL DEFAULT 'queued',
		submitted_at TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_submitted ON jobs(submitted_at DESC)`,
}

// Entry is one locally recorded job submission.
type Entry struct {
	JobID       string
	FileID      string
	Filename    string
	Status      model.JobStatus
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// History is a SQLite-backed job submission log.
type History struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the history database at dbPath. Use ":memory:"
// in tests.
func Open(dbPath string, logger *slog.Logger) (*History, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// WAL keeps concurrent reads cheap.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	h := &History{db: db, logger: logger.With("component", "history")}
	if err := h.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return h, nil
}

// Close closes the underlying database connection.
func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) migrate(ctx context.Context) error {
	h.logger.Debug("sql", "op", "migrate")
	for _, stmt := range schema {
		if _, err := h.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// Record stores a freshly submitted job. Recording the same job twice
// updates its row.
func (h *History) Record(ctx context.Context, job *model.Job, filename string) error {
	h.logger.Debug("sql", "op", "upsert", "job_id", job.JobID)

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO jobs (job_id, file_id, filename, status, submitted_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(job_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		job.JobID, job.FileID, filename, string(job.Status), now, now,
	)
	return err
}

// UpdateStatus records the latest polled status for a job. Jobs never
// recorded locally are ignored.
func (h *History) UpdateStatus(ctx context.Context, jobID string, status model.JobStatus) error {
	h.logger.Debug("sql", "op", "update", "job_id", jobID, "status", status)

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := h.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, updated_at = ? WHERE job_id = ?`,
		string(status), now, jobID,
	)
	return err
}

// Get returns one entry, or nil if the job was never recorded.
func (h *History) Get(ctx context.Context, jobID string) (*Entry, error) {
	row := h.db.QueryRowContext(ctx,
		`SELECT job_id, file_id, filename, status, submitted_at, updated_at
		 FROM jobs WHERE job_id = ?`, jobID)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// Recent returns the most recently submitted entries, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT job_id, file_id, filename, status, submitted_at, updated_at
		 FROM jobs ORDER BY submitted_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var status, submitted, updated string
	if err := s.Scan(&e.JobID, &e.FileID, &e.Filename, &status, &submitted, &updated); err != nil {
		return nil, err
	}
	e.Status = model.JobStatus(status)
	e.SubmittedAt, _ = time.Parse(time.RFC3339Nano, submitted)
	e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return &e, nil
}
