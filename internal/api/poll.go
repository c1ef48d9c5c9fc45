package api

import (
	"context"
	"time"

	"github.com/me/hrpulse/pkg/model"
)

// WaitForJob polls a job at the given interval until it reaches a
// terminal status or ctx is cancelled. The cadence is entirely the
// caller's; no backoff is applied. observe, if non-nil, sees every
// snapshot including the terminal one.
func (c *Client) WaitForJob(ctx context.Context, jobID string, interval time.Duration, observe func(model.Job)) (*model.Job, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		job, err := c.JobStatus(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if observe != nil {
			observe(*job)
		}
		if job.Status.Terminal() {
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
