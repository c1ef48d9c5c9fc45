package api

import (
	"context"
	"fmt"

	"github.com/me/hrpulse/pkg/model"
)

// jobListProvider is one source of the completed-jobs listing. Providers
// are consulted in order and the first success wins; this makes the
// fallback an explicit contract instead of an incidental catch block.
type jobListProvider struct {
	name  string
	fetch func(ctx context.Context) ([]model.Job, error)
}

// listResponse is the wire shape shared by both listing endpoints.
type listResponse struct {
	Jobs  []model.Job `json:"jobs"`
	Total int         `json:"total"`
}

func (c *Client) jobListProviders() []jobListProvider {
	return []jobListProvider{
		{
			name: "search",
			fetch: func(ctx context.Context) ([]model.Job, error) {
				var out listResponse
				if err := c.getJSON(ctx, "/api/v1/search/jobs", &out); err != nil {
					return nil, err
				}
				return out.Jobs, nil
			},
		},
		{
			name: "analysis",
			fetch: func(ctx context.Context) ([]model.Job, error) {
				var out listResponse
				if err := c.getJSON(ctx, "/analysis/jobs", &out); err != nil {
					return nil, err
				}
				return out.Jobs, nil
			},
		},
	}
}

// CompletedJobs lists jobs known to the backend. The primary search
// endpoint is tried first; any failure there is recovered by returning
// the legacy analysis listing verbatim. Only when every provider fails
// does the error (from the last provider) propagate.
func (c *Client) CompletedJobs(ctx context.Context) ([]model.Job, error) {
	var lastErr error
	for _, p := range c.jobListProviders() {
		jobs, err := p.fetch(ctx)
		if err == nil {
			return jobs, nil
		}
		c.logger.Warn("job listing provider failed", "provider", p.name, "error", err)
		lastErr = err
	}
	return nil, fmt.Errorf("list jobs: %w", lastErr)
}

// DashboardData composes the health check and job listing into one
// summary. It never returns an error: any underlying failure produces a
// degraded Dashboard tagged SystemStatusError with the cause captured,
// and consumers must check the tag.
func (c *Client) DashboardData(ctx context.Context) *model.Dashboard {
	health, err := c.Health(ctx)
	if err != nil {
		return &model.Dashboard{
			SystemStatus: model.SystemStatusError,
			Error:        err.Error(),
		}
	}

	jobs, err := c.CompletedJobs(ctx)
	if err != nil {
		return &model.Dashboard{
			SystemStatus: model.SystemStatusError,
			Health:       *health,
			Error:        err.Error(),
		}
	}

	completed := 0
	for _, j := range jobs {
		if j.Status == model.JobCompleted {
			completed++
		}
	}

	return &model.Dashboard{
		SystemStatus:  health.Status,
		Health:        *health,
		Jobs:          jobs,
		CompletedJobs: completed,
	}
}
