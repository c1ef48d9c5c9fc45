package model

// Health is the backend liveness report.
type Health struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Components map[string]string `json:"components,omitempty"`
}

// SystemStatusError tags a Dashboard built from a failed composition.
const SystemStatusError = "error"

// Dashboard is the composed summary of backend health and recent jobs.
// When any underlying call fails the client returns a degraded Dashboard
// with SystemStatus set to SystemStatusError and the cause in Error,
// rather than propagating the failure; consumers must check the tag.
type Dashboard struct {
	SystemStatus  string `json:"system_status"`
	Health        Health `json:"health,omitzero"`
	Jobs          []Job  `json:"jobs,omitempty"`
	CompletedJobs int    `json:"completed_jobs"`
	Error         string `json:"error,omitempty"`
}

// Degraded reports whether the dashboard was built from a failed call.
func (d *Dashboard) Degraded() bool {
	return d.SystemStatus == SystemStatusError
}
