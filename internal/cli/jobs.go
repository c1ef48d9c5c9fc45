package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/hrpulse/internal/guard"
)

func newJobsCmd() *cobra.Command {
	var localOnly bool
	var limit int

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List analysis jobs",
		Long:  "List jobs known to the backend, annotated with local submission history. --local skips the backend entirely.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(guard.CapViewDashboard); err != nil {
				return err
			}

			h, histErr := openHistory()
			if histErr != nil {
				logger.Warn("job history unavailable", "error", histErr)
			} else {
				defer h.Close()
			}

			mine := map[string]string{} // job_id -> filename
			if h != nil {
				entries, err := h.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				for _, e := range entries {
					mine[e.JobID] = e.Filename
				}
			}

			if localOnly {
				if h == nil {
					return histErr
				}
				entries, err := h.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Println("No locally recorded jobs.")
					return nil
				}
				fmt.Printf("%-14s %-11s %s\n", "JOB", "STATUS", "SUBMITTED")
				for _, e := range entries {
					fmt.Printf("%-14s %-11s %s\n", e.JobID, e.Status, e.SubmittedAt.Format("2006-01-02 15:04"))
				}
				return nil
			}

			jobs, err := client.CompletedJobs(cmd.Context())
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Println("No jobs found.")
				return nil
			}

			fmt.Printf("%-14s %-11s %-5s %s\n", "JOB", "STATUS", "MINE", "CREATED")
			for _, j := range jobs {
				marker := ""
				if _, ok := mine[j.JobID]; ok {
					marker = "*"
				}
				created := ""
				if !j.CreatedAt.IsZero() {
					created = j.CreatedAt.Format("2006-01-02 15:04")
				}
				fmt.Printf("%-14s %-11s %-5s %s\n", j.JobID, j.Status, marker, created)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&localOnly, "local", false, "List only locally recorded submissions")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of local entries to consider")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the backend health and job summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(guard.CapViewDashboard); err != nil {
				return err
			}

			dash := client.DashboardData(cmd.Context())

			fmt.Printf("System status: %s\n", dash.SystemStatus)
			if dash.Degraded() {
				fmt.Printf("  Error: %s\n", dash.Error)
				return nil
			}

			for name, status := range dash.Health.Components {
				fmt.Printf("  %-10s %s\n", name+":", status)
			}
			fmt.Printf("Jobs: %d total, %d completed\n", len(dash.Jobs), dash.CompletedJobs)
			return nil
		},
	}
}
