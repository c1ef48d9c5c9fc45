package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/me/hrpulse/internal/guard"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <job_id>",
		Short: "Check the status of an analysis job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(guard.CapViewDashboard); err != nil {
				return err
			}

			jobID := args[0]
			job, err := client.JobStatus(cmd.Context(), jobID)
			if err != nil {
				return err
			}

			fmt.Printf("Job: %s\n", job.JobID)
			fmt.Printf("  Status:   %s\n", job.Status)
			if job.Progress > 0 {
				fmt.Printf("  Progress: %d%%\n", job.Progress)
			}
			if job.Message != "" {
				fmt.Printf("  Message:  %s\n", job.Message)
			}
			if !job.CreatedAt.IsZero() {
				fmt.Printf("  Created:  %s\n", job.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			if !job.CompletedAt.IsZero() {
				fmt.Printf("  Completed: %s\n", job.CompletedAt.Format("2006-01-02 15:04:05"))
			}

			if h, err := openHistory(); err == nil {
				defer h.Close()
				_ = h.UpdateStatus(cmd.Context(), job.JobID, job.Status)
			}
			return nil
		},
	}
}

func newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results <job_id>",
		Short: "Fetch the result document of a completed job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(guard.CapViewDashboard); err != nil {
				return err
			}

			raw, err := client.Results(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(raw)
		},
	}
}
