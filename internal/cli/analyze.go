package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/hrpulse/internal/guard"
	"github.com/me/hrpulse/pkg/model"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		sampleSize  int
		mode        string
		aiFeedback  bool
		openaiKey   string
		openaiModel string
		maxTokens   int
		watch       bool
		interval    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "analyze <file_id>",
		Short: "Start an analysis job for an uploaded file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(guard.CapRunAnalysis); err != nil {
				return err
			}

			req := model.AnalysisRequest{
				FileID:           args[0],
				SampleSize:       sampleSize,
				AnalysisMode:     mode,
				EnableAIFeedback: aiFeedback,
				OpenAIAPIKey:     openaiKey,
				OpenAIModel:      openaiModel,
				MaxTokens:        maxTokens,
			}

			job, err := client.StartAnalysis(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Printf("Job started: %s (status: %s)\n", job.JobID, job.Status)

			if h, err := openHistory(); err == nil {
				defer h.Close()
				if err := h.Record(cmd.Context(), job, ""); err != nil {
					logger.Warn("could not record job locally", "job_id", job.JobID, "error", err)
				}
			} else {
				logger.Warn("job history unavailable", "error", err)
			}

			if !watch {
				return nil
			}

			final, err := client.WaitForJob(cmd.Context(), job.JobID, interval, func(j model.Job) {
				fmt.Printf("  %s: %s (%d%%)\n", j.JobID, j.Status, j.Progress)
			})
			if err != nil {
				return err
			}

			if h, err := openHistory(); err == nil {
				defer h.Close()
				_ = h.UpdateStatus(cmd.Context(), final.JobID, final.Status)
			}

			if final.Status == model.JobFailed {
				return fmt.Errorf("job %s failed: %s", final.JobID, final.Message)
			}
			fmt.Printf("Job %s completed. Fetch results with 'hrpulse results %s'.\n", final.JobID, final.JobID)
			return nil
		},
	}

	cmd.Flags().IntVar(&sampleSize, "sample-size", 0, "Number of employees to sample (backend default when 0)")
	cmd.Flags().StringVar(&mode, "mode", "", "Analysis mode")
	cmd.Flags().BoolVar(&aiFeedback, "ai-feedback", false, "Generate AI feedback for each employee")
	cmd.Flags().StringVar(&openaiKey, "openai-key", "", "OpenAI API key for AI feedback")
	cmd.Flags().StringVar(&openaiModel, "openai-model", "", "OpenAI model (default "+model.DefaultOpenAIModel+")")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, fmt.Sprintf("Token budget per feedback (default %d)", model.DefaultMaxTokens))
	cmd.Flags().BoolVar(&watch, "watch", false, "Poll the job until it finishes")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Poll interval used with --watch")
	return cmd
}
