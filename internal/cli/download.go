package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/hrpulse/internal/api"
	"github.com/me/hrpulse/internal/guard"
)

func newDownloadCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "download <job_id>",
		Short: "Download the rendered result file of a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(guard.CapDownloadResults); err != nil {
				return err
			}

			result, err := client.Download(cmd.Context(), args[0], format)
			if err != nil {
				return err
			}
			defer result.Body.Close()

			dest := output
			if dest == "" {
				dest = result.Filename
			}

			f, err := os.Create(dest)
			if err != nil {
				return fmt.Errorf("create %s: %w", dest, err)
			}
			defer f.Close()

			n, err := io.Copy(f, result.Body)
			if err != nil {
				return fmt.Errorf("write %s: %w", dest, err)
			}

			fmt.Printf("Saved %s (%s)\n", dest, humanize.Bytes(uint64(n)))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", api.DefaultDownloadFormat, "Result format (excel, csv, json, pdf)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path (defaults to the server-provided filename)")
	return cmd
}
