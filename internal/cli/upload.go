package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/hrpulse/internal/guard"
)

func newUploadCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload an employee data file",
		Long:  "Upload a CSV or Excel file to the backend, printing the file_id used by 'hrpulse analyze'.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(guard.CapRunAnalysis); err != nil {
				return err
			}

			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			var progress func(pct int)
			if !quiet {
				progress = func(pct int) {
					fmt.Printf("\ruploading %s (%s): %3d%%", filepath.Base(path), humanize.Bytes(uint64(info.Size())), pct)
					if pct == 100 {
						fmt.Println()
					}
				}
			}

			uploaded, err := client.UploadFile(cmd.Context(), filepath.Base(path), f, progress)
			if err != nil {
				return err
			}

			fmt.Printf("Uploaded: %s\n", uploaded.Filename)
			fmt.Printf("  file_id: %s\n", uploaded.FileID)
			if uploaded.Rows > 0 {
				fmt.Printf("  rows:    %d\n", uploaded.Rows)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress the progress line")
	return cmd
}
