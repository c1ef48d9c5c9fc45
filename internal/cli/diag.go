package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/hrpulse/internal/diag"
)

func newDiagCmd() *cobra.Command {
	var channels string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "diag",
		Short: "Probe backend connectivity over WebSocket",
		Long:  "Send a single ping over the backend's WebSocket endpoint and print operator guidance on failure. Diagnostic only; no application behavior depends on it.",
		RunE: func(cmd *cobra.Command, args []string) error {
			report := diag.Ping(cmd.Context(), cfg.BaseURL, channels, timeout)

			fmt.Printf("Endpoint:  %s\n", report.URL)
			fmt.Printf("Client ID: %s\n", report.ClientID)

			if report.OK {
				fmt.Printf("Ping OK (%s round trip)\n", report.RTT.Round(time.Millisecond))
				return nil
			}

			fmt.Printf("Ping FAILED: %v\n", report.Err)
			for _, hint := range report.Guidance {
				fmt.Printf("  - %s\n", hint)
			}
			return fmt.Errorf("connectivity probe failed")
		},
	}

	cmd.Flags().StringVar(&channels, "channels", diag.DefaultChannels, "Channel subscription list")
	cmd.Flags().DurationVar(&timeout, "probe-timeout", 5*time.Second, "Probe timeout")
	return cmd
}
