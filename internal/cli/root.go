package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/me/hrpulse/internal/api"
	"github.com/me/hrpulse/internal/config"
	"github.com/me/hrpulse/internal/guard"
	"github.com/me/hrpulse/internal/history"
	"github.com/me/hrpulse/internal/logging"
	"github.com/me/hrpulse/internal/session"
)

var (
	flagServer    string
	flagTimeout   time.Duration
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg      config.Config
	logger   *slog.Logger
	client   *api.Client
	sessions *session.Store
)

// NewRootCmd creates the root cobra command for the hrpulse CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hrpulse",
		Short: "hrpulse is an HR-analytics client",
		Long:  "hrpulse uploads employee data, runs analysis jobs, and browses their results.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("server") {
				cfg.BaseURL = flagServer
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = flagTimeout
			}
			if flagDebug {
				flagLogLevel = "debug"
			}

			logger = logging.New(logging.ParseLevel(flagLogLevel), flagLogFormat)
			client = api.New(cfg, logger)
			sessions = session.NewStore(client, logger)

			// Restore the session before any command decides anything;
			// the guard refuses to rule on a loading session.
			sessions.Init()
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", config.DefaultBaseURL, "Backend URL (or API_BASE_URL env)")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", config.DefaultTimeout, "Per-request timeout (or API_TIMEOUT_MS env)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newRegisterCmd(),
		newLogoutCmd(),
		newWhoamiCmd(),
		newUploadCmd(),
		newAnalyzeCmd(),
		newStatusCmd(),
		newResultsCmd(),
		newDownloadCmd(),
		newSearchCmd(),
		newJobsCmd(),
		newDashboardCmd(),
		newPendingCmd(),
		newApproveCmd(),
		newDiagCmd(),
	)

	return root
}

// requireAccess runs the session through the gate and translates a denial
// into a CLI error. capability, when non-empty, must additionally be held
// by the user's role.
func requireAccess(capability guard.Capability) error {
	d := guard.Decide(guard.Evaluate(sessions.State()))
	if d.Waiting {
		return fmt.Errorf("session still loading")
	}
	if !d.Allow {
		switch d.Redirect {
		case guard.TargetPending:
			return fmt.Errorf("your account is awaiting administrator approval")
		default:
			return fmt.Errorf("not logged in; run 'hrpulse login' first")
		}
	}
	if capability != "" {
		user := sessions.State().User
		if !guard.Can(user.Role, capability) {
			return fmt.Errorf("role %q may not perform this action", user.Role)
		}
	}
	return nil
}

// requireLogin only checks authentication, not approval. Used by the few
// commands a pending account may still run (whoami, logout).
func requireLogin() error {
	switch guard.Evaluate(sessions.State()) {
	case guard.StateLoading:
		return fmt.Errorf("session still loading")
	case guard.StateUnauthenticated:
		return fmt.Errorf("not logged in; run 'hrpulse login' first")
	}
	return nil
}

// openHistory opens the local job-history database.
func openHistory() (*history.History, error) {
	path, err := cfg.HistoryDBPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path, logger)
}
