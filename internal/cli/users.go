package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/hrpulse/internal/guard"
)

func newPendingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "List accounts awaiting approval",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(guard.CapApproveUsers); err != nil {
				return err
			}

			users, err := client.PendingUsers(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println("No accounts pending approval.")
				return nil
			}

			fmt.Printf("%-14s %-28s %s\n", "ID", "EMAIL", "NAME")
			for _, u := range users {
				fmt.Printf("%-14s %-28s %s\n", u.ID, u.Email, u.Name)
			}
			return nil
		},
	}
}

func newApproveCmd() *cobra.Command {
	var deny bool

	cmd := &cobra.Command{
		Use:   "approve <user_id>",
		Short: "Approve (or deny) a pending account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(guard.CapApproveUsers); err != nil {
				return err
			}

			userID := args[0]
			if err := client.ApproveUser(cmd.Context(), userID, !deny); err != nil {
				return err
			}

			if deny {
				fmt.Printf("Denied %s\n", userID)
			} else {
				fmt.Printf("Approved %s\n", userID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&deny, "deny", false, "Reject the account instead of approving it")
	return cmd
}
