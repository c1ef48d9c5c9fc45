package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the HR-analytics backend",
		Long:  "Exchange email and password for an access token and store it for later commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				v, err := prompt("Email: ")
				if err != nil {
					return err
				}
				email = v
			}
			if password == "" {
				v, err := prompt("Password: ")
				if err != nil {
					return err
				}
				password = v
			}
			if email == "" || password == "" {
				return fmt.Errorf("email and password are required")
			}

			if err := sessions.Login(cmd.Context(), email, password); err != nil {
				return err
			}

			state := sessions.State()
			fmt.Printf("Logged in as %s\n", state.User.Email)
			if !state.Approved {
				fmt.Println("Your account is awaiting administrator approval; most commands are unavailable until then.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted if omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var email, name, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		Long:  "Register an account. New accounts must be approved by an administrator before they can log in usefully.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || name == "" || password == "" {
				return fmt.Errorf("--email, --name, and --password are required")
			}

			if err := sessions.Register(cmd.Context(), email, name, password); err != nil {
				return err
			}

			fmt.Println("Registration submitted. Once approved, run 'hrpulse login'.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&password, "password", "", "Account password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sessions.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireLogin(); err != nil {
				return err
			}

			user, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Email:    %s\n", user.Email)
			fmt.Printf("Name:     %s\n", user.Name)
			fmt.Printf("Role:     %s\n", user.Role)
			fmt.Printf("Approved: %v\n", user.IsApproved)
			return nil
		},
	}
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
