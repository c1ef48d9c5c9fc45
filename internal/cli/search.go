package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/hrpulse/internal/guard"
)

func newSearchCmd() *cobra.Command {
	var uid, grade string

	cmd := &cobra.Command{
		Use:   "search <job_id>",
		Short: "Search employees within a job's results",
		Long:  "Query the unified employee search endpoint. Provide --uid, --grade, or both; with neither the backend matches all employees.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(guard.CapSearchEmployees); err != nil {
				return err
			}

			result, err := client.SearchEmployee(cmd.Context(), args[0], uid, grade)
			if err != nil {
				return err
			}

			if len(result.Employees) == 0 {
				fmt.Println("No employees matched.")
				return nil
			}

			fmt.Printf("%-8s %-20s %-6s %s\n", "UID", "NAME", "GRADE", "DEPARTMENT")
			for _, e := range result.Employees {
				fmt.Printf("%-8s %-20s %-6s %s\n", e.UID, e.Name, e.Grade, e.Department)
			}
			fmt.Printf("%d employee(s)\n", result.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&uid, "uid", "", "Employee UID filter")
	cmd.Flags().StringVar(&grade, "grade", "", "Grade filter")
	return cmd
}
