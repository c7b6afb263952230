package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/averyhollis/fabline/internal/cli/formatter"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/spf13/cobra"
)

func newAlertsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Manage supervisor alerts",
	}

	cmd.AddCommand(
		newAlertsAddCmd(app),
		newAlertsListCmd(app),
		newAlertsResolveCmd(app),
	)

	return cmd
}

func newAlertsAddCmd(app *App) *cobra.Command {
	var (
		dept, reason string
		until        dateFlag
	)

	cmd := &cobra.Command{
		Use:   "add JOB",
		Short: "Report a blocked job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Alerts.Raise(context.Background(), args[0],
				domain.Department(dept), reason, until.Time())
			if err != nil {
				return err
			}

			fmt.Printf("Raised alert %s: %s blocked in %s until %s\n",
				shortID(a.ID), strings.ToUpper(args[0]), a.Department,
				a.EstimatedResolution.Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&dept, "dept", "", "Department where the job is stuck")
	cmd.Flags().StringVar(&reason, "reason", "", "What is blocking the job")
	cmd.Flags().Var(&until, "until", "Estimated resolution date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("dept")
	_ = cmd.MarkFlagRequired("reason")
	_ = cmd.MarkFlagRequired("until")

	return cmd
}

func newAlertsListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List supervisor alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			alerts, err := app.Alerts.List(ctx, all)
			if err != nil {
				return err
			}

			if len(alerts) == 0 {
				fmt.Println("No alerts found.")
				return nil
			}

			// Resolve job IDs to work order numbers for the table.
			jobs, err := app.Jobs.List(ctx, true)
			if err != nil {
				return err
			}
			numbers := make(map[string]string, len(jobs))
			for _, j := range jobs {
				numbers[j.ID] = j.JobNumber
			}

			fmt.Printf("%s", formatter.FormatAlertList(alerts, numbers))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include resolved alerts")

	return cmd
}

func newAlertsResolveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve ALERT",
		Short: "Resolve an alert by ID or ID prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Alerts.Resolve(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Resolved alert %s\n", args[0])
			return nil
		},
	}
}

// shortID returns the first 8 characters of a UUID for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
