package cli

import (
	"context"
	"fmt"

	"github.com/averyhollis/fabline/internal/cli/formatter"
	"github.com/averyhollis/fabline/internal/contract"
	"github.com/spf13/cobra"
)

func newPlanAlertCmd(app *App) *cobra.Command {
	var today dateFlag

	cmd := &cobra.Command{
		Use:   "plan-alert ALERT",
		Short: "Plan the shop around an active blockage",
		Long: `Replan the stuck job's remaining work around a supervisor alert. The
work is floored at the first work day after the estimated resolution,
and the planning ladder reports what it takes to absorb the slip:
nothing, moved due dates, or overtime.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewAlertPlanRequest(args[0])
			req.Now = today.Ptr()

			resp, err := app.Plans.PlanAlert(context.Background(), req)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatAlertPlan(resp))
			return nil
		},
	}

	cmd.Flags().Var(&today, "today", "Plan as of this date instead of the wall clock (YYYY-MM-DD)")

	return cmd
}
