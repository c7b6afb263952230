package cli

import (
	"context"
	"fmt"

	"github.com/averyhollis/fabline/internal/cli/formatter"
	"github.com/averyhollis/fabline/internal/contract"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	var (
		today dateFlag
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Compute and print the shop schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.ScheduleRequest{
				Now:              today.Ptr(),
				IncludeCompleted: all,
			}
			resp, err := app.Schedule.Compute(context.Background(), req)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatSchedule(resp))
			return nil
		},
	}

	cmd.Flags().Var(&today, "today", "Schedule as of this date instead of the wall clock (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&all, "all", false, "Include completed jobs")

	return cmd
}
