package cli

import (
	"context"
	"fmt"

	"github.com/averyhollis/fabline/internal/cli/formatter"
	"github.com/averyhollis/fabline/internal/contract"
	"github.com/spf13/cobra"
)

func newSuggestCmd(app *App) *cobra.Command {
	var due, today dateFlag

	cmd := &cobra.Command{
		Use:   "suggest JOB",
		Short: "Evaluate moving a job's due date, without committing",
		Long: `Simulate moving one job's due date and report whether the new date
holds directly, needs other jobs pushed or overtime granted, or cannot
be met. The stored backlog is never modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewRescheduleRequest(args[0], due.Time())
			req.Now = today.Ptr()

			resp, err := app.Plans.SuggestReschedule(context.Background(), req)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatReschedule(resp))
			return nil
		},
	}

	cmd.Flags().Var(&due, "due", "Proposed due date (YYYY-MM-DD)")
	cmd.Flags().Var(&today, "today", "Plan as of this date instead of the wall clock (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}
