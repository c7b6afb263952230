package cli

import (
	"context"
	"fmt"

	"github.com/averyhollis/fabline/internal/cli/formatter"
	"github.com/averyhollis/fabline/internal/contract"
	"github.com/spf13/cobra"
)

func newInsightsCmd(app *App) *cobra.Command {
	var (
		today  dateFlag
		byType bool
		weeks  int
	)

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Analyze the schedule: late jobs, bottlenecks, and remedies",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.NewInsightRequest()
			req.Now = today.Ptr()
			req.SplitByProductType = byType
			req.HorizonWeeks = weeks

			resp, err := app.Insights.Analyze(context.Background(), req)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatInsights(resp))
			return nil
		},
	}

	cmd.Flags().Var(&today, "today", "Analyze as of this date instead of the wall clock (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&byType, "by-type", false, "Break bottleneck loads down by product type")
	cmd.Flags().IntVar(&weeks, "weeks", 6, "Load analysis horizon in weeks")

	return cmd
}
