package cli

import (
	"context"
	"fmt"

	"github.com/averyhollis/fabline/internal/cli/formatter"
	"github.com/averyhollis/fabline/internal/contract"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/spf13/cobra"
)

// quoteFlags is the flag set shared by `quote` and `feasibility`.
type quoteFlags struct {
	name, productType string
	dollars           float64
	items             int
	itemValues        []float64
	skip              []string
	rate, bigRock     float64
	today             dateFlag
}

func (f *quoteFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.dollars, "dollars", 0, "Total quoted dollar value")
	cmd.Flags().IntVar(&f.items, "items", 1, "Number of line items")
	cmd.Flags().Float64SliceVar(&f.itemValues, "item-value", nil, "Per-item dollar values, big rocks convert individually")
	cmd.Flags().StringVar(&f.name, "name", "", "Quote name")
	cmd.Flags().StringVar(&f.productType, "type", "", "Product type")
	cmd.Flags().StringArrayVar(&f.skip, "skip", nil, "Department the work would not visit (repeatable)")
	cmd.Flags().Float64Var(&f.rate, "rate", 0, "Dollars per point, overrides the configured rate")
	cmd.Flags().Float64Var(&f.bigRock, "big-rock", 0, "Big rock threshold in points, overrides the configured one")
	cmd.Flags().Var(&f.today, "today", "Simulate as of this date instead of the wall clock (YYYY-MM-DD)")
}

func (f *quoteFlags) request() contract.QuoteRequest {
	req := contract.QuoteRequest{
		Name:             f.name,
		ProductType:      f.productType,
		DollarValue:      f.dollars,
		ItemCount:        f.items,
		ItemValues:       f.itemValues,
		Now:              f.today.Ptr(),
		DollarsPerPoint:  f.rate,
		BigRockThreshold: f.bigRock,
	}
	for _, d := range f.skip {
		req.Skipped = append(req.Skipped, domain.Department(d))
	}
	return req
}

func newQuoteCmd(app *App) *cobra.Command {
	var (
		flags  quoteFlags
		wizard bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Estimate a quote's points and earliest completion",
		Long: `Convert a quote's dollar value into workload points and simulate it
against the current backlog. The stored backlog is never modified.
With --wizard the request is collected interactively, and a promise
date entered there runs a feasibility check instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			req := flags.request()

			if wizard {
				if !app.interactive() {
					return fmt.Errorf("the wizard needs an interactive terminal; pass flags instead")
				}
				if err := runQuoteWizard(app, &req); err != nil {
					return err
				}
			}

			// A promise date turns the estimate into a feasibility check.
			if req.TargetDate != nil {
				resp, err := app.Quotes.CheckFeasibility(ctx, req)
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", formatter.FormatFeasibility(resp))
				return nil
			}

			resp, err := app.Quotes.Estimate(ctx, req)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatQuote(resp))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&wizard, "wizard", false, "Collect the quote interactively")

	return cmd
}

func newFeasibilityCmd(app *App) *cobra.Command {
	var (
		flags  quoteFlags
		target dateFlag
	)

	cmd := &cobra.Command{
		Use:   "feasibility",
		Short: "Check whether a quote can hit a promise date",
		Long: `Price a quote and walk the remediation ladder against a target date:
take it as-is, take it after moving other due dates, take it with
overtime, or turn it down.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := flags.request()
			req.TargetDate = target.Ptr()

			resp, err := app.Quotes.CheckFeasibility(context.Background(), req)
			if err != nil {
				return err
			}

			fmt.Printf("%s\n", formatter.FormatFeasibility(resp))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Var(&target, "target", "Promise date to check (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}
