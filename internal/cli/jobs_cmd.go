package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/averyhollis/fabline/internal/cli/formatter"
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/spf13/cobra"
)

func newJobsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage work orders",
	}

	cmd.AddCommand(
		newJobsAddCmd(app),
		newJobsListCmd(app),
		newJobsStartCmd(app),
		newJobsAdvanceCmd(app),
		newJobsDoneCmd(app),
		newJobsHoldCmd(app),
		newJobsResumeCmd(app),
		newJobsRemoveCmd(app),
	)

	return cmd
}

func newJobsAddCmd(app *App) *cobra.Command {
	var (
		number, name, salesOrder, productType string
		points                                float64
		due, earliest                         dateFlag
		skip, priorities                      []string
		noGaps                                bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a work order to the backlog",
		RunE: func(cmd *cobra.Command, args []string) error {
			j := &domain.Job{
				JobNumber:   strings.ToUpper(number),
				Name:        name,
				SalesOrder:  strings.ToUpper(salesOrder),
				ProductType: productType,
				Points:      points,
				DueDate:     due.Time(),
				NoGaps:      noGaps,
			}
			for _, d := range skip {
				j.Skipped = append(j.Skipped, domain.Department(d))
			}
			j.EarliestStart = earliest.Ptr()

			ranks, err := parsePriorities(priorities)
			if err != nil {
				return err
			}
			j.PriorityByDept = ranks

			if err := app.Jobs.Create(context.Background(), j); err != nil {
				return err
			}

			fmt.Printf("Created job %s (%s points, due %s)\n",
				j.JobNumber, formatter.PointsStr(j.Points), j.DueDate.Format(dateLayout))
			return nil
		},
	}

	cmd.Flags().StringVar(&number, "number", "", "Work order number (e.g. WO-1042)")
	cmd.Flags().StringVar(&name, "name", "", "Job name")
	cmd.Flags().Float64Var(&points, "points", 0, "Workload in points")
	cmd.Flags().Var(&due, "due", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&salesOrder, "so", "", "Sales order this job belongs to")
	cmd.Flags().StringVar(&productType, "type", "", "Product type for load breakdowns")
	cmd.Flags().StringArrayVar(&skip, "skip", nil, "Department this job does not visit (repeatable)")
	cmd.Flags().StringArrayVar(&priorities, "priority", nil, "Department rank (Dept=N, repeatable)")
	cmd.Flags().BoolVar(&noGaps, "no-gaps", false, "Schedule department windows back to back")
	cmd.Flags().Var(&earliest, "earliest", "Earliest start date, e.g. material arrival (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("number")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("points")
	_ = cmd.MarkFlagRequired("due")

	return cmd
}

// parsePriorities parses repeated Dept=N flags into per-department ranks.
func parsePriorities(entries []string) (map[domain.Department]int, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	ranks := make(map[domain.Department]int, len(entries))
	for _, e := range entries {
		parts := strings.SplitN(e, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --priority format %q, expected Dept=N", e)
		}
		rank, err := strconv.Atoi(parts[1])
		if err != nil || rank < 1 {
			return nil, fmt.Errorf("invalid --priority rank %q, expected a positive integer", parts[1])
		}
		ranks[domain.Department(parts[0])] = rank
	}
	return ranks, nil
}

func newJobsListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the backlog",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := app.Jobs.List(context.Background(), all)
			if err != nil {
				return err
			}

			if len(jobs) == 0 {
				fmt.Println("No jobs found.")
				return nil
			}

			fmt.Printf("%s", formatter.FormatJobList(jobs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include completed jobs")

	return cmd
}

func newJobsStartCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start JOB DEPT",
		Short: "Start a job in a department",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dept := domain.Department(args[1])
			if err := app.Jobs.Start(context.Background(), args[0], dept); err != nil {
				return err
			}
			fmt.Printf("Started %s in %s\n", strings.ToUpper(args[0]), dept)
			return nil
		},
	}
}

func newJobsAdvanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "advance JOB",
		Short: "Move a job to the next department it visits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := app.Jobs.Advance(ctx, args[0]); err != nil {
				return err
			}
			j, err := app.Jobs.Get(ctx, args[0])
			if err != nil {
				return err
			}
			if j.Status == domain.JobCompleted {
				fmt.Printf("%s finished the line and is complete\n", j.JobNumber)
			} else {
				fmt.Printf("Advanced %s to %s\n", j.JobNumber, j.CurrentDept)
			}
			return nil
		},
	}
}

func newJobsDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done JOB",
		Short: "Mark a job completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Jobs.MarkDone(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Marked %s done\n", strings.ToUpper(args[0]))
			return nil
		},
	}
}

func newJobsHoldCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "hold JOB",
		Short: "Put an in-progress job on hold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Jobs.Hold(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Put %s on hold\n", strings.ToUpper(args[0]))
			return nil
		},
	}
}

func newJobsResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume JOB",
		Short: "Resume a held job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := app.Jobs.Resume(ctx, args[0]); err != nil {
				return err
			}
			j, err := app.Jobs.Get(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Resumed %s in %s\n", j.JobNumber, j.CurrentDept)
			return nil
		},
	}
}

func newJobsRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm JOB",
		Short: "Remove a job and its alerts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Jobs.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed %s\n", strings.ToUpper(args[0]))
			return nil
		},
	}
}
