package cli

import (
	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands, plus
// the environment facts main wires in.
type App struct {
	Jobs     service.JobService
	Alerts   service.AlertService
	Schedule service.ScheduleService
	Insights service.InsightService
	Plans    service.PlanService
	Quotes   service.QuoteService
	Imports  service.ImportService

	// Departments is the configured pipeline order, used for wizard
	// choices.
	Departments []domain.Department

	// IsInteractive reports whether stdin is a terminal. The board and the
	// quote wizard refuse to run without one.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "fabline" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "fabline",
		Short: "Fabrication shop scheduler, capacity planner, and quote checker",
	}

	root.AddCommand(
		newJobsCmd(app),
		newAlertsCmd(app),
		newImportCmd(app),
		newScheduleCmd(app),
		newInsightsCmd(app),
		newSuggestCmd(app),
		newPlanAlertCmd(app),
		newQuoteCmd(app),
		newFeasibilityCmd(app),
		newBoardCmd(app),
		newConfigCmd(),
	)

	return root
}
