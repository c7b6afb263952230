package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(app *App) *cobra.Command {
	var (
		today  dateFlag
		byType bool
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Browse late jobs, overloads, and remedies in a full-screen board",
		Long: `Board opens a read-only full-screen view of the insight analysis:
late jobs, overloaded weeks, suggested due-date moves, and overtime
recommendations, one tab each. It changes nothing; use the regular
commands to act on what it shows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("the board needs an interactive terminal; try `fabline insights` instead")
			}

			m := newBoardModel(app, today.Ptr(), byType)
			if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
				return fmt.Errorf("board: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Var(&today, "today", "analyze as of this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&byType, "by-type", false, "split overload weeks by product type")

	return cmd
}
