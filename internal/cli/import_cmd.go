package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a backlog from a JSON file",
		Long: `Import work orders and supervisor alerts from a JSON backlog file.
The file is validated as a whole before anything is written; a single
bad record rejects the entire import.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Imports.ImportBacklog(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d jobs and %d alerts from %s\n",
				result.JobCount, result.AlertCount, args[0])
			return nil
		},
	}
}
