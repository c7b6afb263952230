package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/averyhollis/fabline/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the shop configuration file",
	}

	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write an annotated example config",
		Long: `Init writes a fully commented shop.yaml describing the pipeline,
department budgets, overtime tiers, holidays, and quote defaults.
Every value in the example matches the built-in defaults, so the file
is safe to edit piecemeal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			if err := os.WriteFile(path, []byte(config.ExampleConfig), 0644); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			fmt.Printf("Wrote example config to %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}
