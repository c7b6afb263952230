package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/averyhollis/fabline/internal/cli"
	"github.com/averyhollis/fabline/internal/config"
	"github.com/averyhollis/fabline/internal/db"
	"github.com/averyhollis/fabline/internal/repository"
	"github.com/averyhollis/fabline/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadOrDefault(config.DefaultPath())
	if err != nil {
		return err
	}

	// Determine DB path: env var, configured data dir, or ~/.fabline
	dbPath := os.Getenv("FABLINE_DB")
	if dbPath == "" {
		dataDir := cfg.DataDir
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("finding home directory: %w", err)
			}
			dataDir = filepath.Join(home, ".fabline")
		}
		dbPath = filepath.Join(dataDir, "fabline.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories and the unit of work for transactional imports
	jobRepo := repository.NewSQLiteJobRepo(database)
	alertRepo := repository.NewSQLiteAlertRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	shop, err := service.NewShopFromConfig(cfg)
	if err != nil {
		return err
	}

	// Use-case logging is off unless FABLINE_LOG points somewhere
	var logWriter io.Writer
	switch os.Getenv("FABLINE_LOG") {
	case "":
	case "stderr":
		logWriter = os.Stderr
	default:
		f, err := os.OpenFile(os.Getenv("FABLINE_LOG"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logWriter = f
	}
	observer := service.NewLogUseCaseObserver(logWriter)

	app := &cli.App{
		Jobs:        service.NewJobService(jobRepo, shop),
		Alerts:      service.NewAlertService(alertRepo, jobRepo, shop),
		Schedule:    service.NewScheduleService(jobRepo, alertRepo, shop, observer),
		Insights:    service.NewInsightService(jobRepo, alertRepo, shop, observer),
		Plans:       service.NewPlanService(jobRepo, alertRepo, shop, observer),
		Quotes:      service.NewQuoteService(jobRepo, alertRepo, shop, observer),
		Imports:     service.NewImportService(uow, shop, observer),
		Departments: shop.Pipeline.Departments(),
	}

	// Detect interactive terminal for the wizard and board entrypoints.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
