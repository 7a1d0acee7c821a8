package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexanderramin/taskgraph/internal/cli"
	"github.com/alexanderramin/taskgraph/internal/cli/formatter"
	"github.com/alexanderramin/taskgraph/internal/config"
	"github.com/alexanderramin/taskgraph/internal/db"
	"github.com/alexanderramin/taskgraph/internal/repository"
	"github.com/alexanderramin/taskgraph/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	depRepo := repository.NewSQLiteDependencyRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Projects:        service.NewProjectService(projectRepo),
		Schedule:        service.NewScheduleService(projectRepo, taskRepo, depRepo, uow, cfg.AtRiskSlackDays, observers...),
		Import:          service.NewImportService(projectRepo, taskRepo, depRepo, uow, observers...),
		AtRiskSlackDays: cfg.AtRiskSlackDays,
	}

	out := os.Stdout.Fd()
	colorOK := isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out)
	formatter.SetColorEnabled(colorOK && os.Getenv("NO_COLOR") == "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
