package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alexanderramin/planora/internal/cli"
	"github.com/alexanderramin/planora/internal/config"
	"github.com/alexanderramin/planora/internal/db"
	"github.com/alexanderramin/planora/internal/extract"
	"github.com/alexanderramin/planora/internal/intelligence"
	"github.com/alexanderramin/planora/internal/llm"
	"github.com/alexanderramin/planora/internal/repository"
	"github.com/alexanderramin/planora/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	var logOut io.Writer = io.Discard
	if cfg.LogCalls {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelInfo}))

	extractor := extract.New()

	// The model is optional: with it disabled every command except
	// generate still works.
	var drafter intelligence.PlanDraftService
	if cfg.LLM.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if cfg.LogCalls || cfg.LLM.LogCalls {
			observer = llm.NewLogObserver(slog.New(slog.NewTextHandler(os.Stderr, nil)))
		}
		client, err := llm.NewClient(ctx, cfg.LLM, observer)
		if err != nil {
			return fmt.Errorf("creating model client: %w", err)
		}
		drafter = intelligence.NewPlanDraftService(client, extractor)
	}

	plans := service.NewPlanService(
		repository.NewSQLitePreferenceRepo(database),
		repository.NewSQLiteDraftRepo(database),
		repository.NewSQLitePlanRepo(database),
		db.NewSQLiteUnitOfWork(database),
		drafter,
		service.PlanServiceOptions{DraftTTL: cfg.DraftTTL},
		service.NewSlogUseCaseObserver(logger),
	)

	app := &cli.App{
		Plans:         plans,
		Extractor:     extractor,
		UserID:        cfg.UserID,
		PurgeSchedule: cfg.PurgeSchedule,
		Logger:        logger,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
