package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"project-builder-backend/internal/ai"
	"project-builder-backend/internal/brief"
	"project-builder-backend/internal/config"
	"project-builder-backend/internal/db"
	"project-builder-backend/internal/ingest"
	"project-builder-backend/internal/logging"
	"project-builder-backend/internal/projects"
	"project-builder-backend/internal/scaffold"
	"project-builder-backend/internal/tasks"
)

// app is the wired component graph shared by every command.
type app struct {
	cfg         *config.Config
	log         zerolog.Logger
	db          *db.DB
	client      *ai.Client
	generator   *tasks.Generator
	tasks       *tasks.Store
	coordinator *brief.Coordinator
	recorder    brief.Recorder
	projects    *projects.Store
	documents   *ingest.Store
	extractor   ingest.OCR
}

// openApp loads config, connects and migrates the database and builds the
// pipeline. Logs go to logOut; commands that print results keep stdout clean.
func openApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newApp(ctx, cfg, logOut)
}

func newApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*app, error) {
	if logOut == nil {
		logOut = os.Stderr
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)

	database, err := db.Connect(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	client := ai.NewClient(ai.SettingsFromConfig(cfg),
		ai.WithLogger(logging.Component(log, "llm")),
		ai.WithRetry(ai.RetryPolicy{Attempts: cfg.LLMRetryAttempts, Delay: cfg.LLMRetryDelay}),
	)
	gen := tasks.NewGenerator(client, logging.Component(log, "tasks"))
	projectStore := projects.NewStore(database)

	return &app{
		cfg:         cfg,
		log:         log,
		db:          database,
		client:      client,
		generator:   gen,
		tasks:       tasks.NewStore(database),
		coordinator: brief.NewCoordinator(gen, scaffold.New(cfg.ProjectsDir)),
		recorder:    brief.Recorder{Projects: projectStore, DB: database, Log: logging.Component(log, "brief")},
		projects:    projectStore,
		documents:   ingest.NewStore(database),
		extractor:   ingest.OCR{TesseractPath: cfg.TesseractPath, PdfToTextPath: cfg.PdfToTextPath},
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
