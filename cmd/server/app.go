package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/worldai/world-api/internal/agent"
	"github.com/worldai/world-api/internal/config"
	"github.com/worldai/world-api/internal/generation"
	"github.com/worldai/world-api/internal/orchestrator"
	"github.com/worldai/world-api/internal/platform/gemini"
	"github.com/worldai/world-api/internal/platform/postgres"
	"github.com/worldai/world-api/internal/ratelimit"
)

// application holds the shared application dependencies so wiring and
// cleanup live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger

	db        *sql.DB
	scheduler *orchestrator.Scheduler
	counter   *ratelimit.WindowCounter
}

// newApplication wires the full dependency graph: optional database and
// migrations, optional LLM generator, the agent roster, and the scheduler.
// The scheduler's consumption loop is started before returning.
func newApplication(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) (*application, error) {
	app := &application{
		config:  cfg,
		logger:  appLogger,
		counter: ratelimit.NewWindowCounter(cfg.RateLimit.Window),
	}

	// Experience persistence is optional; without a database configured,
	// task outcomes are simply not retained beyond the in-memory registry.
	var sink orchestrator.ExperienceSink
	if cfg.Database.URL != "" {
		db, err := openDatabase(ctx, cfg.Database.URL, appLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		app.db = db

		if err := runMigrations(db, appLogger); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		sink = postgres.NewExperienceStore(db, appLogger)
		appLogger.Info("experience sink enabled")
	} else {
		appLogger.Info("no database configured, experiences will not be persisted")
	}

	// The LLM generator is also optional; content-producing agents fall
	// back to templates when it is absent.
	var gen generation.Generator
	if cfg.LLM.GeminiAPIKey != "" {
		g, err := gemini.NewGenerator(ctx, cfg.LLM, appLogger)
		if err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to create generator: %w", err)
		}
		gen = g
		appLogger.Info("LLM generator enabled", "model", cfg.LLM.ModelName)
	}

	router := agent.NewRouter(agent.DefaultDescriptors(cfg.Orchestrator.WorkspaceDir, gen, appLogger)...)

	app.scheduler = orchestrator.New(router, sink, orchestrator.Config{
		QueueSize:      cfg.Orchestrator.QueueSize,
		Retention:      cfg.Orchestrator.Retention,
		PurgeInterval:  cfg.Orchestrator.PurgeInterval,
		ExecuteTimeout: cfg.Orchestrator.ExecuteTimeout,
	}, appLogger)
	app.scheduler.Start()

	return app, nil
}

// cleanup releases application resources in reverse dependency order: the
// scheduler drains first so in-flight tasks can still reach the sink.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop(app.config.Orchestrator.DrainTimeout)
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
