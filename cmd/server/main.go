// Package main implements the entry point for the World Agent API server,
// which routes free-form task requests to capability agents through a
// queue-backed scheduler.
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/worldai/world-api/internal/config"
	"github.com/worldai/world-api/internal/platform/logger"
)

func main() {
	app, err := initializeApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.startHTTPServer(context.Background()); err != nil {
		app.logger.Error("Server exited with error", "error", err)
		// cleanup runs via defer
		return
	}
}

// initializeApp loads configuration, sets up logging, and wires the
// application dependencies.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, err
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_configured", cfg.Database.URL != "",
		"llm_configured", cfg.LLM.GeminiAPIKey != "")

	return newApplication(ctx, cfg, appLogger)
}
