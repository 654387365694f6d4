package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/worldai/world-api/internal/api"
	apiMiddleware "github.com/worldai/world-api/internal/api/middleware"
)

// setupRouter configures the application router: standard chi middleware,
// admission control on the /api subtree, and the task/command/status
// endpoints.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace)

	taskHandler := api.NewTaskHandler(app.scheduler, app.logger)
	commandHandler := api.NewCommandHandler(app.scheduler, app.logger)
	statusHandler := api.NewStatusHandler(app.scheduler)

	admission := apiMiddleware.NewAdmission(
		app.counter,
		app.config.RateLimit.Threshold,
		app.config.Auth.JWTSecret,
		app.logger,
	)

	r.Route("/api", func(r chi.Router) {
		// Admission control runs before any task is created.
		r.Use(admission.Handler)

		r.Post("/tasks", taskHandler.SubmitTask)
		r.Get("/tasks/{id}", taskHandler.GetTask)
		r.Post("/commands", commandHandler.ExecuteCommand)
		r.Get("/status", statusHandler.GetStatus)
	})

	// Liveness probe, outside the rate-limited subtree.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
