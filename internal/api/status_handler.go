package api

import (
	"net/http"

	"github.com/worldai/world-api/internal/api/shared"
	"github.com/worldai/world-api/internal/orchestrator"
)

// StatusHandler serves GET /api/status: the task census plus the set of
// registered agents and whether the consumption loop is running.
type StatusHandler struct {
	scheduler *orchestrator.Scheduler
}

// NewStatusHandler creates a StatusHandler.
func NewStatusHandler(scheduler *orchestrator.Scheduler) *StatusHandler {
	return &StatusHandler{scheduler: scheduler}
}

// GetStatus handles GET /api/status.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{
		Running: h.scheduler.Running(),
		Agents:  h.scheduler.Router().Names(),
		Tasks:   h.scheduler.Status(),
	})
}
