package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/worldai/world-api/internal/api/shared"
	"github.com/worldai/world-api/internal/domain"
	"github.com/worldai/world-api/internal/orchestrator"
)

// CommandHandler serves POST /api/commands, the synchronous execution path:
// the request blocks until the task finishes or the execute timeout elapses.
type CommandHandler struct {
	scheduler *orchestrator.Scheduler
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewCommandHandler creates a CommandHandler.
func NewCommandHandler(scheduler *orchestrator.Scheduler, logger *slog.Logger) *CommandHandler {
	return &CommandHandler{
		scheduler: scheduler,
		validate:  validator.New(),
		logger:    logger.With("component", "command_handler"),
	}
}

// ExecuteCommand handles POST /api/commands.
func (h *CommandHandler) ExecuteCommand(w http.ResponseWriter, r *http.Request) {
	var req CommandRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}

	task, err := h.scheduler.ExecuteAndWait(r.Context(), req.Type, req.Description, req.Data)
	if err != nil {
		// On timeout the task record still carries the failure details;
		// include it so the client can correlate.
		if errors.Is(err, domain.ErrTimeout) {
			h.logger.Warn("command timed out",
				"task_id", task.ID,
				"trace_id", shared.GetTraceID(r.Context()))
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("command executed",
		"task_id", task.ID,
		"status", task.Status,
		"agent", task.AssignedAgent)

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}
