package api

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/worldai/world-api/internal/api/shared"
	"github.com/worldai/world-api/internal/domain"
	"github.com/worldai/world-api/internal/orchestrator"
)

// TaskHandler serves the asynchronous task endpoints: fire-and-forget
// submission and record lookup.
type TaskHandler struct {
	scheduler *orchestrator.Scheduler
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(scheduler *orchestrator.Scheduler, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		scheduler: scheduler,
		validate:  validator.New(),
		logger:    logger.With("component", "task_handler"),
	}
}

// SubmitTask handles POST /api/tasks. The task is queued and the call
// returns 202 immediately with the task id; processing happens in the
// scheduler's background loop.
func (h *TaskHandler) SubmitTask(w http.ResponseWriter, r *http.Request) {
	var req SubmitTaskRequest
	if err := decodeAndValidate(r, h.validate, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request", err)
		return
	}

	id, err := h.scheduler.Submit(req.Type, req.Description, req.Data, req.Priority)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("task submitted",
		"task_id", id,
		"task_type", req.Type,
		"trace_id", shared.GetTraceID(r.Context()))

	shared.RespondWithJSON(w, r, http.StatusAccepted, SubmitTaskResponse{
		TaskID: id,
		Status: domain.TaskStatusPending,
	})
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	task, err := h.scheduler.Registry().Get(id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}
