package api

import (
	"errors"
	"net/http"

	"github.com/worldai/world-api/internal/domain"
	"github.com/worldai/world-api/internal/orchestrator"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so
// handlers never leak internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyTaskDescription):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrSchedulerStopped),
		errors.Is(err, orchestrator.ErrQueueFull):
		return http.StatusServiceUnavailable

	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyTaskDescription):
		return "Invalid request"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid task ID"
	case errors.Is(err, domain.ErrSchedulerStopped):
		return "Service is shutting down"
	case errors.Is(err, orchestrator.ErrQueueFull):
		return "Task queue is full, try again later"
	case errors.Is(err, domain.ErrTimeout):
		return "Command timed out"
	default:
		return "An unexpected error occurred"
	}
}
