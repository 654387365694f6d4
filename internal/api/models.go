package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/worldai/world-api/internal/domain"
	"github.com/worldai/world-api/internal/orchestrator"
)

// SubmitTaskRequest is the request body for POST /api/tasks.
type SubmitTaskRequest struct {
	Type        string         `json:"type"`
	Description string         `json:"description" validate:"required,min=1,max=4096"`
	Data        map[string]any `json:"data"`
	Priority    int            `json:"priority"    validate:"gte=0,lte=10"`
}

// SubmitTaskResponse acknowledges an accepted submission.
type SubmitTaskResponse struct {
	TaskID uuid.UUID         `json:"task_id"`
	Status domain.TaskStatus `json:"status"`
}

// TaskResponse is the full task record returned by GET /api/tasks/{id}.
type TaskResponse struct {
	ID            uuid.UUID          `json:"id"`
	Type          string             `json:"type,omitempty"`
	Description   string             `json:"description"`
	Priority      int                `json:"priority"`
	Status        domain.TaskStatus  `json:"status"`
	AssignedAgent string             `json:"assigned_agent,omitempty"`
	Result        *domain.TaskResult `json:"result,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
}

// CommandRequest is the request body for POST /api/commands, the
// synchronous execution path.
type CommandRequest struct {
	Type        string         `json:"type"`
	Description string         `json:"description" validate:"required,min=1,max=4096"`
	Data        map[string]any `json:"data"`
}

// StatusResponse is the system census returned by GET /api/status.
type StatusResponse struct {
	Running bool                      `json:"running"`
	Agents  []string                  `json:"agents"`
	Tasks   orchestrator.StatusCounts `json:"tasks"`
}

func newTaskResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:            task.ID,
		Type:          task.Type,
		Description:   task.Description,
		Priority:      task.Priority,
		Status:        task.Status,
		AssignedAgent: task.AssignedAgent,
		Result:        task.Result,
		CreatedAt:     task.CreatedAt,
		CompletedAt:   task.CompletedAt,
	}
}
