package orchestrator

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/worldai/world-api/internal/domain"
)

// TaskRegistry owns the set of in-flight and completed task records and
// enforces their lifecycle transitions. Mutation follows a single-writer
// discipline (the scheduler's consumption loop, plus each ExecuteAndWait
// call for the task it owns); reads may occur concurrently from
// status-reporting callers.
type TaskRegistry struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.Task
}

// NewTaskRegistry creates an empty registry.
func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{
		tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Create registers a new pending task and returns a copy of its record.
func (r *TaskRegistry) Create(taskType, description string, data map[string]any, priority int) (domain.Task, error) {
	task, err := domain.NewTask(taskType, description, data, priority)
	if err != nil {
		return domain.Task{}, err
	}

	r.mu.Lock()
	r.tasks[task.ID] = task
	r.mu.Unlock()

	return *task, nil
}

// Transition moves a task to newStatus, recording the assigned agent and,
// for terminal statuses, the result and completion time. Returns
// domain.ErrTaskNotFound for unknown ids and domain.ErrInvalidTransition
// when the monotonic lifecycle would be violated.
func (r *TaskRegistry) Transition(id uuid.UUID, newStatus domain.TaskStatus, result *domain.TaskResult, agent string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}

	if !task.Status.CanTransitionTo(newStatus) {
		return fmt.Errorf("%w: %s -> %s for task %s",
			domain.ErrInvalidTransition, task.Status, newStatus, id)
	}

	task.Status = newStatus
	if agent != "" {
		task.AssignedAgent = agent
	}
	if newStatus.Terminal() {
		task.Result = result
		now := time.Now().UTC()
		task.CompletedAt = &now
	}

	return nil
}

// Get returns a copy of the task record for id, or domain.ErrTaskNotFound.
func (r *TaskRegistry) Get(id uuid.UUID) (domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return *task, nil
}

// ListByStatus returns copies of all tasks currently in the given status.
func (r *TaskRegistry) ListByStatus(status domain.TaskStatus) []domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Task
	for _, task := range r.tasks {
		if task.Status == status {
			out = append(out, *task)
		}
	}
	return out
}

// Counts aggregates task counts by status for status reporting.
func (r *TaskRegistry) Counts() StatusCounts {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := StatusCounts{Total: len(r.tasks)}
	for _, task := range r.tasks {
		switch task.Status {
		case domain.TaskStatusPending:
			counts.Pending++
		case domain.TaskStatusProcessing:
			counts.Processing++
		case domain.TaskStatusCompleted:
			counts.Completed++
		case domain.TaskStatusFailed:
			counts.Failed++
		}
	}
	return counts
}

// PurgeStale removes terminal tasks older than retention. Pending and
// processing tasks are never purged, regardless of age. Returns the number
// of records removed.
func (r *TaskRegistry) PurgeStale(retention time.Duration) int {
	cutoff := time.Now().UTC().Add(-retention)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, task := range r.tasks {
		if task.Status.Terminal() && task.CreatedAt.Before(cutoff) {
			delete(r.tasks, id)
			removed++
		}
	}
	return removed
}

// remove deletes a task record outright. Used only to roll back a
// submission the queue could not accept.
func (r *TaskRegistry) remove(id uuid.UUID) {
	r.mu.Lock()
	delete(r.tasks, id)
	r.mu.Unlock()
}

// StatusCounts is the aggregated task census exposed by Status().
type StatusCounts struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Failed     int `json:"failed"`
}
