package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// Common validation errors for Task
var (
	ErrEmptyTaskDescription = errors.New("task description cannot be empty")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusProcessing, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

// Terminal returns true if the status is a terminal state.
// Terminal statuses are never revisited.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition. The lifecycle is monotonic:
//
//	pending → processing → {completed, failed}
//	pending → failed (router found no agent; the task never starts)
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case TaskStatusPending:
		return next == TaskStatusProcessing || next == TaskStatusFailed
	case TaskStatusProcessing:
		return next == TaskStatusCompleted || next == TaskStatusFailed
	default:
		// Terminal statuses accept no further transitions.
		return false
	}
}

// ErrorKind classifies why a task failed, so callers can branch on the
// failure category instead of string-matching messages.
type ErrorKind string

// Possible error kind values carried by a failed task's result.
const (
	ErrorKindNoAgent        ErrorKind = "no_agent_available"
	ErrorKindAgentExecution ErrorKind = "agent_execution"
	ErrorKindTimeout        ErrorKind = "timeout"
)

// TaskError is the structured error description carried by a failed task.
// It is never a raw panic value or unwrapped exception text.
type TaskError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// TaskResult holds the outcome of a task. Exactly one of Output or Error
// is populated, and only once the task reaches a terminal status.
type TaskResult struct {
	Output map[string]any `json:"output,omitempty"`
	Error  *TaskError     `json:"error,omitempty"`
}

// Task represents a unit of work routed to an agent.
// Once submitted, the task is owned by the scheduler: callers must treat
// it as read-only, and only the consumption loop mutates Status, Result
// and AssignedAgent.
type Task struct {
	// ID is the process-unique identifier, assigned at creation.
	ID uuid.UUID `json:"id"`
	// Type is an optional coarse category tag.
	Type string `json:"type,omitempty"`
	// Description is the free-text instruction the router matches on.
	Description string `json:"description"`
	// Data is an opaque payload passed through unmodified to the agent.
	Data map[string]any `json:"data,omitempty"`
	// Priority is reserved for future ordering. Submission order is
	// currently the only ordering guarantee.
	Priority int `json:"priority"`
	// Status is the current lifecycle state.
	Status TaskStatus `json:"status"`
	// AssignedAgent is set when the task transitions to processing or
	// is failed by the router; unset while pending.
	AssignedAgent string `json:"assigned_agent,omitempty"`
	// Result is populated only at a terminal status.
	Result *TaskResult `json:"result,omitempty"`
	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at"`
	// CompletedAt is when the task reached a terminal status, if it has.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTask creates a pending Task with a fresh ID and creation timestamp.
// Returns an error if validation fails.
func NewTask(taskType, description string, data map[string]any, priority int) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Type:        taskType,
		Description: description,
		Data:        data,
		Priority:    priority,
		Status:      TaskStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks that the task's fields are valid.
func (t *Task) Validate() error {
	if t.Description == "" {
		return ErrEmptyTaskDescription
	}
	if !t.Status.Valid() {
		return ErrInvalidTaskStatus
	}
	return nil
}
